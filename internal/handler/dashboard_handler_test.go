package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rudrakalshethra/academy-api/internal/middleware"
	"github.com/rudrakalshethra/academy-api/internal/models"
	"github.com/rudrakalshethra/academy-api/internal/service"
)

type stubStatsLedgerRepo struct {
	stats  *models.BranchStats
	branch models.Branch
}

func (s *stubStatsLedgerRepo) BranchStats(_ context.Context, branch models.Branch) (*models.BranchStats, error) {
	s.branch = branch
	return s.stats, nil
}

type stubStatsPaymentRepo struct {
	revenue int64
}

func (s *stubStatsPaymentRepo) RevenueSince(context.Context, models.Branch, time.Time) (int64, error) {
	return s.revenue, nil
}

func testAdminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, Branch: models.BranchAll}
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func TestDashboardHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ledgers := &stubStatsLedgerRepo{stats: &models.BranchStats{
		TotalStudents:   12,
		ActiveStudents:  10,
		StudentsPayable: 3,
		TotalPending:    4800,
	}}
	svc := service.NewDashboardService(ledgers, &stubStatsPaymentRepo{revenue: 16000}, nil, zap.NewNop())
	handler := NewDashboardHandler(svc)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/stats?branch=kothavara", nil)
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "kothavara", envelope.Data["branch"])
	assert.Equal(t, float64(12), envelope.Data["total_students"])
	assert.Equal(t, float64(16000), envelope.Data["recent_revenue"])
	assert.Equal(t, false, envelope.Meta["cache_hit"])
	assert.Equal(t, models.BranchKothavara, ledgers.branch)
}

func TestDashboardHandlerStatsStudentForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewDashboardService(&stubStatsLedgerRepo{}, &stubStatsPaymentRepo{}, nil, zap.NewNop())
	handler := NewDashboardHandler(svc)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent, Branch: models.BranchKothavara})

	handler.Stats(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "FORBIDDEN", envelope.Error["code"])
}
