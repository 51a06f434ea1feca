package handler

import (
	"bytes"
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
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

type stubAttendanceLedgerRepo struct {
	ledger    *models.StudentLedger
	recordErr error
}

func (s *stubAttendanceLedgerRepo) FindByID(context.Context, string) (*models.StudentLedger, error) {
	return s.ledger, nil
}

func (s *stubAttendanceLedgerRepo) RecordAttendance(_ context.Context, event *models.AttendanceEvent) (*models.StudentLedger, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	updated := *s.ledger
	updated.ApplyAttendance(event.Present)
	return &updated, nil
}

type stubAttendanceEventRepo struct {
	records []models.AttendanceRecord
}

func (s *stubAttendanceEventRepo) List(context.Context, models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	return s.records, nil
}

func newAttendanceHandler(ledgers *stubAttendanceLedgerRepo) *AttendanceHandler {
	svc := service.NewAttendanceService(ledgers, &stubAttendanceEventRepo{}, nil, nil, zap.NewNop())
	return NewAttendanceHandler(svc)
}

func kothavaraTestLedger() *models.StudentLedger {
	return &models.StudentLedger{
		ID:            "led-1",
		UserID:        "usr-1",
		Branch:        models.BranchKothavara,
		FeePerClass:   models.DefaultFeePerClass,
		UnpaidClasses: 2,
		PendingAmount: 800,
		Active:        true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func TestAttendanceHandlerMarkPresent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAttendanceHandler(&stubAttendanceLedgerRepo{ledger: kothavaraTestLedger()})

	body := bytes.NewBufferString(`{"student_id":"led-1","date":"2026-08-01","present":true}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Mark(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, float64(3), envelope.Data["unpaid_classes"])
	assert.Equal(t, float64(1200), envelope.Data["pending_amount"])
}

func TestAttendanceHandlerMarkDuplicateDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAttendanceHandler(&stubAttendanceLedgerRepo{
		ledger:    kothavaraTestLedger(),
		recordErr: appErrors.ErrDuplicateAttendance,
	})

	body := bytes.NewBufferString(`{"student_id":"led-1","date":"2026-08-01","present":true}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Mark(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "DUPLICATE_ATTENDANCE", envelope.Error["code"])
}

func TestAttendanceHandlerMarkMissingPresentFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAttendanceHandler(&stubAttendanceLedgerRepo{ledger: kothavaraTestLedger()})

	body := bytes.NewBufferString(`{"student_id":"led-1","date":"2026-08-01"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Mark(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerListInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAttendanceHandler(&stubAttendanceLedgerRepo{ledger: kothavaraTestLedger()})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance?date_from=99-99-9999", nil)
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
