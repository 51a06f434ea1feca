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
)

type stubPaymentLedgerRepo struct {
	ledger *models.StudentLedger
}

func (s *stubPaymentLedgerRepo) FindByID(context.Context, string) (*models.StudentLedger, error) {
	return s.ledger, nil
}

func (s *stubPaymentLedgerRepo) RecordPayment(_ context.Context, event *models.PaymentEvent) (*models.StudentLedger, error) {
	updated := *s.ledger
	amount, err := updated.ApplyPayment(event.ClassesCount)
	if err != nil {
		return nil, err
	}
	event.ID = "pay-1"
	event.Amount = amount
	event.Branch = updated.Branch
	event.PaidAt = time.Now().UTC()
	return &updated, nil
}

type stubPaymentEventRepo struct {
	records []models.PaymentRecord
}

func (s *stubPaymentEventRepo) List(context.Context, models.PaymentFilter) ([]models.PaymentRecord, error) {
	return s.records, nil
}

func newPaymentHandler(ledgers *stubPaymentLedgerRepo, events *stubPaymentEventRepo) *PaymentHandler {
	if events == nil {
		events = &stubPaymentEventRepo{}
	}
	svc := service.NewPaymentService(ledgers, events, nil, nil, zap.NewNop())
	return NewPaymentHandler(svc)
}

func TestPaymentHandlerRecord(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPaymentHandler(&stubPaymentLedgerRepo{ledger: kothavaraTestLedger()}, nil)

	body := bytes.NewBufferString(`{"student_id":"led-1","classes_count":2,"method":"cash"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/payments", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Record(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	payment, _ := envelope.Data["payment"].(map[string]interface{})
	student, _ := envelope.Data["student"].(map[string]interface{})
	assert.Equal(t, float64(800), payment["amount"])
	assert.Equal(t, "cash", payment["method"])
	assert.Equal(t, float64(0), student["unpaid_classes"])
	assert.Equal(t, float64(0), student["pending_amount"])
}

func TestPaymentHandlerRecordInsufficientCredit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPaymentHandler(&stubPaymentLedgerRepo{ledger: kothavaraTestLedger()}, nil)

	body := bytes.NewBufferString(`{"student_id":"led-1","classes_count":9,"method":"cash"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/payments", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Record(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "INSUFFICIENT_UNPAID_CLASSES", envelope.Error["code"])
}

func TestPaymentHandlerRecordZeroClasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPaymentHandler(&stubPaymentLedgerRepo{ledger: kothavaraTestLedger()}, nil)

	body := bytes.NewBufferString(`{"student_id":"led-1","classes_count":0,"method":"cash"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/payments", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Record(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "INVALID_QUANTITY", envelope.Error["code"])
}

func TestPaymentHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	events := &stubPaymentEventRepo{records: []models.PaymentRecord{
		{
			PaymentEvent: models.PaymentEvent{
				ID:           "pay-1",
				LedgerID:     "led-1",
				PaidAt:       time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
				ClassesCount: 2,
				Amount:       800,
				Method:       models.PaymentCash,
				Branch:       models.BranchKothavara,
			},
			StudentName:    "Meera",
			RecordedByName: "Administrator",
		},
	}}
	handler := newPaymentHandler(&stubPaymentLedgerRepo{ledger: kothavaraTestLedger()}, events)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/payments/export?format=csv", nil)
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Meera")
	assert.Contains(t, rec.Body.String(), "800")
}

func TestPaymentHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newPaymentHandler(&stubPaymentLedgerRepo{ledger: kothavaraTestLedger()}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/payments/export?format=xlsx", nil)
	c.Set(middleware.ContextUserKey, testAdminClaims())

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
