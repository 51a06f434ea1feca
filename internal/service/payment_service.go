package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
	"github.com/rudrakalshethra/academy-api/pkg/export"
)

type paymentLedgerRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentLedger, error)
	RecordPayment(ctx context.Context, event *models.PaymentEvent) (*models.StudentLedger, error)
}

type paymentEventRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, error)
}

// PaymentService coordinates fee settlements against student ledgers.
type PaymentService struct {
	ledgerRepo paymentLedgerRepository
	eventRepo  paymentEventRepository
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(ledgerRepo paymentLedgerRepository, eventRepo paymentEventRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{ledgerRepo: ledgerRepo, eventRepo: eventRepo, cache: cache, validator: validate, logger: logger}
}

// RecordPaymentRequest describes the payload for settling unpaid classes.
type RecordPaymentRequest struct {
	StudentID    string `json:"student_id" validate:"required"`
	ClassesCount int    `json:"classes_count"`
	Method       string `json:"method" validate:"required"`
}

// PaymentListRequest describes filters for listing payment history.
type PaymentListRequest struct {
	Branch    models.Branch `json:"branch"`
	StudentID string        `json:"student_id"`
	Since     *time.Time    `json:"since"`
	Limit     int           `json:"limit"`
}

// PaymentResult pairs the recorded event with the updated ledger.
type PaymentResult struct {
	Payment *models.PaymentEvent  `json:"payment"`
	Student *models.StudentLedger `json:"student"`
}

// RecordPayment settles classes_count unpaid classes for a student. The
// quantity is checked before touching storage; the decrement itself is
// conditional so concurrent payments cannot overspend the same credit.
func (s *PaymentService) RecordPayment(ctx context.Context, claims *models.JWTClaims, req RecordPaymentRequest) (*PaymentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	if req.ClassesCount <= 0 {
		return nil, appErrors.ErrInvalidQuantity
	}

	method := models.PaymentMethod(req.Method)
	if !method.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported payment method %q", req.Method))
	}

	ledger, err := s.ledgerRepo.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, wrapStorage(err, "failed to load student ledger")
	}

	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ledger.Branch); err != nil {
		return nil, err
	}

	event := &models.PaymentEvent{
		LedgerID:     ledger.ID,
		ClassesCount: req.ClassesCount,
		Method:       method,
		RecordedBy:   claims.UserID,
	}

	updated, err := s.ledgerRepo.RecordPayment(ctx, event)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, wrapStorage(err, "failed to record payment")
	}

	s.cache.Invalidate(ctx, "dash:stats:*")
	s.logger.Info("payment recorded",
		zap.String("ledger_id", ledger.ID),
		zap.Int("classes_count", event.ClassesCount),
		zap.Int64("amount", event.Amount),
		zap.String("method", string(event.Method)))

	return &PaymentResult{Payment: event, Student: updated}, nil
}

// ListPayments returns payment history scoped to the caller's access.
func (s *PaymentService) ListPayments(ctx context.Context, claims *models.JWTClaims, req PaymentListRequest) ([]models.PaymentRecord, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return nil, err
	}

	filter := models.PaymentFilter{
		Branch:   ScopeBranch(claims, req.Branch),
		LedgerID: req.StudentID,
		Since:    req.Since,
		Limit:    req.Limit,
	}

	records, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapStorage(err, "failed to list payments")
	}
	if records == nil {
		records = []models.PaymentRecord{}
	}
	return records, nil
}

// ExportPayments renders payment history as a downloadable CSV or PDF file.
func (s *PaymentService) ExportPayments(ctx context.Context, claims *models.JWTClaims, req PaymentListRequest, format string) (*export.File, error) {
	records, err := s.ListPayments(ctx, claims, req)
	if err != nil {
		return nil, err
	}

	headers := []string{"Student", "Date", "Classes", "Amount", "Method", "Branch", "Recorded By"}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.StudentName,
			rec.PaidAt.Format("2006-01-02"),
			fmt.Sprintf("%d", rec.ClassesCount),
			fmt.Sprintf("%d", rec.Amount),
			string(rec.Method),
			string(rec.Branch),
			rec.RecordedByName,
		})
	}

	name := fmt.Sprintf("payments-%s", time.Now().UTC().Format("20060102-150405"))
	switch format {
	case "csv", "":
		return export.CSV(name, headers, rows)
	case "pdf":
		return export.PDF(name, "Payment History", headers, rows)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
