package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

type attendanceLedgerRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentLedger, error)
	RecordAttendance(ctx context.Context, event *models.AttendanceEvent) (*models.StudentLedger, error)
}

type attendanceEventRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

// AttendanceService coordinates attendance markings against student ledgers.
type AttendanceService struct {
	ledgerRepo attendanceLedgerRepository
	eventRepo  attendanceEventRepository
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(ledgerRepo attendanceLedgerRepository, eventRepo attendanceEventRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{ledgerRepo: ledgerRepo, eventRepo: eventRepo, cache: cache, validator: validate, logger: logger}
}

// MarkAttendanceRequest describes the payload for marking one attendance day.
type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Present   *bool  `json:"present" validate:"required"`
}

// AttendanceListRequest describes filters for listing attendance history.
type AttendanceListRequest struct {
	Branch    models.Branch `json:"branch"`
	StudentID string        `json:"student_id"`
	DateFrom  *time.Time    `json:"date_from"`
	DateTo    *time.Time    `json:"date_to"`
	Limit     int           `json:"limit"`
}

// MarkAttendance records one attendance marking and returns the updated
// ledger. Present markings consume one class credit; a second marking for
// the same student and day is rejected.
func (s *AttendanceService) MarkAttendance(ctx context.Context, claims *models.JWTClaims, req MarkAttendanceRequest) (*models.StudentLedger, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	attendedOn, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
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

	event := &models.AttendanceEvent{
		LedgerID:   ledger.ID,
		AttendedOn: attendedOn,
		Present:    *req.Present,
		Branch:     ledger.Branch,
		RecordedBy: claims.UserID,
	}

	updated, err := s.ledgerRepo.RecordAttendance(ctx, event)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, wrapStorage(err, "failed to record attendance")
	}

	s.cache.Invalidate(ctx, "dash:stats:*")
	s.logger.Info("attendance recorded",
		zap.String("ledger_id", ledger.ID),
		zap.String("date", req.Date),
		zap.Bool("present", event.Present))

	return updated, nil
}

// ListAttendance returns attendance history scoped to the caller's access.
func (s *AttendanceService) ListAttendance(ctx context.Context, claims *models.JWTClaims, req AttendanceListRequest) ([]models.AttendanceRecord, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return nil, err
	}

	filter := models.AttendanceFilter{
		Branch:   ScopeBranch(claims, req.Branch),
		LedgerID: req.StudentID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Limit:    req.Limit,
	}

	records, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapStorage(err, "failed to list attendance")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}
