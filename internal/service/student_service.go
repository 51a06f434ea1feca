package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rudrakalshethra/academy-api/internal/dto"
	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

type studentLedgerRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentLedger, error)
	FindDetailByUserID(ctx context.Context, userID string) (*models.LedgerDetail, error)
	List(ctx context.Context, filter models.LedgerFilter) ([]models.LedgerDetail, error)
	CreateStudent(ctx context.Context, user *models.User, ledger *models.StudentLedger) error
}

type studentAccountRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

// StudentService manages student accounts and their fee ledgers.
type StudentService struct {
	ledgerRepo     studentLedgerRepository
	userRepo       studentAccountRepository
	attendanceRepo attendanceEventRepository
	paymentRepo    paymentEventRepository
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(ledgerRepo studentLedgerRepository, userRepo studentAccountRepository, attendanceRepo attendanceEventRepository, paymentRepo paymentEventRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{ledgerRepo: ledgerRepo, userRepo: userRepo, attendanceRepo: attendanceRepo, paymentRepo: paymentRepo, validator: validate, logger: logger}
}

// CreateStudentRequest describes the payload for enrolling a student.
type CreateStudentRequest struct {
	Name        string        `json:"name" validate:"required,min=2,max=120"`
	Email       string        `json:"email" validate:"required,email"`
	Password    string        `json:"password" validate:"required,min=6"`
	Phone       string        `json:"phone" validate:"omitempty,min=6,max=20"`
	Branch      models.Branch `json:"branch" validate:"required"`
	FeePerClass int64         `json:"fee_per_class" validate:"omitempty,gt=0"`
}

// StudentListRequest describes filters for the students listing.
type StudentListRequest struct {
	Branch models.Branch `json:"branch"`
	Active *bool         `json:"active"`
}

const selfHistoryLimit = 20

// Create enrolls a student: one account plus one ledger, inserted together.
func (s *StudentService) Create(ctx context.Context, claims *models.JWTClaims, req CreateStudentRequest) (*models.LedgerDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	if !req.Branch.Valid() || req.Branch == models.BranchAll {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown branch %q", req.Branch))
	}

	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, req.Branch); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, wrapStorage(err, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	feePerClass := req.FeePerClass
	if feePerClass <= 0 {
		feePerClass = models.DefaultFeePerClass
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Branch:       req.Branch,
		Phone:        req.Phone,
		Active:       true,
	}
	ledger := &models.StudentLedger{
		Branch:      req.Branch,
		FeePerClass: feePerClass,
		Active:      true,
	}

	if err := s.ledgerRepo.CreateStudent(ctx, user, ledger); err != nil {
		return nil, wrapStorage(err, "failed to create student")
	}

	s.logger.Info("student enrolled",
		zap.String("ledger_id", ledger.ID),
		zap.String("branch", string(ledger.Branch)))

	return &models.LedgerDetail{
		StudentLedger: *ledger,
		StudentName:   user.Name,
		StudentEmail:  user.Email,
		StudentPhone:  user.Phone,
	}, nil
}

// List returns student ledgers scoped to the caller's access.
func (s *StudentService) List(ctx context.Context, claims *models.JWTClaims, req StudentListRequest) ([]models.LedgerDetail, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return nil, err
	}

	filter := models.LedgerFilter{
		Branch: ScopeBranch(claims, req.Branch),
		Active: req.Active,
	}

	details, err := s.ledgerRepo.List(ctx, filter)
	if err != nil {
		return nil, wrapStorage(err, "failed to list students")
	}
	if details == nil {
		details = []models.LedgerDetail{}
	}
	return details, nil
}

// Get returns one student ledger. Admins see any student, managers only
// students of their own branch.
func (s *StudentService) Get(ctx context.Context, claims *models.JWTClaims, studentID string) (*models.StudentLedger, error) {
	ledger, err := s.ledgerRepo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, wrapStorage(err, "failed to load student")
	}

	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ledger.Branch); err != nil {
		return nil, err
	}
	return ledger, nil
}

// Self returns the caller's own ledger with recent attendance and payment
// history. Only student accounts may call it.
func (s *StudentService) Self(ctx context.Context, claims *models.JWTClaims) (*dto.StudentSelfResponse, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleStudent}, ""); err != nil {
		return nil, err
	}

	detail, err := s.ledgerRepo.FindDetailByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no ledger found for this account")
		}
		return nil, wrapStorage(err, "failed to load ledger")
	}

	attendance, err := s.attendanceRepo.List(ctx, models.AttendanceFilter{LedgerID: detail.ID, Limit: selfHistoryLimit})
	if err != nil {
		return nil, wrapStorage(err, "failed to load attendance history")
	}
	payments, err := s.paymentRepo.List(ctx, models.PaymentFilter{LedgerID: detail.ID, Limit: selfHistoryLimit})
	if err != nil {
		return nil, wrapStorage(err, "failed to load payment history")
	}

	if attendance == nil {
		attendance = []models.AttendanceRecord{}
	}
	if payments == nil {
		payments = []models.PaymentRecord{}
	}

	return &dto.StudentSelfResponse{
		Student:           detail,
		AttendanceRecords: attendance,
		PaymentRecords:    payments,
	}, nil
}
