package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

type catalogRepository interface {
	ListMudras(ctx context.Context) ([]models.Mudra, error)
	ListMudrasByCategory(ctx context.Context, category string) ([]models.Mudra, error)
	FindMudra(ctx context.Context, id string) (*models.Mudra, error)
	CreateMudra(ctx context.Context, mudra *models.Mudra) error
	UpdateMudra(ctx context.Context, mudra *models.Mudra) error
	DeleteMudra(ctx context.Context, id string) error
	ListTheory(ctx context.Context) ([]models.Theory, error)
	FindTheory(ctx context.Context, id string) (*models.Theory, error)
	CreateTheory(ctx context.Context, theory *models.Theory) error
}

// DefaultTheoryIcon is used when a theory entry is created without one.
const DefaultTheoryIcon = "📚"

// CatalogService manages the mudra and theory reference catalogs. Reads are
// public; writes require staff (admin or manager) access.
type CatalogService struct {
	repo      catalogRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(repo catalogRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: validate, logger: logger}
}

// MudraRequest describes the payload for creating or updating a mudra.
type MudraRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Category    string `json:"category" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"required"`
	Meaning     string `json:"meaning"`
	Image       string `json:"image"`
}

// TheoryRequest describes the payload for creating a theory entry.
type TheoryRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=160"`
	Category    string `json:"category" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Icon        string `json:"icon"`
}

// ListMudras returns the full mudra catalog, optionally filtered by category.
func (s *CatalogService) ListMudras(ctx context.Context, category string) ([]models.Mudra, error) {
	var (
		mudras []models.Mudra
		err    error
	)
	if category != "" {
		mudras, err = s.repo.ListMudrasByCategory(ctx, category)
	} else {
		mudras, err = s.repo.ListMudras(ctx)
	}
	if err != nil {
		return nil, wrapStorage(err, "failed to list mudras")
	}
	if mudras == nil {
		mudras = []models.Mudra{}
	}
	return mudras, nil
}

// GetMudra returns one mudra by ID.
func (s *CatalogService) GetMudra(ctx context.Context, id string) (*models.Mudra, error) {
	mudra, err := s.repo.FindMudra(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mudra not found")
		}
		return nil, wrapStorage(err, "failed to load mudra")
	}
	return mudra, nil
}

// CreateMudra adds a new mudra to the catalog.
func (s *CatalogService) CreateMudra(ctx context.Context, claims *models.JWTClaims, req MudraRequest) (*models.Mudra, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mudra payload")
	}

	mudra := &models.Mudra{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Meaning:     req.Meaning,
		Image:       req.Image,
	}
	if err := s.repo.CreateMudra(ctx, mudra); err != nil {
		return nil, wrapStorage(err, "failed to create mudra")
	}
	s.logger.Info("mudra created", zap.String("id", mudra.ID), zap.String("name", mudra.Name))
	return mudra, nil
}

// UpdateMudra modifies an existing mudra.
func (s *CatalogService) UpdateMudra(ctx context.Context, claims *models.JWTClaims, id string, req MudraRequest) (*models.Mudra, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mudra payload")
	}

	mudra, err := s.GetMudra(ctx, id)
	if err != nil {
		return nil, err
	}

	mudra.Name = req.Name
	mudra.Category = req.Category
	mudra.Description = req.Description
	mudra.Meaning = req.Meaning
	if req.Image != "" {
		mudra.Image = req.Image
	}

	if err := s.repo.UpdateMudra(ctx, mudra); err != nil {
		return nil, wrapStorage(err, "failed to update mudra")
	}
	return mudra, nil
}

// DeleteMudra removes a mudra from the catalog.
func (s *CatalogService) DeleteMudra(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return err
	}
	if _, err := s.GetMudra(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteMudra(ctx, id); err != nil {
		return wrapStorage(err, "failed to delete mudra")
	}
	s.logger.Info("mudra deleted", zap.String("id", id))
	return nil
}

// ListTheory returns the full theory catalog.
func (s *CatalogService) ListTheory(ctx context.Context) ([]models.Theory, error) {
	theories, err := s.repo.ListTheory(ctx)
	if err != nil {
		return nil, wrapStorage(err, "failed to list theory")
	}
	if theories == nil {
		theories = []models.Theory{}
	}
	return theories, nil
}

// GetTheory returns one theory entry by ID.
func (s *CatalogService) GetTheory(ctx context.Context, id string) (*models.Theory, error) {
	theory, err := s.repo.FindTheory(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theory entry not found")
		}
		return nil, wrapStorage(err, "failed to load theory entry")
	}
	return theory, nil
}

// CreateTheory adds a new theory entry.
func (s *CatalogService) CreateTheory(ctx context.Context, claims *models.JWTClaims, req TheoryRequest) (*models.Theory, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid theory payload")
	}

	icon := req.Icon
	if icon == "" {
		icon = DefaultTheoryIcon
	}
	theory := &models.Theory{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Content:     req.Content,
		Icon:        icon,
	}
	if err := s.repo.CreateTheory(ctx, theory); err != nil {
		return nil, wrapStorage(err, "failed to create theory entry")
	}
	s.logger.Info("theory created", zap.String("id", theory.ID), zap.String("title", theory.Title))
	return theory, nil
}
