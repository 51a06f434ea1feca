package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rudrakalshethra/academy-api/internal/models"
)

type seedUserRepository interface {
	RoleExists(ctx context.Context, role models.UserRole) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type seedCatalogRepository interface {
	CountMudras(ctx context.Context) (int, error)
	CreateMudra(ctx context.Context, mudra *models.Mudra) error
	CountTheory(ctx context.Context) (int, error)
	CreateTheory(ctx context.Context, theory *models.Theory) error
}

// SeedService bootstraps a fresh database: the first admin account and the
// sample reference catalogs. Every step is idempotent.
type SeedService struct {
	userRepo    seedUserRepository
	catalogRepo seedCatalogRepository
	logger      *zap.Logger
}

// NewSeedService constructs the seed service.
func NewSeedService(userRepo seedUserRepository, catalogRepo seedCatalogRepository, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{userRepo: userRepo, catalogRepo: catalogRepo, logger: logger}
}

// Run executes every seed step. Steps that find existing data are skipped.
func (s *SeedService) Run(ctx context.Context, adminEmail, adminPassword string) error {
	if err := s.seedAdmin(ctx, adminEmail, adminPassword); err != nil {
		return err
	}
	if err := s.seedMudras(ctx); err != nil {
		return err
	}
	return s.seedTheory(ctx)
}

func (s *SeedService) seedAdmin(ctx context.Context, email, password string) error {
	exists, err := s.userRepo.RoleExists(ctx, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Branch:       models.BranchAll,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	s.logger.Info("seeded default admin account", zap.String("email", email))
	return nil
}

func (s *SeedService) seedMudras(ctx context.Context) error {
	count, err := s.catalogRepo.CountMudras(ctx)
	if err != nil {
		return fmt.Errorf("count mudras: %w", err)
	}
	if count > 0 {
		return nil
	}

	samples := []models.Mudra{
		{
			Name:        "Pataka",
			Category:    "Asamyukta Hasta",
			Description: "All fingers extended and held together, thumb bent slightly inward.",
			Meaning:     "Flag. Used to denote clouds, forest, forbidding things, bosom and night.",
		},
		{
			Name:        "Tripataka",
			Category:    "Asamyukta Hasta",
			Description: "Pataka with the ring finger bent.",
			Meaning:     "Three parts of a flag. Used for a crown, tree, arrow and lamp.",
		},
		{
			Name:        "Ardhapataka",
			Category:    "Asamyukta Hasta",
			Description: "Tripataka with the little finger also bent.",
			Meaning:     "Half flag. Used for leaves, a bank of a river and a knife.",
		},
	}
	for i := range samples {
		if err := s.catalogRepo.CreateMudra(ctx, &samples[i]); err != nil {
			return fmt.Errorf("seed mudra %s: %w", samples[i].Name, err)
		}
	}

	s.logger.Info("seeded sample mudras", zap.Int("count", len(samples)))
	return nil
}

func (s *SeedService) seedTheory(ctx context.Context) error {
	count, err := s.catalogRepo.CountTheory(ctx)
	if err != nil {
		return fmt.Errorf("count theory: %w", err)
	}
	if count > 0 {
		return nil
	}

	samples := []models.Theory{
		{
			Title:       "Introduction to Bharatanatyam",
			Category:    "Basics",
			Description: "Origins and structure of the dance form.",
			Content:     "Bharatanatyam is one of the oldest classical dance traditions of India, rooted in the Natya Shastra. A recital progresses from alarippu through varnam to tillana.",
			Icon:        "💃",
		},
		{
			Title:       "Tala System",
			Category:    "Rhythm",
			Description: "The rhythmic framework underlying every composition.",
			Content:     "Tala organises time into cyclic units counted with claps, waves and finger counts. Adi tala, an eight-beat cycle, anchors most beginner compositions.",
			Icon:        "🥁",
		},
		{
			Title:       "Abhinaya",
			Category:    "Expression",
			Description: "The art of expression through face and gesture.",
			Content:     "Abhinaya conveys meaning and emotion through angika (body), vachika (voice), aharya (costume) and satvika (inner state). Mudras carry the narrative line.",
			Icon:        "🎭",
		},
	}
	for i := range samples {
		if err := s.catalogRepo.CreateTheory(ctx, &samples[i]); err != nil {
			return fmt.Errorf("seed theory %s: %w", samples[i].Title, err)
		}
	}

	s.logger.Info("seeded sample theory entries", zap.Int("count", len(samples)))
	return nil
}
