package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rudrakalshethra/academy-api/internal/models"
)

// CatalogRepository manages persistence for the mudra and theory catalogs.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListMudras returns every mudra ordered by name.
func (r *CatalogRepository) ListMudras(ctx context.Context) ([]models.Mudra, error) {
	const query = `SELECT id, name, category, description, meaning, image, created_at FROM mudras ORDER BY name ASC`
	var mudras []models.Mudra
	if err := r.db.SelectContext(ctx, &mudras, query); err != nil {
		return nil, fmt.Errorf("list mudras: %w", err)
	}
	return mudras, nil
}

// ListMudrasByCategory returns mudras in one category ordered by name.
func (r *CatalogRepository) ListMudrasByCategory(ctx context.Context, category string) ([]models.Mudra, error) {
	const query = `SELECT id, name, category, description, meaning, image, created_at FROM mudras WHERE category = $1 ORDER BY name ASC`
	var mudras []models.Mudra
	if err := r.db.SelectContext(ctx, &mudras, query, category); err != nil {
		return nil, fmt.Errorf("list mudras by category: %w", err)
	}
	return mudras, nil
}

// FindMudra fetches one mudra by ID.
func (r *CatalogRepository) FindMudra(ctx context.Context, id string) (*models.Mudra, error) {
	const query = `SELECT id, name, category, description, meaning, image, created_at FROM mudras WHERE id = $1`
	var mudra models.Mudra
	if err := r.db.GetContext(ctx, &mudra, query, id); err != nil {
		return nil, err
	}
	return &mudra, nil
}

// CreateMudra inserts a new mudra.
func (r *CatalogRepository) CreateMudra(ctx context.Context, mudra *models.Mudra) error {
	if mudra.ID == "" {
		mudra.ID = uuid.NewString()
	}
	if mudra.CreatedAt.IsZero() {
		mudra.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO mudras (id, name, category, description, meaning, image, created_at)
        VALUES (:id, :name, :category, :description, :meaning, :image, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mudra); err != nil {
		return fmt.Errorf("create mudra: %w", err)
	}
	return nil
}

// UpdateMudra modifies an existing mudra.
func (r *CatalogRepository) UpdateMudra(ctx context.Context, mudra *models.Mudra) error {
	const query = `UPDATE mudras SET name = :name, category = :category, description = :description, meaning = :meaning, image = :image WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, mudra); err != nil {
		return fmt.Errorf("update mudra: %w", err)
	}
	return nil
}

// DeleteMudra removes a mudra.
func (r *CatalogRepository) DeleteMudra(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM mudras WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete mudra: %w", err)
	}
	return nil
}

// CountMudras returns the catalog size.
func (r *CatalogRepository) CountMudras(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM mudras"); err != nil {
		return 0, fmt.Errorf("count mudras: %w", err)
	}
	return count, nil
}

// ListTheory returns every theory entry ordered by title.
func (r *CatalogRepository) ListTheory(ctx context.Context) ([]models.Theory, error) {
	const query = `SELECT id, title, category, description, content, icon, created_at FROM theories ORDER BY title ASC`
	var theories []models.Theory
	if err := r.db.SelectContext(ctx, &theories, query); err != nil {
		return nil, fmt.Errorf("list theory: %w", err)
	}
	return theories, nil
}

// FindTheory fetches one theory entry by ID.
func (r *CatalogRepository) FindTheory(ctx context.Context, id string) (*models.Theory, error) {
	const query = `SELECT id, title, category, description, content, icon, created_at FROM theories WHERE id = $1`
	var theory models.Theory
	if err := r.db.GetContext(ctx, &theory, query, id); err != nil {
		return nil, err
	}
	return &theory, nil
}

// CreateTheory inserts a new theory entry.
func (r *CatalogRepository) CreateTheory(ctx context.Context, theory *models.Theory) error {
	if theory.ID == "" {
		theory.ID = uuid.NewString()
	}
	if theory.CreatedAt.IsZero() {
		theory.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO theories (id, title, category, description, content, icon, created_at)
        VALUES (:id, :title, :category, :description, :content, :icon, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, theory); err != nil {
		return fmt.Errorf("create theory: %w", err)
	}
	return nil
}

// CountTheory returns the theory catalog size.
func (r *CatalogRepository) CountTheory(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM theories"); err != nil {
		return 0, fmt.Errorf("count theory: %w", err)
	}
	return count, nil
}
