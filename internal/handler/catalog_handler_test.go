package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rudrakalshethra/academy-api/internal/models"
	"github.com/rudrakalshethra/academy-api/internal/service"
)

type stubCatalogRepo struct {
	mudras       []models.Mudra
	lastCategory string
}

func (s *stubCatalogRepo) ListMudras(context.Context) ([]models.Mudra, error) {
	return s.mudras, nil
}

func (s *stubCatalogRepo) ListMudrasByCategory(_ context.Context, category string) ([]models.Mudra, error) {
	s.lastCategory = category
	var out []models.Mudra
	for _, m := range s.mudras {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubCatalogRepo) FindMudra(context.Context, string) (*models.Mudra, error) {
	return nil, nil
}

func (s *stubCatalogRepo) CreateMudra(context.Context, *models.Mudra) error { return nil }

func (s *stubCatalogRepo) UpdateMudra(context.Context, *models.Mudra) error { return nil }

func (s *stubCatalogRepo) DeleteMudra(context.Context, string) error { return nil }

func (s *stubCatalogRepo) ListTheory(context.Context) ([]models.Theory, error) {
	return nil, nil
}

func (s *stubCatalogRepo) FindTheory(context.Context, string) (*models.Theory, error) {
	return nil, nil
}

func (s *stubCatalogRepo) CreateTheory(context.Context, *models.Theory) error { return nil }

func TestCatalogHandlerListMudrasByCategoryPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubCatalogRepo{mudras: []models.Mudra{
		{ID: "mud-1", Name: "Pataka", Category: "Asamyukta Hasta"},
		{ID: "mud-2", Name: "Anjali", Category: "Samyukta Hasta"},
	}}
	handler := NewCatalogHandler(service.NewCatalogService(repo, nil, zap.NewNop()))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/mudras/category/Samyukta%20Hasta", nil)
	c.Params = gin.Params{{Key: "category", Value: "Samyukta Hasta"}}

	handler.ListMudrasByCategory(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Samyukta Hasta", repo.lastCategory)

	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, "Anjali", envelope.Data[0]["name"])
}
