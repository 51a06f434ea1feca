package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rudrakalshethra/academy-api/internal/service"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
	"github.com/rudrakalshethra/academy-api/pkg/response"
)

// CatalogHandler wires HTTP endpoints to the catalog service.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListMudras godoc
// @Summary List mudras
// @Description Lists the mudra catalog, optionally filtered by category
// @Tags Catalog
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /mudras [get]
func (h *CatalogHandler) ListMudras(c *gin.Context) {
	mudras, err := h.service.ListMudras(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mudras, nil)
}

// ListMudrasByCategory godoc
// @Summary List mudras in a category
// @Tags Catalog
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} response.Envelope
// @Router /mudras/category/{category} [get]
func (h *CatalogHandler) ListMudrasByCategory(c *gin.Context) {
	mudras, err := h.service.ListMudras(c.Request.Context(), c.Param("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mudras, nil)
}

// GetMudra godoc
// @Summary Get a mudra
// @Tags Catalog
// @Produce json
// @Param id path string true "Mudra ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mudras/{id} [get]
func (h *CatalogHandler) GetMudra(c *gin.Context) {
	mudra, err := h.service.GetMudra(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mudra, nil)
}

// CreateMudra godoc
// @Summary Create a mudra
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.MudraRequest true "Mudra payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /mudras [post]
func (h *CatalogHandler) CreateMudra(c *gin.Context) {
	var req service.MudraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mudra payload"))
		return
	}

	mudra, err := h.service.CreateMudra(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mudra)
}

// UpdateMudra godoc
// @Summary Update a mudra
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Mudra ID"
// @Param payload body service.MudraRequest true "Mudra payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mudras/{id} [put]
func (h *CatalogHandler) UpdateMudra(c *gin.Context) {
	var req service.MudraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mudra payload"))
		return
	}

	mudra, err := h.service.UpdateMudra(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mudra, nil)
}

// DeleteMudra godoc
// @Summary Delete a mudra
// @Tags Catalog
// @Param id path string true "Mudra ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mudras/{id} [delete]
func (h *CatalogHandler) DeleteMudra(c *gin.Context) {
	if err := h.service.DeleteMudra(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTheory godoc
// @Summary List theory entries
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /theory [get]
func (h *CatalogHandler) ListTheory(c *gin.Context) {
	theories, err := h.service.ListTheory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, theories, nil)
}

// GetTheory godoc
// @Summary Get a theory entry
// @Tags Catalog
// @Produce json
// @Param id path string true "Theory ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /theory/{id} [get]
func (h *CatalogHandler) GetTheory(c *gin.Context) {
	theory, err := h.service.GetTheory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, theory, nil)
}

// CreateTheory godoc
// @Summary Create a theory entry
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.TheoryRequest true "Theory payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /theory [post]
func (h *CatalogHandler) CreateTheory(c *gin.Context) {
	var req service.TheoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid theory payload"))
		return
	}

	theory, err := h.service.CreateTheory(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, theory)
}
