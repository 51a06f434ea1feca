package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rudrakalshethra/academy-api/internal/middleware"
	"github.com/rudrakalshethra/academy-api/internal/models"
	"github.com/rudrakalshethra/academy-api/internal/service"
	"github.com/rudrakalshethra/academy-api/pkg/response"
)

// DashboardHandler wires HTTP endpoints to the dashboard service.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Branch-level aggregates: student counts, pending fees and recent revenue
// @Tags Dashboard
// @Produce json
// @Param branch query string false "Branch scope"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, cached, err := h.service.Stats(c.Request.Context(), claimsFromContext(c), models.Branch(c.Query("branch")))
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}
