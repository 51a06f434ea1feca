package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rudrakalshethra/academy-api/internal/models"
	"github.com/rudrakalshethra/academy-api/internal/service"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
	"github.com/rudrakalshethra/academy-api/pkg/response"
)

// AttendanceHandler wires HTTP endpoints to the attendance service.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Mark godoc
// @Summary Mark attendance
// @Description Records one attendance marking for a student and day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	ledger, err := h.service.MarkAttendance(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, ledger, nil)
}

// List godoc
// @Summary List attendance history
// @Description Lists attendance events scoped to the caller's branch
// @Tags Attendance
// @Produce json
// @Param branch query string false "Branch filter"
// @Param student_id query string false "Student ledger filter"
// @Param date_from query string false "Start date (YYYY-MM-DD)"
// @Param date_to query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Maximum records"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	req := service.AttendanceListRequest{
		Branch:    models.Branch(c.Query("branch")),
		StudentID: c.Query("student_id"),
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date_from must be formatted as YYYY-MM-DD"))
			return
		}
		req.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date_to must be formatted as YYYY-MM-DD"))
			return
		}
		req.DateTo = &to
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			req.Limit = limit
		}
	}

	records, err := h.service.ListAttendance(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}
