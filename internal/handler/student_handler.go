package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rudrakalshethra/academy-api/internal/models"
	"github.com/rudrakalshethra/academy-api/internal/service"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
	"github.com/rudrakalshethra/academy-api/pkg/response"
)

// StudentHandler wires HTTP endpoints to the student service.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Create godoc
// @Summary Enroll a student
// @Description Creates a student account together with its fee ledger
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}

	detail, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, detail)
}

// List godoc
// @Summary List students
// @Description Lists student ledgers scoped to the caller's branch
// @Tags Students
// @Produce json
// @Param branch query string false "Branch filter"
// @Param active query bool false "Active filter"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	req := service.StudentListRequest{
		Branch: models.Branch(c.Query("branch")),
	}
	if raw, ok := c.GetQuery("active"); ok {
		active := raw == "true"
		req.Active = &active
	}

	details, err := h.service.List(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, details, nil)
}

// Get godoc
// @Summary Get a student ledger
// @Description Returns one student's ledger by ID
// @Tags Students
// @Produce json
// @Param id path string true "Student ledger ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	ledger, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, ledger, nil)
}

// Self godoc
// @Summary Get own ledger
// @Description Returns the authenticated student's ledger with recent history
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me [get]
func (h *StudentHandler) Self(c *gin.Context) {
	res, err := h.service.Self(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
