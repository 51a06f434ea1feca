package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rudrakalshethra/academy-api/internal/models"
	"github.com/rudrakalshethra/academy-api/internal/service"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
	"github.com/rudrakalshethra/academy-api/pkg/response"
)

// PaymentHandler wires HTTP endpoints to the payment service.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Record godoc
// @Summary Record a payment
// @Description Settles unpaid classes for a student and records the payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body service.RecordPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	result, err := h.service.RecordPayment(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// List godoc
// @Summary List payment history
// @Description Lists payment events scoped to the caller's branch
// @Tags Payments
// @Produce json
// @Param branch query string false "Branch filter"
// @Param student_id query string false "Student ledger filter"
// @Param since query string false "Start date (YYYY-MM-DD)"
// @Param limit query int false "Maximum records"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	req, err := h.listRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.service.ListPayments(c.Request.Context(), claimsFromContext(c), *req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// Export godoc
// @Summary Export payment history
// @Description Downloads payment history as CSV or PDF
// @Tags Payments
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)"
// @Param branch query string false "Branch filter"
// @Param student_id query string false "Student ledger filter"
// @Param since query string false "Start date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	req, err := h.listRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.service.ExportPayments(c.Request.Context(), claimsFromContext(c), *req, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *PaymentHandler) listRequest(c *gin.Context) (*service.PaymentListRequest, error) {
	req := service.PaymentListRequest{
		Branch:    models.Branch(c.Query("branch")),
		StudentID: c.Query("student_id"),
	}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "since must be formatted as YYYY-MM-DD")
		}
		req.Since = &since
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			req.Limit = limit
		}
	}
	return &req, nil
}
