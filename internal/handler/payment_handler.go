package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/response"
)

// PaymentHandler exposes payment endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func paymentFilterFromQuery(c *gin.Context) models.PaymentFilter {
	var filter models.PaymentFilter
	if enrollmentID, err := strconv.ParseInt(c.Query("matriculaId"), 10, 64); err == nil {
		filter.EnrollmentID = enrollmentID
	}
	if typeID, err := strconv.ParseInt(c.Query("tipoPagoId"), 10, 64); err == nil {
		filter.TypeID = typeID
	}
	if methodID, err := strconv.ParseInt(c.Query("metodoPagoId"), 10, 64); err == nil {
		filter.MethodID = methodID
	}
	filter.Status = models.PaymentStatus(c.Query("estado"))
	return filter
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param matriculaId query int false "Filter by enrollment"
// @Param tipoPagoId query int false "Filter by payment type"
// @Param metodoPagoId query int false "Filter by payment method"
// @Param estado query string false "Filter by status"
// @Success 200 {array} models.PaymentDetail
// @Router /pagos [get]
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.payments.List(c.Request.Context(), paymentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments)
}

// Get godoc
// @Summary Get a payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} models.PaymentDetail
// @Failure 404 {object} map[string]string
// @Router /pagos/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payment, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment)
}

// Create godoc
// @Summary Register a payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} models.PaymentDetail
// @Failure 400 {object} map[string]string
// @Router /pagos [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// Update godoc
// @Summary Update a payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param payload body models.UpdatePaymentRequest true "Fields to update"
// @Success 200 {object} models.PaymentDetail
// @Failure 404 {object} map[string]string
// @Router /pagos/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	payment, err := h.payments.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment)
}

// Delete godoc
// @Summary Delete a payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pagos/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Pago eliminado exitosamente")
}

// AccountStatement godoc
// @Summary Account statement for an enrollment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param matriculaId path int true "Enrollment ID"
// @Success 200 {object} models.AccountStatement
// @Failure 404 {object} map[string]string
// @Router /pagos/estado-cuenta/{matriculaId} [get]
func (h *PaymentHandler) AccountStatement(c *gin.Context) {
	enrollmentID, ok := pathID(c, "matriculaId")
	if !ok {
		return
	}
	statement, err := h.payments.AccountStatement(c.Request.Context(), enrollmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statement)
}

// ExportCSV godoc
// @Summary Export payments as CSV
// @Tags Payments
// @Produce text/csv
// @Security BearerAuth
// @Param matriculaId query int false "Filter by enrollment"
// @Param tipoPagoId query int false "Filter by payment type"
// @Param metodoPagoId query int false "Filter by payment method"
// @Param estado query string false "Filter by status"
// @Success 200 {string} string "CSV document"
// @Router /pagos/export [get]
func (h *PaymentHandler) ExportCSV(c *gin.Context) {
	raw, err := h.payments.ExportCSV(c.Request.Context(), paymentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("pagos_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", raw)
}

// Receipt godoc
// @Summary Payment receipt as PDF
// @Tags Payments
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {string} string "PDF document"
// @Failure 404 {object} map[string]string
// @Router /pagos/{id}/recibo [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	raw, err := h.payments.Receipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("recibo_%d.pdf", id)))
	c.Data(http.StatusOK, "application/pdf", raw)
}
