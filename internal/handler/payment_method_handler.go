package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/response"
)

// PaymentMethodHandler exposes payment method endpoints.
type PaymentMethodHandler struct {
	methods *service.PaymentMethodService
}

// NewPaymentMethodHandler constructs a PaymentMethodHandler.
func NewPaymentMethodHandler(methods *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methods: methods}
}

// List godoc
// @Summary List payment methods
// @Tags PaymentMethods
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PaymentMethod
// @Router /metodos-pago [get]
func (h *PaymentMethodHandler) List(c *gin.Context) {
	methods, err := h.methods.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, methods)
}

// Get godoc
// @Summary Get a payment method
// @Tags PaymentMethods
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment method ID"
// @Success 200 {object} models.PaymentMethod
// @Failure 404 {object} map[string]string
// @Router /metodos-pago/{id} [get]
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	method, err := h.methods.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, method)
}

// Create godoc
// @Summary Create a payment method
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.PaymentMethodRequest true "Payment method payload"
// @Success 201 {object} models.PaymentMethod
// @Failure 409 {object} map[string]string
// @Router /metodos-pago [post]
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req models.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	method, err := h.methods.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, method)
}

// Update godoc
// @Summary Update a payment method
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment method ID"
// @Param payload body models.PaymentMethodRequest true "Payment method payload"
// @Success 200 {object} models.PaymentMethod
// @Failure 404 {object} map[string]string
// @Router /metodos-pago/{id} [put]
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	method, err := h.methods.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, method)
}

// Delete godoc
// @Summary Delete a payment method
// @Tags PaymentMethods
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment method ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /metodos-pago/{id} [delete]
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.methods.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Método de pago eliminado exitosamente")
}
