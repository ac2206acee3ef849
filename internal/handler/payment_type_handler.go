package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/response"
)

// PaymentTypeHandler exposes payment type endpoints.
type PaymentTypeHandler struct {
	types *service.PaymentTypeService
}

// NewPaymentTypeHandler constructs a PaymentTypeHandler.
func NewPaymentTypeHandler(types *service.PaymentTypeService) *PaymentTypeHandler {
	return &PaymentTypeHandler{types: types}
}

// List godoc
// @Summary List payment types
// @Tags PaymentTypes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PaymentType
// @Router /tipos-pago [get]
func (h *PaymentTypeHandler) List(c *gin.Context) {
	types, err := h.types.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types)
}

// Get godoc
// @Summary Get a payment type
// @Tags PaymentTypes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment type ID"
// @Success 200 {object} models.PaymentType
// @Failure 404 {object} map[string]string
// @Router /tipos-pago/{id} [get]
func (h *PaymentTypeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	paymentType, err := h.types.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paymentType)
}

// Create godoc
// @Summary Create a payment type
// @Tags PaymentTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.PaymentTypeRequest true "Payment type payload"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /tipos-pago [post]
func (h *PaymentTypeHandler) Create(c *gin.Context) {
	var req models.PaymentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	paymentType, generated, err := h.types.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if paymentType.Mandatory {
		response.JSON(c, http.StatusCreated, gin.H{
			"tipoPago":       paymentType,
			"pagosGenerados": generated,
		})
		return
	}
	response.Created(c, paymentType)
}

// Update godoc
// @Summary Update a payment type
// @Tags PaymentTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment type ID"
// @Param payload body models.PaymentTypeRequest true "Payment type payload"
// @Success 200 {object} models.PaymentType
// @Failure 404 {object} map[string]string
// @Router /tipos-pago/{id} [put]
func (h *PaymentTypeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.PaymentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	paymentType, err := h.types.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paymentType)
}

// Delete godoc
// @Summary Delete a payment type
// @Tags PaymentTypes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment type ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tipos-pago/{id} [delete]
func (h *PaymentTypeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.types.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Tipo de pago eliminado exitosamente")
}
