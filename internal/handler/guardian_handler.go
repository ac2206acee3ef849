package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/response"
)

// GuardianHandler exposes guardian endpoints.
type GuardianHandler struct {
	guardians *service.GuardianService
}

// NewGuardianHandler constructs a GuardianHandler.
func NewGuardianHandler(guardians *service.GuardianService) *GuardianHandler {
	return &GuardianHandler{guardians: guardians}
}

// List godoc
// @Summary List guardians
// @Tags Guardians
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Guardian
// @Router /responsables [get]
func (h *GuardianHandler) List(c *gin.Context) {
	guardians, err := h.guardians.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardians)
}

// Get godoc
// @Summary Get a guardian
// @Tags Guardians
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guardian ID"
// @Success 200 {object} models.Guardian
// @Failure 404 {object} map[string]string
// @Router /responsables/{id} [get]
func (h *GuardianHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	guardian, err := h.guardians.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian)
}

// Create godoc
// @Summary Create a guardian
// @Tags Guardians
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.GuardianRequest true "Guardian payload"
// @Success 201 {object} models.Guardian
// @Failure 409 {object} map[string]string
// @Router /responsables [post]
func (h *GuardianHandler) Create(c *gin.Context) {
	var req models.GuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	guardian, err := h.guardians.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guardian)
}

// Update godoc
// @Summary Update a guardian
// @Tags Guardians
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guardian ID"
// @Param payload body models.GuardianRequest true "Guardian payload"
// @Success 200 {object} models.Guardian
// @Failure 404 {object} map[string]string
// @Router /responsables/{id} [put]
func (h *GuardianHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.GuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	guardian, err := h.guardians.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian)
}

// Delete godoc
// @Summary Delete a guardian
// @Tags Guardians
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guardian ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /responsables/{id} [delete]
func (h *GuardianHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.guardians.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Responsable eliminado exitosamente")
}

// Students godoc
// @Summary List a guardian's students
// @Tags Guardians
// @Produce json
// @Security BearerAuth
// @Param id path int true "Guardian ID"
// @Success 200 {array} models.Student
// @Failure 404 {object} map[string]string
// @Router /responsables/{id}/estudiantes [get]
func (h *GuardianHandler) Students(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	students, err := h.guardians.Students(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}
