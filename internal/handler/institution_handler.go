package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/response"
)

// InstitutionHandler exposes the institution profile endpoints.
type InstitutionHandler struct {
	institution *service.InstitutionService
}

// NewInstitutionHandler constructs an InstitutionHandler.
func NewInstitutionHandler(institution *service.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institution: institution}
}

// Get godoc
// @Summary Get the institution profile
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Institution
// @Failure 404 {object} map[string]string
// @Router /config/institucion [get]
func (h *InstitutionHandler) Get(c *gin.Context) {
	institution, err := h.institution.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institution)
}

// Save godoc
// @Summary Create or update the institution profile
// @Tags Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.InstitutionRequest true "Institution payload"
// @Success 200 {object} models.Institution
// @Router /config/institucion [put]
func (h *InstitutionHandler) Save(c *gin.Context) {
	var req models.InstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	institution, err := h.institution.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, institution)
}
