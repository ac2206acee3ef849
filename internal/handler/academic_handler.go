package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/response"
)

// AcademicHandler exposes the level, grade and section configuration
// endpoints.
type AcademicHandler struct {
	academic *service.AcademicService
}

// NewAcademicHandler constructs an AcademicHandler.
func NewAcademicHandler(academic *service.AcademicService) *AcademicHandler {
	return &AcademicHandler{academic: academic}
}

// ListLevels godoc
// @Summary List education levels
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Level
// @Router /config/niveles [get]
func (h *AcademicHandler) ListLevels(c *gin.Context) {
	levels, err := h.academic.ListLevels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, levels)
}

// CreateLevel godoc
// @Summary Create an education level
// @Tags Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.LevelRequest true "Level payload"
// @Success 201 {object} models.Level
// @Failure 409 {object} map[string]string
// @Router /config/niveles [post]
func (h *AcademicHandler) CreateLevel(c *gin.Context) {
	var req models.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	level, err := h.academic.CreateLevel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, level)
}

// UpdateLevel godoc
// @Summary Rename an education level
// @Tags Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Level ID"
// @Param payload body models.LevelRequest true "Level payload"
// @Success 200 {object} models.Level
// @Failure 404 {object} map[string]string
// @Router /config/niveles/{id} [put]
func (h *AcademicHandler) UpdateLevel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	level, err := h.academic.UpdateLevel(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level)
}

// DeleteLevel godoc
// @Summary Delete an education level
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Param id path int true "Level ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /config/niveles/{id} [delete]
func (h *AcademicHandler) DeleteLevel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.academic.DeleteLevel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Nivel eliminado exitosamente")
}

// ListGrades godoc
// @Summary List grades
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Grade
// @Router /config/grados [get]
func (h *AcademicHandler) ListGrades(c *gin.Context) {
	grades, err := h.academic.ListGrades(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// ListGradesByLevel godoc
// @Summary List the grades under a level
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Param nivelId path int true "Level ID"
// @Success 200 {array} models.Grade
// @Failure 404 {object} map[string]string
// @Router /config/grados/nivel/{nivelId} [get]
func (h *AcademicHandler) ListGradesByLevel(c *gin.Context) {
	levelID, ok := pathID(c, "nivelId")
	if !ok {
		return
	}
	grades, err := h.academic.ListGradesByLevel(c.Request.Context(), levelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// CreateGrade godoc
// @Summary Create a grade
// @Tags Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.GradeRequest true "Grade payload"
// @Success 201 {object} models.Grade
// @Failure 404 {object} map[string]string
// @Router /config/grados [post]
func (h *AcademicHandler) CreateGrade(c *gin.Context) {
	var req models.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	grade, err := h.academic.CreateGrade(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// UpdateGrade godoc
// @Summary Update a grade
// @Tags Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Param payload body models.GradeRequest true "Grade payload"
// @Success 200 {object} models.Grade
// @Failure 404 {object} map[string]string
// @Router /config/grados/{id} [put]
func (h *AcademicHandler) UpdateGrade(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	grade, err := h.academic.UpdateGrade(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade)
}

// DeleteGrade godoc
// @Summary Delete a grade
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /config/grados/{id} [delete]
func (h *AcademicHandler) DeleteGrade(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.academic.DeleteGrade(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Grado eliminado exitosamente")
}

// ListSections godoc
// @Summary List sections
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Section
// @Router /config/secciones [get]
func (h *AcademicHandler) ListSections(c *gin.Context) {
	sections, err := h.academic.ListSections(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections)
}

// ListSectionsByGrade godoc
// @Summary List the sections under a grade
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Param gradoId path int true "Grade ID"
// @Success 200 {array} models.Section
// @Failure 404 {object} map[string]string
// @Router /config/secciones/grado/{gradoId} [get]
func (h *AcademicHandler) ListSectionsByGrade(c *gin.Context) {
	gradeID, ok := pathID(c, "gradoId")
	if !ok {
		return
	}
	sections, err := h.academic.ListSectionsByGrade(c.Request.Context(), gradeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections)
}

// CreateSection godoc
// @Summary Create a section
// @Tags Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SectionRequest true "Section payload"
// @Success 201 {object} models.Section
// @Failure 404 {object} map[string]string
// @Router /config/secciones [post]
func (h *AcademicHandler) CreateSection(c *gin.Context) {
	var req models.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	section, err := h.academic.CreateSection(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// UpdateSection godoc
// @Summary Update a section
// @Tags Config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param payload body models.SectionRequest true "Section payload"
// @Success 200 {object} models.Section
// @Failure 404 {object} map[string]string
// @Router /config/secciones/{id} [put]
func (h *AcademicHandler) UpdateSection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return
	}
	section, err := h.academic.UpdateSection(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section)
}

// DeleteSection godoc
// @Summary Delete a section
// @Tags Config
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /config/secciones/{id} [delete]
func (h *AcademicHandler) DeleteSection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.academic.DeleteSection(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Sección eliminada exitosamente")
}
