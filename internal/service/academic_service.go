package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type academicRepository interface {
	ListLevels(ctx context.Context) ([]models.Level, error)
	FindLevel(ctx context.Context, id int64) (*models.Level, error)
	CreateLevel(ctx context.Context, level *models.Level) error
	UpdateLevel(ctx context.Context, level *models.Level) error
	DeleteLevel(ctx context.Context, id int64) (bool, error)
	ListGrades(ctx context.Context) ([]models.Grade, error)
	ListGradesByLevel(ctx context.Context, levelID int64) ([]models.Grade, error)
	FindGrade(ctx context.Context, id int64) (*models.Grade, error)
	CreateGrade(ctx context.Context, grade *models.Grade) error
	UpdateGrade(ctx context.Context, grade *models.Grade) error
	DeleteGrade(ctx context.Context, id int64) (bool, error)
	ListSections(ctx context.Context) ([]models.Section, error)
	ListSectionsByGrade(ctx context.Context, gradeID int64) ([]models.Section, error)
	FindSection(ctx context.Context, id int64) (*models.Section, error)
	CreateSection(ctx context.Context, section *models.Section) error
	UpdateSection(ctx context.Context, section *models.Section) error
	DeleteSection(ctx context.Context, id int64) (bool, error)
}

// AcademicService manages the level, grade and section hierarchy.
type AcademicService struct {
	repo      academicRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademicService constructs an AcademicService instance.
func NewAcademicService(repo academicRepository, validate *validator.Validate, logger *zap.Logger) *AcademicService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AcademicService{repo: repo, validator: validate, logger: logger}
}

// ListLevels returns every education level.
func (s *AcademicService) ListLevels(ctx context.Context) ([]models.Level, error) {
	levels, err := s.repo.ListLevels(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar niveles")
	}
	return levels, nil
}

// GetLevel returns a level by identifier.
func (s *AcademicService) GetLevel(ctx context.Context, id int64) (*models.Level, error) {
	level, err := s.repo.FindLevel(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Nivel educativo no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener nivel")
	}
	return level, nil
}

// CreateLevel adds an education level.
func (s *AcademicService) CreateLevel(ctx context.Context, req models.LevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}

	level := &models.Level{Name: req.Name}
	if err := s.repo.CreateLevel(ctx, level); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un nivel con ese nombre")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear nivel")
	}

	s.logger.Info("level created", zap.Int64("level_id", level.ID))
	return level, nil
}

// UpdateLevel renames an education level.
func (s *AcademicService) UpdateLevel(ctx context.Context, id int64, req models.LevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if _, err := s.GetLevel(ctx, id); err != nil {
		return nil, err
	}

	level := &models.Level{ID: id, Name: req.Name}
	if err := s.repo.UpdateLevel(ctx, level); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un nivel con ese nombre")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar nivel")
	}
	return level, nil
}

// DeleteLevel removes an education level.
func (s *AcademicService) DeleteLevel(ctx context.Context, id int64) error {
	ok, err := s.repo.DeleteLevel(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar el nivel porque tiene grados asociados")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar nivel")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Nivel educativo no encontrado")
	}
	return nil
}

// ListGrades returns every grade with its level.
func (s *AcademicService) ListGrades(ctx context.Context) ([]models.Grade, error) {
	grades, err := s.repo.ListGrades(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar grados")
	}
	return grades, nil
}

// ListGradesByLevel returns the grades under a level. The level must exist.
func (s *AcademicService) ListGradesByLevel(ctx context.Context, levelID int64) ([]models.Grade, error) {
	if _, err := s.GetLevel(ctx, levelID); err != nil {
		return nil, err
	}
	grades, err := s.repo.ListGradesByLevel(ctx, levelID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar grados por nivel")
	}
	return grades, nil
}

// GetGrade returns a grade by identifier.
func (s *AcademicService) GetGrade(ctx context.Context, id int64) (*models.Grade, error) {
	grade, err := s.repo.FindGrade(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Grado no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener grado")
	}
	return grade, nil
}

// CreateGrade adds a grade under a level.
func (s *AcademicService) CreateGrade(ctx context.Context, req models.GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if _, err := s.GetLevel(ctx, req.LevelID); err != nil {
		return nil, err
	}

	grade := &models.Grade{Name: req.Name, LevelID: req.LevelID}
	if err := s.repo.CreateGrade(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear grado")
	}

	s.logger.Info("grade created", zap.Int64("grade_id", grade.ID))
	return s.GetGrade(ctx, grade.ID)
}

// UpdateGrade modifies a grade's name and parent level.
func (s *AcademicService) UpdateGrade(ctx context.Context, id int64, req models.GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if _, err := s.GetGrade(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.GetLevel(ctx, req.LevelID); err != nil {
		return nil, err
	}

	grade := &models.Grade{ID: id, Name: req.Name, LevelID: req.LevelID}
	if err := s.repo.UpdateGrade(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar grado")
	}
	return s.GetGrade(ctx, id)
}

// DeleteGrade removes a grade.
func (s *AcademicService) DeleteGrade(ctx context.Context, id int64) error {
	ok, err := s.repo.DeleteGrade(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar el grado porque tiene secciones asociadas")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar grado")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Grado no encontrado")
	}
	return nil
}

// ListSections returns every section with its grade and level.
func (s *AcademicService) ListSections(ctx context.Context) ([]models.Section, error) {
	sections, err := s.repo.ListSections(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar secciones")
	}
	return sections, nil
}

// ListSectionsByGrade returns the sections under a grade. The grade must
// exist.
func (s *AcademicService) ListSectionsByGrade(ctx context.Context, gradeID int64) ([]models.Section, error) {
	if _, err := s.GetGrade(ctx, gradeID); err != nil {
		return nil, err
	}
	sections, err := s.repo.ListSectionsByGrade(ctx, gradeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar secciones por grado")
	}
	return sections, nil
}

// GetSection returns a section by identifier.
func (s *AcademicService) GetSection(ctx context.Context, id int64) (*models.Section, error) {
	section, err := s.repo.FindSection(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Sección no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener sección")
	}
	return section, nil
}

// CreateSection adds a section under a grade.
func (s *AcademicService) CreateSection(ctx context.Context, req models.SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if _, err := s.GetGrade(ctx, req.GradeID); err != nil {
		return nil, err
	}

	section := &models.Section{Name: req.Name, GradeID: req.GradeID}
	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear sección")
	}

	s.logger.Info("section created", zap.Int64("section_id", section.ID))
	return s.GetSection(ctx, section.ID)
}

// UpdateSection modifies a section's name and parent grade.
func (s *AcademicService) UpdateSection(ctx context.Context, id int64, req models.SectionRequest) (*models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if _, err := s.GetSection(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.GetGrade(ctx, req.GradeID); err != nil {
		return nil, err
	}

	section := &models.Section{ID: id, Name: req.Name, GradeID: req.GradeID}
	if err := s.repo.UpdateSection(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar sección")
	}
	return s.GetSection(ctx, id)
}

// DeleteSection removes a section. Deletion is blocked while enrollments
// reference it.
func (s *AcademicService) DeleteSection(ctx context.Context, id int64) error {
	ok, err := s.repo.DeleteSection(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar la sección porque tiene matrículas asociadas")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar sección")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Sección no encontrada")
	}
	return nil
}
