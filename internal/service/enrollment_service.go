package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	ExistsForYear(ctx context.Context, studentID int64, academicYear int, excludeID int64) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, id int64, fields repository.UpdateEnrollmentFields) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type enrollmentStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
}

type enrollmentSectionRepository interface {
	FindSection(ctx context.Context, id int64) (*models.Section, error)
}

// EnrollmentService manages matrículas. A student holds at most one
// enrollment per academic year.
type EnrollmentService struct {
	repo      enrollmentRepository
	students  enrollmentStudentRepository
	sections  enrollmentSectionRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(repo enrollmentRepository, students enrollmentStudentRepository, sections enrollmentSectionRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{
		repo:      repo,
		students:  students,
		sections:  sections,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns enrollments filtered by student and/or academic year.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar matrículas")
	}
	return enrollments, nil
}

// Get returns an enrollment with joined names.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener matrícula")
	}
	return detail, nil
}

// Create registers a student into a section for an academic year.
func (s *EnrollmentService) Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if !models.ValidEnrollmentStatus(req.Status) {
		return nil, appErrors.Validation(fmt.Sprintf("Estado de matrícula inválido: %s", req.Status))
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "El estudiante especificado no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear matrícula")
	}
	if _, err := s.sections.FindSection(ctx, req.SectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "La sección especificada no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear matrícula")
	}

	date := s.now().UTC().Truncate(24 * time.Hour)
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			return nil, appErrors.Validation("El campo fecha_matricula debe tener el formato YYYY-MM-DD")
		}
		date = parsed
	}
	if date.Year() < s.now().Year() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "La fecha de matrícula no puede pertenecer a un año anterior")
	}

	taken, err := s.repo.ExistsForYear(ctx, req.StudentID, req.AcademicYear, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear matrícula")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("El estudiante ya tiene una matrícula para el año %d", req.AcademicYear))
	}

	enrollment := &models.Enrollment{
		StudentID:    req.StudentID,
		SectionID:    req.SectionID,
		AcademicYear: req.AcademicYear,
		Date:         date,
		Status:       req.Status,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("El estudiante ya tiene una matrícula para el año %d", req.AcademicYear))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear matrícula")
	}

	s.logger.Info("enrollment created",
		zap.Int64("enrollment_id", enrollment.ID),
		zap.Int64("student_id", enrollment.StudentID),
		zap.Int("anio_academico", enrollment.AcademicYear))
	return s.Get(ctx, enrollment.ID)
}

// Update applies a partial update to an enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req models.UpdateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if req.SectionID == nil && req.AcademicYear == nil && req.Date == nil && req.Status == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No se proporcionaron datos para actualizar")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar matrícula")
	}

	fields := repository.UpdateEnrollmentFields{
		SectionID:    req.SectionID,
		AcademicYear: req.AcademicYear,
	}

	if req.SectionID != nil {
		if _, err := s.sections.FindSection(ctx, *req.SectionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "La sección especificada no existe")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar matrícula")
		}
	}
	if req.AcademicYear != nil && *req.AcademicYear != current.AcademicYear {
		taken, err := s.repo.ExistsForYear(ctx, current.StudentID, *req.AcademicYear, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar matrícula")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("El estudiante ya tiene una matrícula para el año %d", *req.AcademicYear))
		}
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			return nil, appErrors.Validation("El campo fecha_matricula debe tener el formato YYYY-MM-DD")
		}
		fields.Date = &parsed
	}
	if req.Status != nil {
		if !models.ValidEnrollmentStatus(*req.Status) {
			return nil, appErrors.Validation(fmt.Sprintf("Estado de matrícula inválido: %s", *req.Status))
		}
		fields.Status = req.Status
	}

	ok, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "El estudiante ya tiene una matrícula para ese año")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar matrícula")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
	}

	s.logger.Info("enrollment updated", zap.Int64("enrollment_id", id))
	return s.Get(ctx, id)
}

// Delete removes an enrollment. Deletion is blocked while payments reference
// it.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar la matrícula porque tiene pagos asociados")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar matrícula")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
	}

	s.logger.Info("enrollment deleted", zap.Int64("enrollment_id", id))
	return nil
}
