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

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	ExistsByIdentification(ctx context.Context, identification string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) (bool, error)
	Guardians(ctx context.Context, studentID int64) ([]models.Guardian, error)
	AttachGuardian(ctx context.Context, studentID, guardianID int64) error
	DetachGuardian(ctx context.Context, studentID, guardianID int64) (bool, error)
}

type studentGuardianRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Guardian, error)
}

// StudentService manages student records and their guardian links.
type StudentService struct {
	repo      studentRepository
	guardians studentGuardianRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, guardians studentGuardianRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, guardians: guardians, validator: validate, logger: logger}
}

// List returns every student with active enrollment context.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar estudiantes")
	}
	return students, nil
}

// Get returns a student by identifier.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Estudiante no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener estudiante")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req models.StudentRequest) (*models.Student, error) {
	student, err := s.buildStudent(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, student); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un estudiante con ese número de identificación")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear estudiante")
	}

	s.logger.Info("student created", zap.Int64("student_id", student.ID))
	return student, nil
}

// Update replaces an existing student's data.
func (s *StudentService) Update(ctx context.Context, id int64, req models.StudentRequest) (*models.Student, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	student, err := s.buildStudent(ctx, req, id)
	if err != nil {
		return nil, err
	}
	student.ID = id

	if err := s.repo.Update(ctx, student); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un estudiante con ese número de identificación")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar estudiante")
	}

	s.logger.Info("student updated", zap.Int64("student_id", id))
	return student, nil
}

// Delete removes a student; enrollments cascade at the schema level.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar el estudiante porque tiene registros asociados")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar estudiante")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Estudiante no encontrado")
	}

	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}

// Guardians lists the guardians linked to a student.
func (s *StudentService) Guardians(ctx context.Context, studentID int64) ([]models.Guardian, error) {
	if _, err := s.Get(ctx, studentID); err != nil {
		return nil, err
	}
	guardians, err := s.repo.Guardians(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar responsables del estudiante")
	}
	return guardians, nil
}

// AttachGuardian links an existing guardian to a student.
func (s *StudentService) AttachGuardian(ctx context.Context, studentID int64, req models.AttachGuardianRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(validationDetails(err)...)
	}
	if _, err := s.Get(ctx, studentID); err != nil {
		return err
	}
	if _, err := s.guardians.FindByID(ctx, req.GuardianID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Responsable no encontrado")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al asociar responsable")
	}

	if err := s.repo.AttachGuardian(ctx, studentID, req.GuardianID); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return appErrors.Clone(appErrors.ErrConflict, "El responsable ya está asociado a este estudiante")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al asociar responsable")
	}

	s.logger.Info("guardian attached", zap.Int64("student_id", studentID), zap.Int64("guardian_id", req.GuardianID))
	return nil
}

// DetachGuardian removes the link between a student and a guardian.
func (s *StudentService) DetachGuardian(ctx context.Context, studentID, guardianID int64) error {
	ok, err := s.repo.DetachGuardian(ctx, studentID, guardianID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al desasociar responsable")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "La asociación no existe")
	}

	s.logger.Info("guardian detached", zap.Int64("student_id", studentID), zap.Int64("guardian_id", guardianID))
	return nil
}

func (s *StudentService) buildStudent(ctx context.Context, req models.StudentRequest, excludeID int64) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Validation("El campo fecha_nacimiento debe tener el formato YYYY-MM-DD")
	}

	taken, err := s.repo.ExistsByIdentification(ctx, req.Identification, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al verificar identificación")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un estudiante con ese número de identificación")
	}

	return &models.Student{
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		SecondLastName: req.SecondLastName,
		BirthDate:      birthDate,
		Gender:         req.Gender,
		Identification: req.Identification,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
	}, nil
}
