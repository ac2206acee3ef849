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

type guardianRepository interface {
	List(ctx context.Context) ([]models.Guardian, error)
	FindByID(ctx context.Context, id int64) (*models.Guardian, error)
	Exists(ctx context.Context, identification string, email *string, excludeID int64) (bool, error)
	Create(ctx context.Context, guardian *models.Guardian) error
	Update(ctx context.Context, guardian *models.Guardian) error
	Delete(ctx context.Context, id int64) (bool, error)
	Students(ctx context.Context, guardianID int64) ([]models.Student, error)
}

// GuardianService manages guardian records.
type GuardianService struct {
	repo      guardianRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuardianService constructs a GuardianService instance.
func NewGuardianService(repo guardianRepository, validate *validator.Validate, logger *zap.Logger) *GuardianService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GuardianService{repo: repo, validator: validate, logger: logger}
}

// List returns every guardian.
func (s *GuardianService) List(ctx context.Context) ([]models.Guardian, error) {
	guardians, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar responsables")
	}
	return guardians, nil
}

// Get returns a guardian by identifier.
func (s *GuardianService) Get(ctx context.Context, id int64) (*models.Guardian, error) {
	guardian, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Responsable no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener responsable")
	}
	return guardian, nil
}

// Create registers a new guardian.
func (s *GuardianService) Create(ctx context.Context, req models.GuardianRequest) (*models.Guardian, error) {
	guardian, err := s.buildGuardian(ctx, req, 0)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, guardian); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un responsable con esa identificación o email")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear responsable")
	}

	s.logger.Info("guardian created", zap.Int64("guardian_id", guardian.ID))
	return guardian, nil
}

// Update replaces an existing guardian's data.
func (s *GuardianService) Update(ctx context.Context, id int64, req models.GuardianRequest) (*models.Guardian, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	guardian, err := s.buildGuardian(ctx, req, id)
	if err != nil {
		return nil, err
	}
	guardian.ID = id

	if err := s.repo.Update(ctx, guardian); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un responsable con esa identificación o email")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar responsable")
	}

	s.logger.Info("guardian updated", zap.Int64("guardian_id", id))
	return guardian, nil
}

// Delete removes a guardian. Deletion is blocked while students are linked.
func (s *GuardianService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar el responsable porque está asociado a estudiantes")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar responsable")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Responsable no encontrado")
	}

	s.logger.Info("guardian deleted", zap.Int64("guardian_id", id))
	return nil
}

// Students lists the students linked to a guardian.
func (s *GuardianService) Students(ctx context.Context, guardianID int64) ([]models.Student, error) {
	if _, err := s.Get(ctx, guardianID); err != nil {
		return nil, err
	}
	students, err := s.repo.Students(ctx, guardianID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar estudiantes del responsable")
	}
	return students, nil
}

func (s *GuardianService) buildGuardian(ctx context.Context, req models.GuardianRequest, excludeID int64) (*models.Guardian, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}

	taken, err := s.repo.Exists(ctx, req.Identification, req.Email, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al verificar responsable")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un responsable con esa identificación o email")
	}

	return &models.Guardian{
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		SecondLastName: req.SecondLastName,
		Identification: req.Identification,
		Address:        req.Address,
		Phone:          req.Phone,
		Email:          req.Email,
		Relationship:   req.Relationship,
	}, nil
}
