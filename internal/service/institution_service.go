package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type institutionRepository interface {
	Get(ctx context.Context) (*models.Institution, error)
	Save(ctx context.Context, institution *models.Institution) error
}

// InstitutionService manages the singleton institution profile.
type InstitutionService struct {
	repo      institutionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInstitutionService constructs an InstitutionService instance.
func NewInstitutionService(repo institutionRepository, validate *validator.Validate, logger *zap.Logger) *InstitutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InstitutionService{repo: repo, validator: validate, logger: logger}
}

// Get returns the institution profile.
func (s *InstitutionService) Get(ctx context.Context) (*models.Institution, error) {
	institution, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Información de la institución no registrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener la institución")
	}
	return institution, nil
}

// Save creates the profile on first call and updates it afterwards.
func (s *InstitutionService) Save(ctx context.Context, req models.InstitutionRequest) (*models.Institution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}

	institution := &models.Institution{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Website: req.Website,
	}
	if current, err := s.repo.Get(ctx); err == nil {
		institution.ID = current.ID
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al guardar la institución")
	}

	if err := s.repo.Save(ctx, institution); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al guardar la institución")
	}

	s.logger.Info("institution saved", zap.Int64("institution_id", institution.ID))
	return institution, nil
}
