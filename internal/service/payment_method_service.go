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

type paymentMethodRepository interface {
	List(ctx context.Context) ([]models.PaymentMethod, error)
	FindByID(ctx context.Context, id int64) (*models.PaymentMethod, error)
	Create(ctx context.Context, method *models.PaymentMethod) error
	Update(ctx context.Context, method *models.PaymentMethod) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// PaymentMethodService manages metodos de pago.
type PaymentMethodService struct {
	repo      paymentMethodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentMethodService constructs a PaymentMethodService instance.
func NewPaymentMethodService(repo paymentMethodRepository, validate *validator.Validate, logger *zap.Logger) *PaymentMethodService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentMethodService{repo: repo, validator: validate, logger: logger}
}

// List returns every payment method.
func (s *PaymentMethodService) List(ctx context.Context) ([]models.PaymentMethod, error) {
	methods, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar métodos de pago")
	}
	return methods, nil
}

// Get returns a payment method by identifier.
func (s *PaymentMethodService) Get(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	method, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Método de pago no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener método de pago")
	}
	return method, nil
}

// Create adds a payment method.
func (s *PaymentMethodService) Create(ctx context.Context, req models.PaymentMethodRequest) (*models.PaymentMethod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}

	method := &models.PaymentMethod{Name: req.Name, Description: req.Description}
	if err := s.repo.Create(ctx, method); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un método de pago con ese nombre")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear método de pago")
	}

	s.logger.Info("payment method created", zap.Int64("method_id", method.ID))
	return method, nil
}

// Update replaces a payment method's data.
func (s *PaymentMethodService) Update(ctx context.Context, id int64, req models.PaymentMethodRequest) (*models.PaymentMethod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	method := &models.PaymentMethod{ID: id, Name: req.Name, Description: req.Description}
	if err := s.repo.Update(ctx, method); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un método de pago con ese nombre")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar método de pago")
	}

	s.logger.Info("payment method updated", zap.Int64("method_id", id))
	return method, nil
}

// Delete removes a payment method. Deletion is blocked while payments
// reference it.
func (s *PaymentMethodService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar el método de pago porque está asociado a pagos existentes")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar método de pago")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Método de pago no encontrado")
	}

	s.logger.Info("payment method deleted", zap.Int64("method_id", id))
	return nil
}
