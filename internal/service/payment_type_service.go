package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type paymentTypeRepository interface {
	List(ctx context.Context) ([]models.PaymentType, error)
	FindByID(ctx context.Context, id int64) (*models.PaymentType, error)
	Create(ctx context.Context, paymentType *models.PaymentType) error
	CreateWithFanOut(ctx context.Context, paymentType *models.PaymentType, enrollments []models.Enrollment, amount float64, date time.Time) (int, error)
	Update(ctx context.Context, paymentType *models.PaymentType) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type activeEnrollmentLister interface {
	ListActive(ctx context.Context) ([]models.Enrollment, error)
}

// PaymentTypeService manages tipos de pago. Creating a mandatory type fans
// out a pending payment to every active enrollment atomically.
type PaymentTypeService struct {
	repo        paymentTypeRepository
	enrollments activeEnrollmentLister
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentTypeService constructs a PaymentTypeService instance.
func NewPaymentTypeService(repo paymentTypeRepository, enrollments activeEnrollmentLister, validate *validator.Validate, logger *zap.Logger) *PaymentTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentTypeService{repo: repo, enrollments: enrollments, validator: validate, logger: logger, now: time.Now}
}

// List returns every payment type.
func (s *PaymentTypeService) List(ctx context.Context) ([]models.PaymentType, error) {
	types, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar tipos de pago")
	}
	return types, nil
}

// Get returns a payment type by identifier.
func (s *PaymentTypeService) Get(ctx context.Context, id int64) (*models.PaymentType, error) {
	paymentType, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Tipo de pago no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener tipo de pago")
	}
	return paymentType, nil
}

// Create adds a payment type. A mandatory type additionally inserts a
// pending payment for every active enrollment in the same transaction, using
// the fixed price (or zero) and the due date (or today).
func (s *PaymentTypeService) Create(ctx context.Context, req models.PaymentTypeRequest) (*models.PaymentType, int, error) {
	paymentType, err := s.buildType(req)
	if err != nil {
		return nil, 0, err
	}

	if !paymentType.Mandatory {
		if err := s.repo.Create(ctx, paymentType); err != nil {
			if repository.IsUniqueViolation(err, "") {
				return nil, 0, appErrors.Clone(appErrors.ErrConflict, "Ya existe un tipo de pago con ese nombre")
			}
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear tipo de pago")
		}
		s.logger.Info("payment type created", zap.Int64("type_id", paymentType.ID))
		return paymentType, 0, nil
	}

	enrollments, err := s.enrollments.ListActive(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear tipo de pago")
	}

	amount := 0.0
	if paymentType.FixedPrice != nil {
		amount = *paymentType.FixedPrice
	}
	date := s.now().UTC().Truncate(24 * time.Hour)
	if paymentType.DueDate != nil {
		date = *paymentType.DueDate
	}

	generated, err := s.repo.CreateWithFanOut(ctx, paymentType, enrollments, amount, date)
	if err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, 0, appErrors.Clone(appErrors.ErrConflict, "Ya existe un tipo de pago con ese nombre")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear tipo de pago")
	}

	s.logger.Info("mandatory payment type created",
		zap.Int64("type_id", paymentType.ID),
		zap.Int("pagos_generados", generated))
	return paymentType, generated, nil
}

// Update replaces a payment type's data. Changing the mandatory flag never
// retrofits payments.
func (s *PaymentTypeService) Update(ctx context.Context, id int64, req models.PaymentTypeRequest) (*models.PaymentType, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	paymentType, err := s.buildType(req)
	if err != nil {
		return nil, err
	}
	paymentType.ID = id

	if err := s.repo.Update(ctx, paymentType); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe un tipo de pago con ese nombre")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar tipo de pago")
	}

	s.logger.Info("payment type updated", zap.Int64("type_id", id))
	return paymentType, nil
}

// Delete removes a payment type. Deletion is blocked while payments reference
// it.
func (s *PaymentTypeService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "No se puede eliminar el tipo de pago porque está asociado a pagos existentes")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar tipo de pago")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Tipo de pago no encontrado")
	}

	s.logger.Info("payment type deleted", zap.Int64("type_id", id))
	return nil
}

func (s *PaymentTypeService) buildType(req models.PaymentTypeRequest) (*models.PaymentType, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}

	paymentType := &models.PaymentType{
		Name:        req.Name,
		Description: req.Description,
		FixedPrice:  req.FixedPrice,
		Mandatory:   req.Mandatory,
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, appErrors.Validation("El campo fecha_vencimiento debe tener el formato YYYY-MM-DD")
		}
		paymentType.DueDate = &dueDate
	}
	return paymentType, nil
}
