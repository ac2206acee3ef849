package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/export"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.PaymentDetail, error)
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.PaymentDetail, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, id int64, fields repository.UpdatePaymentFields) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type paymentEnrollmentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
}

type paymentTypeFinder interface {
	FindByID(ctx context.Context, id int64) (*models.PaymentType, error)
}

type paymentMethodFinder interface {
	FindByID(ctx context.Context, id int64) (*models.PaymentMethod, error)
}

type paymentInstitutionFinder interface {
	Get(ctx context.Context) (*models.Institution, error)
}

// PaymentService manages pagos, account statements and their exports.
type PaymentService struct {
	repo        paymentRepository
	enrollments paymentEnrollmentRepository
	types       paymentTypeFinder
	methods     paymentMethodFinder
	institution paymentInstitutionFinder
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(
	repo paymentRepository,
	enrollments paymentEnrollmentRepository,
	types paymentTypeFinder,
	methods paymentMethodFinder,
	institution paymentInstitutionFinder,
	csv *export.CSVExporter,
	pdf *export.PDFExporter,
	validate *validator.Validate,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{
		repo:        repo,
		enrollments: enrollments,
		types:       types,
		methods:     methods,
		institution: institution,
		csv:         csv,
		pdf:         pdf,
		validator:   validate,
		logger:      logger,
	}
}

// List returns payments matching the filter.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	if filter.Status != "" && !models.ValidPaymentStatus(filter.Status) {
		return nil, appErrors.Validation(fmt.Sprintf("Estado de pago inválido: %s", filter.Status))
	}
	payments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al listar pagos")
	}
	return payments, nil
}

// Get returns a payment by identifier.
func (s *PaymentService) Get(ctx context.Context, id int64) (*models.PaymentDetail, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Pago no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener pago")
	}
	return payment, nil
}

// Create registers a payment against an active enrollment whose academic year
// matches the payment date's calendar year.
func (s *PaymentService) Create(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if !models.ValidPaymentStatus(req.Status) {
		return nil, appErrors.Validation(fmt.Sprintf("Estado de pago inválido: %s", req.Status))
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, appErrors.Validation("El campo fecha_pago debe tener el formato YYYY-MM-DD")
	}

	if err := s.checkEnrollment(ctx, req.EnrollmentID, date); err != nil {
		return nil, err
	}
	if _, err := s.types.FindByID(ctx, req.TypeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "El tipo de pago especificado no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear pago")
	}

	methodID, err := s.normalizeMethod(ctx, req.MethodID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		EnrollmentID: req.EnrollmentID,
		TypeID:       req.TypeID,
		MethodID:     methodID,
		Amount:       req.Amount,
		Date:         date,
		Reference:    req.Reference,
		Status:       req.Status,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al crear pago")
	}

	s.logger.Info("payment created",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("enrollment_id", payment.EnrollmentID),
		zap.Float64("monto", payment.Amount))
	return s.Get(ctx, payment.ID)
}

// Update applies a partial update. Moving the payment date re-validates the
// enrollment year invariant.
func (s *PaymentService) Update(ctx context.Context, id int64, req models.UpdatePaymentRequest) (*models.PaymentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(validationDetails(err)...)
	}
	if req.TypeID == nil && req.MethodID == nil && req.Amount == nil && req.Date == nil && req.Reference == nil && req.Status == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No se proporcionaron datos para actualizar")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := repository.UpdatePaymentFields{
		TypeID:    req.TypeID,
		Amount:    req.Amount,
		Reference: req.Reference,
	}

	if req.TypeID != nil {
		if _, err := s.types.FindByID(ctx, *req.TypeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "El tipo de pago especificado no existe")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar pago")
		}
	}
	if req.MethodID != nil {
		methodID, err := s.normalizeMethod(ctx, req.MethodID)
		if err != nil {
			return nil, err
		}
		if methodID == nil {
			fields.SetMethodNull = true
		} else {
			fields.MethodID = methodID
		}
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, appErrors.Validation("El campo fecha_pago debe tener el formato YYYY-MM-DD")
		}
		if err := s.checkEnrollment(ctx, current.EnrollmentID, date); err != nil {
			return nil, err
		}
		fields.Date = &date
	}
	if req.Status != nil {
		if !models.ValidPaymentStatus(*req.Status) {
			return nil, appErrors.Validation(fmt.Sprintf("Estado de pago inválido: %s", *req.Status))
		}
		fields.Status = req.Status
	}

	ok, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al actualizar pago")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Pago no encontrado")
	}

	s.logger.Info("payment updated", zap.Int64("payment_id", id))
	return s.Get(ctx, id)
}

// Delete removes a payment.
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al eliminar pago")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Pago no encontrado")
	}

	s.logger.Info("payment deleted", zap.Int64("payment_id", id))
	return nil
}

// AccountStatement summarises every payment of an enrollment with paid and
// pending totals.
func (s *PaymentService) AccountStatement(ctx context.Context, enrollmentID int64) (*models.AccountStatement, error) {
	enrollment, err := s.enrollments.FindDetailByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Matrícula no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener el estado de cuenta")
	}

	payments, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener el estado de cuenta")
	}

	statement := &models.AccountStatement{
		Enrollment: *enrollment,
		Payments:   payments,
	}
	for _, p := range payments {
		switch p.Status {
		case models.PaymentCompleted:
			statement.TotalPaid += p.Amount
		case models.PaymentPending:
			statement.TotalDue += p.Amount
		}
	}
	return statement, nil
}

// ExportCSV renders the filtered payment list as a CSV document.
func (s *PaymentService) ExportCSV(ctx context.Context, filter models.PaymentFilter) ([]byte, error) {
	payments, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Estudiante", "Año", "Tipo de Pago", "Método de Pago", "Monto", "Fecha", "Referencia", "Estado"},
	}
	for _, p := range payments {
		method := ""
		if p.MethodName != nil {
			method = *p.MethodName
		}
		reference := ""
		if p.Reference != nil {
			reference = *p.Reference
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":             strconv.FormatInt(p.ID, 10),
			"Estudiante":     fmt.Sprintf("%s %s", p.StudentFirstName, p.StudentLastName),
			"Año":            strconv.Itoa(p.AcademicYear),
			"Tipo de Pago":   p.TypeName,
			"Método de Pago": method,
			"Monto":          fmt.Sprintf("%.2f", p.Amount),
			"Fecha":          p.Date.Format(dateLayout),
			"Referencia":     reference,
			"Estado":         string(p.Status),
		})
	}

	raw, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al exportar pagos")
	}
	return raw, nil
}

// Receipt renders a PDF voucher for a single payment.
func (s *PaymentService) Receipt(ctx context.Context, id int64) ([]byte, error) {
	payment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	institutionName := "Institución Educativa"
	if institution, err := s.institution.Get(ctx); err == nil {
		institutionName = institution.Name
	}

	method := "No especificado"
	if payment.MethodName != nil {
		method = *payment.MethodName
	}
	receipt := export.Receipt{
		Institution: institutionName,
		Title:       "Recibo de Pago",
		Reference:   fmt.Sprintf("Pago N° %d", payment.ID),
		Fields: []export.ReceiptField{
			{Label: "Estudiante", Value: fmt.Sprintf("%s %s", payment.StudentFirstName, payment.StudentLastName)},
			{Label: "Año académico", Value: strconv.Itoa(payment.AcademicYear)},
			{Label: "Tipo de pago", Value: payment.TypeName},
			{Label: "Método de pago", Value: method},
			{Label: "Monto", Value: fmt.Sprintf("%.2f", payment.Amount)},
			{Label: "Fecha", Value: payment.Date.Format(dateLayout)},
			{Label: "Estado", Value: string(payment.Status)},
		},
	}

	raw, err := s.pdf.RenderReceipt(receipt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al generar el recibo")
	}
	return raw, nil
}

// checkEnrollment enforces the temporal invariant: payments attach only to an
// active enrollment whose academic year equals the payment date's year.
func (s *PaymentService) checkEnrollment(ctx context.Context, enrollmentID int64, date time.Time) error {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "La matrícula especificada no existe")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al validar la matrícula")
	}
	if enrollment.Status != models.EnrollmentActive || enrollment.AcademicYear != date.Year() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(
			"La matrícula %d no está activa para el año %d", enrollment.ID, date.Year()))
	}
	return nil
}

// normalizeMethod maps an absent or non-positive method id to NULL and
// verifies existence otherwise.
func (s *PaymentService) normalizeMethod(ctx context.Context, methodID *int64) (*int64, error) {
	if methodID == nil || *methodID <= 0 {
		return nil, nil
	}
	if _, err := s.methods.FindByID(ctx, *methodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "El método de pago especificado no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al validar el método de pago")
	}
	return methodID, nil
}
