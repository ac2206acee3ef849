package service

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
	"github.com/GinoPuma/gestion-escolar/pkg/export"
)

type mockPaymentRepo struct {
	payments []models.PaymentDetail
	detail   *models.PaymentDetail
	created  *models.Payment
	updated  *repository.UpdatePaymentFields
	updateOK bool
	deleteOK bool
}

func (m *mockPaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	return m.payments, nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id int64) (*models.PaymentDetail, error) {
	if m.detail == nil {
		return nil, sql.ErrNoRows
	}
	return m.detail, nil
}

func (m *mockPaymentRepo) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.PaymentDetail, error) {
	return m.payments, nil
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = 21
	m.created = payment
	m.detail = &models.PaymentDetail{Payment: *payment}
	return nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, id int64, fields repository.UpdatePaymentFields) (bool, error) {
	m.updated = &fields
	return m.updateOK, nil
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteOK, nil
}

type mockPaymentEnrollments struct {
	enrollment *models.Enrollment
	detail     *models.EnrollmentDetail
}

func (m *mockPaymentEnrollments) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if m.enrollment == nil {
		return nil, sql.ErrNoRows
	}
	return m.enrollment, nil
}

func (m *mockPaymentEnrollments) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	if m.detail == nil {
		return nil, sql.ErrNoRows
	}
	return m.detail, nil
}

type mockTypeFinder struct {
	err error
}

func (m *mockTypeFinder) FindByID(ctx context.Context, id int64) (*models.PaymentType, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.PaymentType{ID: id, Name: "Pensión"}, nil
}

type mockMethodFinder struct {
	err error
}

func (m *mockMethodFinder) FindByID(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.PaymentMethod{ID: id, Name: "Efectivo"}, nil
}

type mockInstitutionFinder struct {
	institution *models.Institution
}

func (m *mockInstitutionFinder) Get(ctx context.Context) (*models.Institution, error) {
	if m.institution == nil {
		return nil, sql.ErrNoRows
	}
	return m.institution, nil
}

func newPaymentService(repo *mockPaymentRepo, enrollments *mockPaymentEnrollments, methods *mockMethodFinder) *PaymentService {
	return NewPaymentService(repo, enrollments, &mockTypeFinder{}, methods, &mockInstitutionFinder{},
		export.NewCSVExporter(), export.NewPDFExporter(), validator.New(), zap.NewNop())
}

func activeEnrollment(year int) *models.Enrollment {
	return &models.Enrollment{ID: 5, StudentID: 1, AcademicYear: year, Status: models.EnrollmentActive}
}

func TestPaymentServiceCreateSuccess(t *testing.T) {
	repo := &mockPaymentRepo{}
	svc := newPaymentService(repo, &mockPaymentEnrollments{enrollment: activeEnrollment(2026)}, &mockMethodFinder{})

	methodID := int64(2)
	_, err := svc.Create(context.Background(), models.CreatePaymentRequest{
		EnrollmentID: 5,
		TypeID:       1,
		MethodID:     &methodID,
		Amount:       150.50,
		Date:         "2026-04-01",
		Status:       models.PaymentCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	require.NotNil(t, repo.created.MethodID)
	assert.Equal(t, int64(2), *repo.created.MethodID)
	assert.Equal(t, 150.50, repo.created.Amount)
}

func TestPaymentServiceCreateInactiveEnrollment(t *testing.T) {
	enrollment := activeEnrollment(2026)
	enrollment.Status = models.EnrollmentInactive
	svc := newPaymentService(&mockPaymentRepo{}, &mockPaymentEnrollments{enrollment: enrollment}, &mockMethodFinder{})

	_, err := svc.Create(context.Background(), models.CreatePaymentRequest{
		EnrollmentID: 5,
		TypeID:       1,
		Amount:       100,
		Date:         "2026-04-01",
		Status:       models.PaymentCompleted,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "La matrícula 5 no está activa para el año 2026", appErr.Message)
}

func TestPaymentServiceCreateYearMismatch(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockPaymentEnrollments{enrollment: activeEnrollment(2025)}, &mockMethodFinder{})

	_, err := svc.Create(context.Background(), models.CreatePaymentRequest{
		EnrollmentID: 5,
		TypeID:       1,
		Amount:       100,
		Date:         "2026-04-01",
		Status:       models.PaymentCompleted,
	})
	require.Error(t, err)
	assert.Equal(t, "La matrícula 5 no está activa para el año 2026", appErrors.FromError(err).Message)
}

func TestPaymentServiceCreateZeroMethodStoredAsNull(t *testing.T) {
	repo := &mockPaymentRepo{}
	svc := newPaymentService(repo, &mockPaymentEnrollments{enrollment: activeEnrollment(2026)}, &mockMethodFinder{})

	methodID := int64(0)
	_, err := svc.Create(context.Background(), models.CreatePaymentRequest{
		EnrollmentID: 5,
		TypeID:       1,
		MethodID:     &methodID,
		Amount:       100,
		Date:         "2026-04-01",
		Status:       models.PaymentPending,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Nil(t, repo.created.MethodID)
}

func TestPaymentServiceCreateNegativeAmount(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockPaymentEnrollments{enrollment: activeEnrollment(2026)}, &mockMethodFinder{})

	_, err := svc.Create(context.Background(), models.CreatePaymentRequest{
		EnrollmentID: 5,
		TypeID:       1,
		Amount:       -10,
		Date:         "2026-04-01",
		Status:       models.PaymentPending,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestPaymentServiceUpdateClearsMethod(t *testing.T) {
	repo := &mockPaymentRepo{
		detail:   &models.PaymentDetail{Payment: models.Payment{ID: 21, EnrollmentID: 5}},
		updateOK: true,
	}
	svc := newPaymentService(repo, &mockPaymentEnrollments{enrollment: activeEnrollment(2026)}, &mockMethodFinder{})

	methodID := int64(0)
	_, err := svc.Update(context.Background(), 21, models.UpdatePaymentRequest{MethodID: &methodID})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.True(t, repo.updated.SetMethodNull)
	assert.Nil(t, repo.updated.MethodID)
}

func TestPaymentServiceUpdateDateRevalidatesEnrollment(t *testing.T) {
	repo := &mockPaymentRepo{
		detail:   &models.PaymentDetail{Payment: models.Payment{ID: 21, EnrollmentID: 5}},
		updateOK: true,
	}
	svc := newPaymentService(repo, &mockPaymentEnrollments{enrollment: activeEnrollment(2026)}, &mockMethodFinder{})

	date := "2027-01-15"
	_, err := svc.Update(context.Background(), 21, models.UpdatePaymentRequest{Date: &date})
	require.Error(t, err)
	assert.Equal(t, "La matrícula 5 no está activa para el año 2027", appErrors.FromError(err).Message)
	assert.Nil(t, repo.updated)
}

func TestPaymentServiceAccountStatementTotals(t *testing.T) {
	repo := &mockPaymentRepo{payments: []models.PaymentDetail{
		{Payment: models.Payment{Amount: 100, Status: models.PaymentCompleted}},
		{Payment: models.Payment{Amount: 50, Status: models.PaymentCompleted}},
		{Payment: models.Payment{Amount: 80, Status: models.PaymentPending}},
		{Payment: models.Payment{Amount: 999, Status: models.PaymentVoided}},
	}}
	enrollments := &mockPaymentEnrollments{detail: &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: 5}}}
	svc := newPaymentService(repo, enrollments, &mockMethodFinder{})

	statement, err := svc.AccountStatement(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 150.0, statement.TotalPaid)
	assert.Equal(t, 80.0, statement.TotalDue)
	assert.Len(t, statement.Payments, 4)
}

func TestPaymentServiceAccountStatementMissingEnrollment(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockPaymentEnrollments{}, &mockMethodFinder{})

	_, err := svc.AccountStatement(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestPaymentServiceExportCSV(t *testing.T) {
	reference := "OP-123"
	method := "Efectivo"
	repo := &mockPaymentRepo{payments: []models.PaymentDetail{{
		Payment: models.Payment{
			ID:        21,
			Amount:    150.50,
			Date:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Reference: &reference,
			Status:    models.PaymentCompleted,
		},
		StudentFirstName: "Luis",
		StudentLastName:  "Mamani",
		AcademicYear:     2026,
		TypeName:         "Pensión",
		MethodName:       &method,
	}}}
	svc := newPaymentService(repo, &mockPaymentEnrollments{}, &mockMethodFinder{})

	raw, err := svc.ExportCSV(context.Background(), models.PaymentFilter{})
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, "ID,Estudiante,Año,Tipo de Pago,Método de Pago,Monto,Fecha,Referencia,Estado"))
	assert.Contains(t, content, "Luis Mamani")
	assert.Contains(t, content, "150.50")
	assert.Contains(t, content, "OP-123")
}

func TestPaymentServiceReceiptFallbackInstitution(t *testing.T) {
	repo := &mockPaymentRepo{detail: &models.PaymentDetail{
		Payment:          models.Payment{ID: 21, Amount: 150.50, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Status: models.PaymentCompleted},
		StudentFirstName: "Luis",
		StudentLastName:  "Mamani",
		AcademicYear:     2026,
		TypeName:         "Pensión",
	}}
	svc := newPaymentService(repo, &mockPaymentEnrollments{}, &mockMethodFinder{})

	raw, err := svc.Receipt(context.Background(), 21)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestPaymentServiceListInvalidStatusFilter(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, &mockPaymentEnrollments{}, &mockMethodFinder{})

	_, err := svc.List(context.Background(), models.PaymentFilter{Status: models.PaymentStatus("Rechazado")})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
