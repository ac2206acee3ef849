package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type mockEnrollmentRepo struct {
	detail     *models.EnrollmentDetail
	current    *models.Enrollment
	findErr    error
	exists     bool
	existsErr  error
	created    *models.Enrollment
	createErr  error
	updated    *repository.UpdateEnrollmentFields
	updateOK   bool
	deleteOK   bool
	deleteErr  error
	lastFilter models.EnrollmentFilter
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	m.lastFilter = filter
	return nil, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.current, nil
}

func (m *mockEnrollmentRepo) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	if m.detail == nil {
		return nil, sql.ErrNoRows
	}
	return m.detail, nil
}

func (m *mockEnrollmentRepo) ExistsForYear(ctx context.Context, studentID int64, academicYear int, excludeID int64) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	enrollment.ID = 11
	m.created = enrollment
	m.detail = &models.EnrollmentDetail{Enrollment: *enrollment}
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, id int64, fields repository.UpdateEnrollmentFields) (bool, error) {
	m.updated = &fields
	return m.updateOK, nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteOK, m.deleteErr
}

type mockEnrollmentStudents struct {
	err error
}

func (m *mockEnrollmentStudents) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.StudentDetail{}, nil
}

type mockEnrollmentSections struct {
	err error
}

func (m *mockEnrollmentSections) FindSection(ctx context.Context, id int64) (*models.Section, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Section{ID: id}, nil
}

func newEnrollmentService(repo *mockEnrollmentRepo, students *mockEnrollmentStudents, sections *mockEnrollmentSections) *EnrollmentService {
	return NewEnrollmentService(repo, students, sections, validator.New(), zap.NewNop())
}

func TestEnrollmentServiceCreateDefaultsDate(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	_, err := svc.Create(context.Background(), models.CreateEnrollmentRequest{
		StudentID:    1,
		SectionID:    2,
		AcademicYear: 2026,
		Status:       models.EnrollmentActive,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), repo.created.Date)
}

func TestEnrollmentServiceCreateRejectsPastYear(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{})
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	date := "2025-12-01"
	_, err := svc.Create(context.Background(), models.CreateEnrollmentRequest{
		StudentID:    1,
		SectionID:    2,
		AcademicYear: 2026,
		Date:         &date,
		Status:       models.EnrollmentActive,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "La fecha de matrícula no puede pertenecer a un año anterior", appErr.Message)
	assert.Nil(t, repo.created)
}

func TestEnrollmentServiceCreateDuplicateYear(t *testing.T) {
	repo := &mockEnrollmentRepo{exists: true}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{})

	_, err := svc.Create(context.Background(), models.CreateEnrollmentRequest{
		StudentID:    1,
		SectionID:    2,
		AcademicYear: 2026,
		Status:       models.EnrollmentActive,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "El estudiante ya tiene una matrícula para el año 2026", appErr.Message)
}

func TestEnrollmentServiceCreateUnknownStudent(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{err: sql.ErrNoRows}, &mockEnrollmentSections{})

	_, err := svc.Create(context.Background(), models.CreateEnrollmentRequest{
		StudentID:    99,
		SectionID:    2,
		AcademicYear: 2026,
		Status:       models.EnrollmentActive,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "El estudiante especificado no existe", appErr.Message)
}

func TestEnrollmentServiceCreateUnknownSection(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{err: sql.ErrNoRows})

	_, err := svc.Create(context.Background(), models.CreateEnrollmentRequest{
		StudentID:    1,
		SectionID:    99,
		AcademicYear: 2026,
		Status:       models.EnrollmentActive,
	})
	require.Error(t, err)
	assert.Equal(t, "La sección especificada no existe", appErrors.FromError(err).Message)
}

func TestEnrollmentServiceCreateInvalidStatus(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, &mockEnrollmentStudents{}, &mockEnrollmentSections{})

	_, err := svc.Create(context.Background(), models.CreateEnrollmentRequest{
		StudentID:    1,
		SectionID:    2,
		AcademicYear: 2026,
		Status:       models.EnrollmentStatus("Pausado"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestEnrollmentServiceUpdateYearConflict(t *testing.T) {
	repo := &mockEnrollmentRepo{
		current: &models.Enrollment{ID: 11, StudentID: 1, AcademicYear: 2025},
		exists:  true,
	}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{})

	year := 2026
	_, err := svc.Update(context.Background(), 11, models.UpdateEnrollmentRequest{AcademicYear: &year})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Nil(t, repo.updated)
}

func TestEnrollmentServiceUpdateEmptyBody(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, &mockEnrollmentStudents{}, &mockEnrollmentSections{})

	_, err := svc.Update(context.Background(), 11, models.UpdateEnrollmentRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestEnrollmentServiceUpdatePartialFields(t *testing.T) {
	status := models.EnrollmentInactive
	repo := &mockEnrollmentRepo{
		current:  &models.Enrollment{ID: 11, StudentID: 1, AcademicYear: 2026},
		updateOK: true,
		detail:   &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: 11}},
	}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{})

	_, err := svc.Update(context.Background(), 11, models.UpdateEnrollmentRequest{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Nil(t, repo.updated.SectionID)
	assert.Nil(t, repo.updated.AcademicYear)
	assert.Nil(t, repo.updated.Date)
	require.NotNil(t, repo.updated.Status)
	assert.Equal(t, models.EnrollmentInactive, *repo.updated.Status)
}

func TestEnrollmentServiceDeleteWithPayments(t *testing.T) {
	repo := &mockEnrollmentRepo{deleteErr: foreignKeyViolation()}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{})

	err := svc.Delete(context.Background(), 11)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "No se puede eliminar la matrícula porque tiene pagos asociados", appErr.Message)
}

func TestEnrollmentServiceDeleteMissing(t *testing.T) {
	repo := &mockEnrollmentRepo{deleteOK: false}
	svc := newEnrollmentService(repo, &mockEnrollmentStudents{}, &mockEnrollmentSections{})

	err := svc.Delete(context.Background(), 11)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
