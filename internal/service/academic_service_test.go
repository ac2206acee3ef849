package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type mockAcademicRepo struct {
	level   *models.Level
	grade   *models.Grade
	section *models.Section

	createLevelErr   error
	deleteLevelOK    bool
	deleteLevelErr   error
	deleteSectionOK  bool
	deleteSectionErr error

	createdGrade   *models.Grade
	createdSection *models.Section
}

func (m *mockAcademicRepo) ListLevels(ctx context.Context) ([]models.Level, error) {
	return nil, nil
}

func (m *mockAcademicRepo) FindLevel(ctx context.Context, id int64) (*models.Level, error) {
	if m.level == nil {
		return nil, sql.ErrNoRows
	}
	return m.level, nil
}

func (m *mockAcademicRepo) CreateLevel(ctx context.Context, level *models.Level) error {
	if m.createLevelErr != nil {
		return m.createLevelErr
	}
	level.ID = 1
	return nil
}

func (m *mockAcademicRepo) UpdateLevel(ctx context.Context, level *models.Level) error {
	return nil
}

func (m *mockAcademicRepo) DeleteLevel(ctx context.Context, id int64) (bool, error) {
	return m.deleteLevelOK, m.deleteLevelErr
}

func (m *mockAcademicRepo) ListGrades(ctx context.Context) ([]models.Grade, error) {
	return nil, nil
}

func (m *mockAcademicRepo) ListGradesByLevel(ctx context.Context, levelID int64) ([]models.Grade, error) {
	if m.grade == nil {
		return nil, nil
	}
	return []models.Grade{*m.grade}, nil
}

func (m *mockAcademicRepo) FindGrade(ctx context.Context, id int64) (*models.Grade, error) {
	if m.grade == nil {
		return nil, sql.ErrNoRows
	}
	return m.grade, nil
}

func (m *mockAcademicRepo) CreateGrade(ctx context.Context, grade *models.Grade) error {
	grade.ID = 3
	m.createdGrade = grade
	m.grade = &models.Grade{ID: 3, Name: grade.Name, LevelID: grade.LevelID, LevelName: "Primaria"}
	return nil
}

func (m *mockAcademicRepo) UpdateGrade(ctx context.Context, grade *models.Grade) error {
	return nil
}

func (m *mockAcademicRepo) DeleteGrade(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (m *mockAcademicRepo) ListSections(ctx context.Context) ([]models.Section, error) {
	return nil, nil
}

func (m *mockAcademicRepo) ListSectionsByGrade(ctx context.Context, gradeID int64) ([]models.Section, error) {
	if m.section == nil {
		return nil, nil
	}
	return []models.Section{*m.section}, nil
}

func (m *mockAcademicRepo) FindSection(ctx context.Context, id int64) (*models.Section, error) {
	if m.section == nil {
		return nil, sql.ErrNoRows
	}
	return m.section, nil
}

func (m *mockAcademicRepo) CreateSection(ctx context.Context, section *models.Section) error {
	section.ID = 7
	m.createdSection = section
	m.section = &models.Section{ID: 7, Name: section.Name, GradeID: section.GradeID, GradeName: "Tercero", LevelName: "Primaria"}
	return nil
}

func (m *mockAcademicRepo) UpdateSection(ctx context.Context, section *models.Section) error {
	return nil
}

func (m *mockAcademicRepo) DeleteSection(ctx context.Context, id int64) (bool, error) {
	return m.deleteSectionOK, m.deleteSectionErr
}

func TestAcademicServiceCreateLevelDuplicate(t *testing.T) {
	repo := &mockAcademicRepo{createLevelErr: uniqueViolation("niveles_educativos_nombre_key")}
	svc := NewAcademicService(repo, validator.New(), zap.NewNop())

	_, err := svc.CreateLevel(context.Background(), models.LevelRequest{Name: "Primaria"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Ya existe un nivel con ese nombre", appErr.Message)
}

func TestAcademicServiceCreateGradeUnknownLevel(t *testing.T) {
	repo := &mockAcademicRepo{}
	svc := NewAcademicService(repo, validator.New(), zap.NewNop())

	_, err := svc.CreateGrade(context.Background(), models.GradeRequest{Name: "Tercero", LevelID: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Nivel educativo no encontrado", appErr.Message)
	assert.Nil(t, repo.createdGrade)
}

func TestAcademicServiceCreateGradeReturnsJoinedNames(t *testing.T) {
	repo := &mockAcademicRepo{level: &models.Level{ID: 1, Name: "Primaria"}}
	svc := NewAcademicService(repo, validator.New(), zap.NewNop())

	grade, err := svc.CreateGrade(context.Background(), models.GradeRequest{Name: "Tercero", LevelID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), grade.ID)
	assert.Equal(t, "Primaria", grade.LevelName)
}

func TestAcademicServiceListGradesByLevel(t *testing.T) {
	repo := &mockAcademicRepo{
		level: &models.Level{ID: 1, Name: "Primaria"},
		grade: &models.Grade{ID: 3, Name: "Tercero", LevelID: 1, LevelName: "Primaria"},
	}
	svc := NewAcademicService(repo, validator.New(), zap.NewNop())

	grades, err := svc.ListGradesByLevel(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, int64(1), grades[0].LevelID)
}

func TestAcademicServiceListGradesByLevelUnknownLevel(t *testing.T) {
	svc := NewAcademicService(&mockAcademicRepo{}, validator.New(), zap.NewNop())

	_, err := svc.ListGradesByLevel(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Nivel educativo no encontrado", appErr.Message)
}

func TestAcademicServiceListSectionsByGradeUnknownGrade(t *testing.T) {
	svc := NewAcademicService(&mockAcademicRepo{}, validator.New(), zap.NewNop())

	_, err := svc.ListSectionsByGrade(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, "Grado no encontrado", appErrors.FromError(err).Message)
}

func TestAcademicServiceCreateSectionUnknownGrade(t *testing.T) {
	svc := NewAcademicService(&mockAcademicRepo{}, validator.New(), zap.NewNop())

	_, err := svc.CreateSection(context.Background(), models.SectionRequest{Name: "A", GradeID: 3})
	require.Error(t, err)
	assert.Equal(t, "Grado no encontrado", appErrors.FromError(err).Message)
}

func TestAcademicServiceDeleteLevelWithGrades(t *testing.T) {
	repo := &mockAcademicRepo{deleteLevelErr: foreignKeyViolation()}
	svc := NewAcademicService(repo, validator.New(), zap.NewNop())

	err := svc.DeleteLevel(context.Background(), 1)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "No se puede eliminar el nivel porque tiene grados asociados", appErr.Message)
}

func TestAcademicServiceDeleteSectionWithEnrollments(t *testing.T) {
	repo := &mockAcademicRepo{deleteSectionErr: foreignKeyViolation()}
	svc := NewAcademicService(repo, validator.New(), zap.NewNop())

	err := svc.DeleteSection(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "No se puede eliminar la sección porque tiene matrículas asociadas", appErrors.FromError(err).Message)
}

func TestAcademicServiceDeleteLevelMissing(t *testing.T) {
	svc := NewAcademicService(&mockAcademicRepo{}, validator.New(), zap.NewNop())

	err := svc.DeleteLevel(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
