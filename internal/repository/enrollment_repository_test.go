package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryExistsForYear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM matriculas WHERE estudiante_id = \$1 AND anio_academico = \$2 LIMIT 1`).
		WithArgs(int64(1), 2026).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsForYear(context.Background(), 1, 2026, 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsForYearExcludesID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM matriculas WHERE estudiante_id = \$1 AND anio_academico = \$2 AND id <> \$3 LIMIT 1`).
		WithArgs(int64(1), 2026, int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsForYear(context.Background(), 1, 2026, 11)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO matriculas`).
		WithArgs(int64(1), int64(2), 2026, date, models.EnrollmentActive).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	enrollment := &models.Enrollment{StudentID: 1, SectionID: 2, AcademicYear: 2026, Date: date, Status: models.EnrollmentActive}
	err := repo.Create(context.Background(), enrollment)
	require.NoError(t, err)
	assert.Equal(t, int64(11), enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdatePartial(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	status := models.EnrollmentInactive
	mock.ExpectExec(`UPDATE matriculas SET estado = \$2 WHERE id = \$1`).
		WithArgs(int64(11), status).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Update(context.Background(), 11, UpdateEnrollmentFields{Status: &status})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateMultipleFields(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	sectionID := int64(3)
	year := 2027
	mock.ExpectExec(`UPDATE matriculas SET seccion_id = \$2, anio_academico = \$3 WHERE id = \$1`).
		WithArgs(int64(11), sectionID, year).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Update(context.Background(), 11, UpdateEnrollmentFields{SectionID: &sectionID, AcademicYear: &year})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateNoFields(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	_, err := repo.Update(context.Background(), 11, UpdateEnrollmentFields{})
	assert.Error(t, err)
}

func TestEnrollmentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(`DELETE FROM matriculas WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Delete(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "estudiante_id", "seccion_id", "anio_academico", "fecha_matricula", "estado",
		"estudiante_primer_nombre", "estudiante_primer_apellido", "nombre_nivel", "nombre_grado", "nombre_seccion",
	}).AddRow(11, 1, 2, 2026, time.Now(), "Activo", "Luis", "Mamani", "Primaria", "Tercero", "A")
	mock.ExpectQuery(`FROM matriculas m[\s\S]*WHERE m\.estudiante_id = \$1 AND m\.anio_academico = \$2 ORDER BY m\.fecha_matricula DESC`).
		WithArgs(int64(1), 2026).
		WillReturnRows(rows)

	enrollments, err := repo.List(context.Background(), models.EnrollmentFilter{StudentID: 1, AcademicYear: 2026})
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "Luis", enrollments[0].StudentFirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "estudiante_id", "seccion_id", "anio_academico", "fecha_matricula", "estado"}).
		AddRow(11, 1, 2, 2026, time.Now(), "Activo").
		AddRow(12, 2, 2, 2026, time.Now(), "Activo")
	mock.ExpectQuery(`FROM matriculas WHERE estado = \$1`).
		WithArgs(models.EnrollmentActive).
		WillReturnRows(rows)

	enrollments, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, enrollments, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
