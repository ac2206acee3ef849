package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcademicRepositoryListGradesByLevel(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcademicRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nombre", "nivel_id", "nombre_nivel"}).
		AddRow(3, "Tercero", 1, "Primaria").
		AddRow(4, "Cuarto", 1, "Primaria")
	mock.ExpectQuery(`FROM grados g[\s\S]*WHERE g\.nivel_id = \$1[\s\S]*ORDER BY g\.nombre`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	grades, err := repo.ListGradesByLevel(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Equal(t, "Primaria", grades[0].LevelName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicRepositoryListSectionsByGrade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcademicRepository(db)

	rows := sqlmock.NewRows([]string{"id", "nombre", "grado_id", "nombre_grado", "nombre_nivel"}).
		AddRow(7, "A", 3, "Tercero", "Primaria")
	mock.ExpectQuery(`FROM secciones s[\s\S]*WHERE s\.grado_id = \$1[\s\S]*ORDER BY s\.nombre`).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	sections, err := repo.ListSectionsByGrade(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Tercero", sections[0].GradeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicRepositoryListSectionsByGradeEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcademicRepository(db)

	mock.ExpectQuery(`FROM secciones s[\s\S]*WHERE s\.grado_id = \$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "grado_id", "nombre_grado", "nombre_nivel"}))

	sections, err := repo.ListSectionsByGrade(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, sections)
	assert.NoError(t, mock.ExpectationsWereMet())
}
