package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

// AcademicRepository persists the level → grade → section hierarchy. Deletes
// cascade down the hierarchy at the schema level.
type AcademicRepository struct {
	db *sqlx.DB
}

// NewAcademicRepository constructs an AcademicRepository.
func NewAcademicRepository(db *sqlx.DB) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// ListLevels returns every education level ordered by name.
func (r *AcademicRepository) ListLevels(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	if err := r.db.SelectContext(ctx, &levels, `SELECT id, nombre FROM niveles_educativos ORDER BY nombre ASC`); err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	return levels, nil
}

// FindLevel returns a level by identifier.
func (r *AcademicRepository) FindLevel(ctx context.Context, id int64) (*models.Level, error) {
	var level models.Level
	if err := r.db.GetContext(ctx, &level, `SELECT id, nombre FROM niveles_educativos WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &level, nil
}

// CreateLevel inserts a level and fills its generated id.
func (r *AcademicRepository) CreateLevel(ctx context.Context, level *models.Level) error {
	const query = `INSERT INTO niveles_educativos (nombre) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, level.Name).Scan(&level.ID); err != nil {
		return fmt.Errorf("create level: %w", err)
	}
	return nil
}

// UpdateLevel renames a level.
func (r *AcademicRepository) UpdateLevel(ctx context.Context, level *models.Level) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE niveles_educativos SET nombre = $2 WHERE id = $1`, level.ID, level.Name); err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	return nil
}

// DeleteLevel removes a level; grades and sections below it cascade.
func (r *AcademicRepository) DeleteLevel(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM niveles_educativos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete level: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete level: %w", err)
	}
	return affected > 0, nil
}

// ListGrades returns every grade with its level name.
func (r *AcademicRepository) ListGrades(ctx context.Context) ([]models.Grade, error) {
	const query = `SELECT g.id, g.nombre, g.nivel_id, ne.nombre AS nombre_nivel
        FROM grados g
        JOIN niveles_educativos ne ON ne.id = g.nivel_id
        ORDER BY ne.nombre, g.nombre`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// ListGradesByLevel returns the grades under one level, ordered by name.
func (r *AcademicRepository) ListGradesByLevel(ctx context.Context, levelID int64) ([]models.Grade, error) {
	const query = `SELECT g.id, g.nombre, g.nivel_id, ne.nombre AS nombre_nivel
        FROM grados g
        JOIN niveles_educativos ne ON ne.id = g.nivel_id
        WHERE g.nivel_id = $1
        ORDER BY g.nombre`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, levelID); err != nil {
		return nil, fmt.Errorf("list grades by level: %w", err)
	}
	return grades, nil
}

// FindGrade returns a grade by identifier with its level name.
func (r *AcademicRepository) FindGrade(ctx context.Context, id int64) (*models.Grade, error) {
	const query = `SELECT g.id, g.nombre, g.nivel_id, ne.nombre AS nombre_nivel
        FROM grados g
        JOIN niveles_educativos ne ON ne.id = g.nivel_id
        WHERE g.id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// CreateGrade inserts a grade and fills its generated id.
func (r *AcademicRepository) CreateGrade(ctx context.Context, grade *models.Grade) error {
	const query = `INSERT INTO grados (nombre, nivel_id) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, grade.Name, grade.LevelID).Scan(&grade.ID); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// UpdateGrade modifies a grade's name and parent level.
func (r *AcademicRepository) UpdateGrade(ctx context.Context, grade *models.Grade) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE grados SET nombre = $2, nivel_id = $3 WHERE id = $1`, grade.ID, grade.Name, grade.LevelID); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// DeleteGrade removes a grade; its sections cascade.
func (r *AcademicRepository) DeleteGrade(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grados WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete grade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete grade: %w", err)
	}
	return affected > 0, nil
}

// ListSections returns every section with its grade and level names.
func (r *AcademicRepository) ListSections(ctx context.Context) ([]models.Section, error) {
	const query = `SELECT s.id, s.nombre, s.grado_id, g.nombre AS nombre_grado, ne.nombre AS nombre_nivel
        FROM secciones s
        JOIN grados g ON g.id = s.grado_id
        JOIN niveles_educativos ne ON ne.id = g.nivel_id
        ORDER BY ne.nombre, g.nombre, s.nombre`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListSectionsByGrade returns the sections under one grade, ordered by name.
func (r *AcademicRepository) ListSectionsByGrade(ctx context.Context, gradeID int64) ([]models.Section, error) {
	const query = `SELECT s.id, s.nombre, s.grado_id, g.nombre AS nombre_grado, ne.nombre AS nombre_nivel
        FROM secciones s
        JOIN grados g ON g.id = s.grado_id
        JOIN niveles_educativos ne ON ne.id = g.nivel_id
        WHERE s.grado_id = $1
        ORDER BY s.nombre`
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, gradeID); err != nil {
		return nil, fmt.Errorf("list sections by grade: %w", err)
	}
	return sections, nil
}

// FindSection returns a section by identifier with joined names.
func (r *AcademicRepository) FindSection(ctx context.Context, id int64) (*models.Section, error) {
	const query = `SELECT s.id, s.nombre, s.grado_id, g.nombre AS nombre_grado, ne.nombre AS nombre_nivel
        FROM secciones s
        JOIN grados g ON g.id = s.grado_id
        JOIN niveles_educativos ne ON ne.id = g.nivel_id
        WHERE s.id = $1`
	var section models.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// CreateSection inserts a section and fills its generated id.
func (r *AcademicRepository) CreateSection(ctx context.Context, section *models.Section) error {
	const query = `INSERT INTO secciones (nombre, grado_id) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, section.Name, section.GradeID).Scan(&section.ID); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// UpdateSection modifies a section's name and parent grade.
func (r *AcademicRepository) UpdateSection(ctx context.Context, section *models.Section) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE secciones SET nombre = $2, grado_id = $3 WHERE id = $1`, section.ID, section.Name, section.GradeID); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// DeleteSection removes a section.
func (r *AcademicRepository) DeleteSection(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM secciones WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete section: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete section: %w", err)
	}
	return affected > 0, nil
}
