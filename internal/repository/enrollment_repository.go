package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

const enrollmentDetailSelect = `SELECT m.id, m.estudiante_id, m.seccion_id, m.anio_academico, m.fecha_matricula, m.estado,
        e.primer_nombre AS estudiante_primer_nombre, e.primer_apellido AS estudiante_primer_apellido,
        ne.nombre AS nombre_nivel, g.nombre AS nombre_grado, s.nombre AS nombre_seccion
        FROM matriculas m
        JOIN estudiantes e ON e.id = m.estudiante_id
        JOIN secciones s ON s.id = m.seccion_id
        JOIN grados g ON g.id = s.grado_id
        JOIN niveles_educativos ne ON ne.id = g.nivel_id`

// UpdateEnrollmentFields carries the optional fields of a partial update.
// Only non-nil fields are included in the generated UPDATE statement.
type UpdateEnrollmentFields struct {
	SectionID    *int64
	AcademicYear *int
	Date         *time.Time
	Status       *models.EnrollmentStatus
}

// EnrollmentRepository handles persistence of matrículas.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments filtered by student and/or academic year.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect
	var conditions []string
	var args []interface{}

	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("m.estudiante_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.AcademicYear > 0 {
		conditions = append(conditions, fmt.Sprintf("m.anio_academico = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY m.fecha_matricula DESC"

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, estudiante_id, seccion_id, anio_academico, fecha_matricula, estado FROM matriculas WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns an enrollment with joined names.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " WHERE m.id = $1"
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsForYear checks whether the student already has an enrollment for the
// academic year, optionally excluding a record.
func (r *EnrollmentRepository) ExistsForYear(ctx context.Context, studentID int64, academicYear int, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM matriculas WHERE estudiante_id = $1 AND anio_academico = $2"
	args := []interface{}{studentID, academicYear}
	if excludeID > 0 {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment year: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment. The UNIQUE(estudiante_id, anio_academico)
// constraint backs the pre-check against concurrent inserts.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO matriculas (estudiante_id, seccion_id, anio_academico, fecha_matricula, estado)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		enrollment.StudentID, enrollment.SectionID, enrollment.AcademicYear,
		enrollment.Date, enrollment.Status,
	).Scan(&enrollment.ID); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update applies a partial update; omitted fields keep their stored values.
// It reports false when the enrollment does not exist.
func (r *EnrollmentRepository) Update(ctx context.Context, id int64, fields UpdateEnrollmentFields) (bool, error) {
	var assignments []string
	args := []interface{}{id}

	if fields.SectionID != nil {
		assignments = append(assignments, fmt.Sprintf("seccion_id = $%d", len(args)+1))
		args = append(args, *fields.SectionID)
	}
	if fields.AcademicYear != nil {
		assignments = append(assignments, fmt.Sprintf("anio_academico = $%d", len(args)+1))
		args = append(args, *fields.AcademicYear)
	}
	if fields.Date != nil {
		assignments = append(assignments, fmt.Sprintf("fecha_matricula = $%d", len(args)+1))
		args = append(args, *fields.Date)
	}
	if fields.Status != nil {
		assignments = append(assignments, fmt.Sprintf("estado = $%d", len(args)+1))
		args = append(args, *fields.Status)
	}
	if len(assignments) == 0 {
		return false, fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf("UPDATE matriculas SET %s WHERE id = $1", strings.Join(assignments, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update enrollment: %w", err)
	}
	return affected > 0, nil
}

// Delete removes an enrollment. It reports false when no row was removed.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM matriculas WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	return affected > 0, nil
}

// ListActive returns every currently active enrollment, used by the
// mandatory-payment fan-out.
func (r *EnrollmentRepository) ListActive(ctx context.Context) ([]models.Enrollment, error) {
	const query = `SELECT id, estudiante_id, seccion_id, anio_academico, fecha_matricula, estado FROM matriculas WHERE estado = $1`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, models.EnrollmentActive); err != nil {
		return nil, fmt.Errorf("list active enrollments: %w", err)
	}
	return enrollments, nil
}
