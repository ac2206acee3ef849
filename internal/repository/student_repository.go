package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

const studentDetailSelect = `SELECT e.id, e.primer_nombre, e.segundo_nombre, e.primer_apellido, e.segundo_apellido,
        e.fecha_nacimiento, e.genero, e.numero_identificacion, e.direccion, e.telefono, e.email, e.fecha_creacion,
        m.id AS matricula_id, m.anio_academico, m.estado AS estado_matricula,
        s.nombre AS nombre_seccion, g.nombre AS nombre_grado, ne.nombre AS nombre_nivel
        FROM estudiantes e
        LEFT JOIN matriculas m ON m.estudiante_id = e.id AND m.estado = $1
        LEFT JOIN secciones s ON s.id = m.seccion_id
        LEFT JOIN grados g ON g.id = s.grado_id
        LEFT JOIN niveles_educativos ne ON ne.id = g.nivel_id`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student with its active enrollment context.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	query := studentDetailSelect + " ORDER BY e.primer_apellido, e.primer_nombre"
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, models.EnrollmentActive); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	query := studentDetailSelect + " WHERE e.id = $2"
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, models.EnrollmentActive, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByIdentification checks if a student with the given identification
// number exists, optionally excluding an ID.
func (r *StudentRepository) ExistsByIdentification(ctx context.Context, identification string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM estudiantes WHERE numero_identificacion = $1"
	args := []interface{}{identification}
	if excludeID > 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check identification: %w", err)
	}
	return true, nil
}

// Create inserts a new student and fills its generated id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	student.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO estudiantes (primer_nombre, segundo_nombre, primer_apellido, segundo_apellido, fecha_nacimiento, genero, numero_identificacion, direccion, telefono, email, fecha_creacion)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		student.FirstName, student.MiddleName, student.LastName, student.SecondLastName,
		student.BirthDate, student.Gender, student.Identification,
		student.Address, student.Phone, student.Email, student.CreatedAt,
	).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE estudiantes SET primer_nombre = $2, segundo_nombre = $3, primer_apellido = $4, segundo_apellido = $5,
        fecha_nacimiento = $6, genero = $7, numero_identificacion = $8, direccion = $9, telefono = $10, email = $11 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		student.ID, student.FirstName, student.MiddleName, student.LastName, student.SecondLastName,
		student.BirthDate, student.Gender, student.Identification,
		student.Address, student.Phone, student.Email,
	); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student. The schema cascades onto its enrollments. It
// reports false when no row was removed.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM estudiantes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	return affected > 0, nil
}

// Guardians returns the guardians linked to a student.
func (r *StudentRepository) Guardians(ctx context.Context, studentID int64) ([]models.Guardian, error) {
	const query = `SELECT r.id, r.primer_nombre, r.segundo_nombre, r.primer_apellido, r.segundo_apellido,
        r.numero_identificacion, r.direccion, r.telefono, r.email, r.parentesco, r.fecha_creacion
        FROM responsables r
        JOIN estudiante_responsable er ON er.responsable_id = r.id
        WHERE er.estudiante_id = $1
        ORDER BY r.primer_apellido, r.primer_nombre`
	var guardians []models.Guardian
	if err := r.db.SelectContext(ctx, &guardians, query, studentID); err != nil {
		return nil, fmt.Errorf("list student guardians: %w", err)
	}
	return guardians, nil
}

// AttachGuardian links a guardian to a student.
func (r *StudentRepository) AttachGuardian(ctx context.Context, studentID, guardianID int64) error {
	const query = `INSERT INTO estudiante_responsable (estudiante_id, responsable_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, studentID, guardianID); err != nil {
		return fmt.Errorf("attach guardian: %w", err)
	}
	return nil
}

// DetachGuardian removes the link between a guardian and a student. It
// reports false when the association did not exist.
func (r *StudentRepository) DetachGuardian(ctx context.Context, studentID, guardianID int64) (bool, error) {
	const query = `DELETE FROM estudiante_responsable WHERE estudiante_id = $1 AND responsable_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, guardianID)
	if err != nil {
		return false, fmt.Errorf("detach guardian: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("detach guardian: %w", err)
	}
	return affected > 0, nil
}
