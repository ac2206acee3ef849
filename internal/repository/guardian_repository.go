package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

const guardianColumns = `id, primer_nombre, segundo_nombre, primer_apellido, segundo_apellido, numero_identificacion, direccion, telefono, email, parentesco, fecha_creacion`

// GuardianRepository manages persistence for responsables.
type GuardianRepository struct {
	db *sqlx.DB
}

// NewGuardianRepository constructs a GuardianRepository.
func NewGuardianRepository(db *sqlx.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// List returns every guardian ordered by name.
func (r *GuardianRepository) List(ctx context.Context) ([]models.Guardian, error) {
	query := fmt.Sprintf("SELECT %s FROM responsables ORDER BY primer_apellido, primer_nombre", guardianColumns)
	var guardians []models.Guardian
	if err := r.db.SelectContext(ctx, &guardians, query); err != nil {
		return nil, fmt.Errorf("list guardians: %w", err)
	}
	return guardians, nil
}

// FindByID returns a guardian by identifier.
func (r *GuardianRepository) FindByID(ctx context.Context, id int64) (*models.Guardian, error) {
	query := fmt.Sprintf("SELECT %s FROM responsables WHERE id = $1", guardianColumns)
	var guardian models.Guardian
	if err := r.db.GetContext(ctx, &guardian, query, id); err != nil {
		return nil, err
	}
	return &guardian, nil
}

// Exists checks whether a guardian with the identification number or email
// already exists, optionally excluding a record.
func (r *GuardianRepository) Exists(ctx context.Context, identification string, email *string, excludeID int64) (bool, error) {
	query := "SELECT 1 FROM responsables WHERE (numero_identificacion = $1"
	args := []interface{}{identification}
	if email != nil && *email != "" {
		query += fmt.Sprintf(" OR email = $%d", len(args)+1)
		args = append(args, *email)
	}
	query += ")"
	if excludeID > 0 {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check guardian exists: %w", err)
	}
	return true, nil
}

// Create inserts a new guardian and fills its generated id.
func (r *GuardianRepository) Create(ctx context.Context, guardian *models.Guardian) error {
	guardian.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO responsables (primer_nombre, segundo_nombre, primer_apellido, segundo_apellido, numero_identificacion, direccion, telefono, email, parentesco, fecha_creacion)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		guardian.FirstName, guardian.MiddleName, guardian.LastName, guardian.SecondLastName,
		guardian.Identification, guardian.Address, guardian.Phone, guardian.Email,
		guardian.Relationship, guardian.CreatedAt,
	).Scan(&guardian.ID); err != nil {
		return fmt.Errorf("create guardian: %w", err)
	}
	return nil
}

// Update modifies an existing guardian.
func (r *GuardianRepository) Update(ctx context.Context, guardian *models.Guardian) error {
	const query = `UPDATE responsables SET primer_nombre = $2, segundo_nombre = $3, primer_apellido = $4, segundo_apellido = $5,
        numero_identificacion = $6, direccion = $7, telefono = $8, email = $9, parentesco = $10 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		guardian.ID, guardian.FirstName, guardian.MiddleName, guardian.LastName, guardian.SecondLastName,
		guardian.Identification, guardian.Address, guardian.Phone, guardian.Email, guardian.Relationship,
	); err != nil {
		return fmt.Errorf("update guardian: %w", err)
	}
	return nil
}

// Delete removes a guardian. It reports false when no row was removed; a
// foreign-key violation surfaces when the guardian is still linked to
// students.
func (r *GuardianRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM responsables WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete guardian: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete guardian: %w", err)
	}
	return affected > 0, nil
}

// Students returns the students linked to a guardian.
func (r *GuardianRepository) Students(ctx context.Context, guardianID int64) ([]models.Student, error) {
	const query = `SELECT e.id, e.primer_nombre, e.segundo_nombre, e.primer_apellido, e.segundo_apellido,
        e.fecha_nacimiento, e.genero, e.numero_identificacion, e.direccion, e.telefono, e.email, e.fecha_creacion
        FROM estudiantes e
        JOIN estudiante_responsable er ON er.estudiante_id = e.id
        WHERE er.responsable_id = $1
        ORDER BY e.primer_apellido, e.primer_nombre`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, guardianID); err != nil {
		return nil, fmt.Errorf("list guardian students: %w", err)
	}
	return students, nil
}
