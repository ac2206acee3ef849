package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

// InstitutionRepository persists the singleton institution row.
type InstitutionRepository struct {
	db *sqlx.DB
}

// NewInstitutionRepository constructs an InstitutionRepository.
func NewInstitutionRepository(db *sqlx.DB) *InstitutionRepository {
	return &InstitutionRepository{db: db}
}

// Get returns the institution row, or sql.ErrNoRows when none exists yet.
func (r *InstitutionRepository) Get(ctx context.Context) (*models.Institution, error) {
	const query = `SELECT id, nombre, direccion, telefono, email, sitio_web FROM institucion LIMIT 1`
	var institution models.Institution
	if err := r.db.GetContext(ctx, &institution, query); err != nil {
		return nil, err
	}
	return &institution, nil
}

// Save performs the create-or-update in one transaction: update when an id is
// present, insert otherwise.
func (r *InstitutionRepository) Save(ctx context.Context, institution *models.Institution) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save institution: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if institution.ID > 0 {
		const query = `UPDATE institucion SET nombre = $2, direccion = $3, telefono = $4, email = $5, sitio_web = $6 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query,
			institution.ID, institution.Name, institution.Address,
			institution.Phone, institution.Email, institution.Website,
		); err != nil {
			return fmt.Errorf("update institution: %w", err)
		}
	} else {
		const query = `INSERT INTO institucion (nombre, direccion, telefono, email, sitio_web) VALUES ($1, $2, $3, $4, $5) RETURNING id`
		if err := tx.QueryRowxContext(ctx, query,
			institution.Name, institution.Address, institution.Phone,
			institution.Email, institution.Website,
		).Scan(&institution.ID); err != nil {
			return fmt.Errorf("create institution: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save institution: %w", err)
	}
	return nil
}
