package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

// PaymentMethodRepository handles persistence of metodos de pago.
type PaymentMethodRepository struct {
	db *sqlx.DB
}

// NewPaymentMethodRepository constructs the repository.
func NewPaymentMethodRepository(db *sqlx.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// List returns every payment method ordered by name.
func (r *PaymentMethodRepository) List(ctx context.Context) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := r.db.SelectContext(ctx, &methods, `SELECT id, nombre, descripcion FROM metodos_pago ORDER BY nombre ASC`); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

// FindByID returns a payment method by identifier.
func (r *PaymentMethodRepository) FindByID(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := r.db.GetContext(ctx, &method, `SELECT id, nombre, descripcion FROM metodos_pago WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &method, nil
}

// Create inserts a payment method and fills its generated id.
func (r *PaymentMethodRepository) Create(ctx context.Context, method *models.PaymentMethod) error {
	const query = `INSERT INTO metodos_pago (nombre, descripcion) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, method.Name, method.Description).Scan(&method.ID); err != nil {
		return fmt.Errorf("create payment method: %w", err)
	}
	return nil
}

// Update modifies an existing payment method.
func (r *PaymentMethodRepository) Update(ctx context.Context, method *models.PaymentMethod) error {
	const query = `UPDATE metodos_pago SET nombre = $2, descripcion = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, method.ID, method.Name, method.Description); err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	return nil
}

// Delete removes a payment method. It reports false when no row was removed;
// a foreign-key violation surfaces when payments still reference the method.
func (r *PaymentMethodRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM metodos_pago WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete payment method: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete payment method: %w", err)
	}
	return affected > 0, nil
}
