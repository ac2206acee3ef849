package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

const paymentTypeColumns = `id, nombre, descripcion, precio_fijo, fecha_vencimiento, es_obligatorio`

// PaymentTypeRepository handles persistence of tipos de pago.
type PaymentTypeRepository struct {
	db *sqlx.DB
}

// NewPaymentTypeRepository constructs the repository.
func NewPaymentTypeRepository(db *sqlx.DB) *PaymentTypeRepository {
	return &PaymentTypeRepository{db: db}
}

// List returns every payment type ordered by name.
func (r *PaymentTypeRepository) List(ctx context.Context) ([]models.PaymentType, error) {
	query := fmt.Sprintf("SELECT %s FROM tipos_pago ORDER BY nombre ASC", paymentTypeColumns)
	var types []models.PaymentType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list payment types: %w", err)
	}
	return types, nil
}

// FindByID returns a payment type by identifier.
func (r *PaymentTypeRepository) FindByID(ctx context.Context, id int64) (*models.PaymentType, error) {
	query := fmt.Sprintf("SELECT %s FROM tipos_pago WHERE id = $1", paymentTypeColumns)
	var paymentType models.PaymentType
	if err := r.db.GetContext(ctx, &paymentType, query, id); err != nil {
		return nil, err
	}
	return &paymentType, nil
}

// Create inserts a payment type and fills its generated id.
func (r *PaymentTypeRepository) Create(ctx context.Context, paymentType *models.PaymentType) error {
	const query = `INSERT INTO tipos_pago (nombre, descripcion, precio_fijo, fecha_vencimiento, es_obligatorio)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		paymentType.Name, paymentType.Description, paymentType.FixedPrice,
		paymentType.DueDate, paymentType.Mandatory,
	).Scan(&paymentType.ID); err != nil {
		return fmt.Errorf("create payment type: %w", err)
	}
	return nil
}

// CreateWithFanOut inserts a mandatory payment type and a pending payment for
// every active enrollment inside one transaction. A failure on any insert
// rolls back the type as well.
func (r *PaymentTypeRepository) CreateWithFanOut(ctx context.Context, paymentType *models.PaymentType, enrollments []models.Enrollment, amount float64, date time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create payment type: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const typeQuery = `INSERT INTO tipos_pago (nombre, descripcion, precio_fijo, fecha_vencimiento, es_obligatorio)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := tx.QueryRowxContext(ctx, typeQuery,
		paymentType.Name, paymentType.Description, paymentType.FixedPrice,
		paymentType.DueDate, paymentType.Mandatory,
	).Scan(&paymentType.ID); err != nil {
		return 0, fmt.Errorf("create payment type: %w", err)
	}

	const paymentQuery = `INSERT INTO pagos (matricula_id, tipo_pago_id, metodo_pago_id, monto, fecha_pago, referencia_pago, estado, fecha_creacion)
        VALUES ($1, $2, NULL, $3, $4, NULL, $5, $6)`
	now := time.Now().UTC()
	for _, enrollment := range enrollments {
		if _, err := tx.ExecContext(ctx, paymentQuery,
			enrollment.ID, paymentType.ID, amount, date, models.PaymentPending, now,
		); err != nil {
			return 0, fmt.Errorf("create pending payment for enrollment %d: %w", enrollment.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create payment type: %w", err)
	}
	return len(enrollments), nil
}

// Update modifies an existing payment type.
func (r *PaymentTypeRepository) Update(ctx context.Context, paymentType *models.PaymentType) error {
	const query = `UPDATE tipos_pago SET nombre = $2, descripcion = $3, precio_fijo = $4, fecha_vencimiento = $5, es_obligatorio = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		paymentType.ID, paymentType.Name, paymentType.Description,
		paymentType.FixedPrice, paymentType.DueDate, paymentType.Mandatory,
	); err != nil {
		return fmt.Errorf("update payment type: %w", err)
	}
	return nil
}

// Delete removes a payment type. It reports false when no row was removed; a
// foreign-key violation surfaces when payments still reference the type.
func (r *PaymentTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tipos_pago WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete payment type: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete payment type: %w", err)
	}
	return affected > 0, nil
}
