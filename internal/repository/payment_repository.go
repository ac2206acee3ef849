package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

const paymentDetailSelect = `SELECT p.id, p.matricula_id, p.tipo_pago_id, p.metodo_pago_id, p.monto, p.fecha_pago,
        p.referencia_pago, p.estado, p.fecha_creacion,
        tp.nombre AS tipo_pago_nombre, mp.nombre AS metodo_pago_nombre,
        m.anio_academico, e.primer_nombre AS estudiante_primer_nombre, e.primer_apellido AS estudiante_primer_apellido
        FROM pagos p
        JOIN tipos_pago tp ON tp.id = p.tipo_pago_id
        LEFT JOIN metodos_pago mp ON mp.id = p.metodo_pago_id
        JOIN matriculas m ON m.id = p.matricula_id
        JOIN estudiantes e ON e.id = m.estudiante_id`

// UpdatePaymentFields carries the optional fields of a partial update. The
// SetMethodNull flag clears metodo_pago_id explicitly.
type UpdatePaymentFields struct {
	TypeID        *int64
	MethodID      *int64
	SetMethodNull bool
	Amount        *float64
	Date          *time.Time
	Reference     *string
	Status        *models.PaymentStatus
}

// PaymentRepository handles persistence of pagos.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments matching the filter, newest first.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	query := paymentDetailSelect
	var conditions []string
	var args []interface{}

	if filter.EnrollmentID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.matricula_id = $%d", len(args)+1))
		args = append(args, filter.EnrollmentID)
	}
	if filter.TypeID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.tipo_pago_id = $%d", len(args)+1))
		args = append(args, filter.TypeID)
	}
	if filter.MethodID > 0 {
		conditions = append(conditions, fmt.Sprintf("p.metodo_pago_id = $%d", len(args)+1))
		args = append(args, filter.MethodID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.estado = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.fecha_pago DESC, p.id DESC"

	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindByID returns a payment with joined names.
func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*models.PaymentDetail, error) {
	query := paymentDetailSelect + " WHERE p.id = $1"
	var detail models.PaymentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByEnrollment returns every payment of an enrollment for the account
// statement, ordered by payment date.
func (r *PaymentRepository) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.PaymentDetail, error) {
	query := paymentDetailSelect + " WHERE p.matricula_id = $1 ORDER BY p.fecha_pago ASC, p.id ASC"
	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list enrollment payments: %w", err)
	}
	return payments, nil
}

// Create inserts a new payment and fills its generated id.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	payment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO pagos (matricula_id, tipo_pago_id, metodo_pago_id, monto, fecha_pago, referencia_pago, estado, fecha_creacion)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		payment.EnrollmentID, payment.TypeID, payment.MethodID, payment.Amount,
		payment.Date, payment.Reference, payment.Status, payment.CreatedAt,
	).Scan(&payment.ID); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update applies a partial update; omitted fields keep their stored values.
// It reports false when the payment does not exist.
func (r *PaymentRepository) Update(ctx context.Context, id int64, fields UpdatePaymentFields) (bool, error) {
	var assignments []string
	args := []interface{}{id}

	if fields.TypeID != nil {
		assignments = append(assignments, fmt.Sprintf("tipo_pago_id = $%d", len(args)+1))
		args = append(args, *fields.TypeID)
	}
	if fields.SetMethodNull {
		assignments = append(assignments, "metodo_pago_id = NULL")
	} else if fields.MethodID != nil {
		assignments = append(assignments, fmt.Sprintf("metodo_pago_id = $%d", len(args)+1))
		args = append(args, *fields.MethodID)
	}
	if fields.Amount != nil {
		assignments = append(assignments, fmt.Sprintf("monto = $%d", len(args)+1))
		args = append(args, *fields.Amount)
	}
	if fields.Date != nil {
		assignments = append(assignments, fmt.Sprintf("fecha_pago = $%d", len(args)+1))
		args = append(args, *fields.Date)
	}
	if fields.Reference != nil {
		assignments = append(assignments, fmt.Sprintf("referencia_pago = $%d", len(args)+1))
		args = append(args, *fields.Reference)
	}
	if fields.Status != nil {
		assignments = append(assignments, fmt.Sprintf("estado = $%d", len(args)+1))
		args = append(args, *fields.Status)
	}
	if len(assignments) == 0 {
		return false, fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf("UPDATE pagos SET %s WHERE id = $1", strings.Join(assignments, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update payment: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a payment. It reports false when no row was removed.
func (r *PaymentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pagos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete payment: %w", err)
	}
	return affected > 0, nil
}
