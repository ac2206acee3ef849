package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

func paymentDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "matricula_id", "tipo_pago_id", "metodo_pago_id", "monto", "fecha_pago",
		"referencia_pago", "estado", "fecha_creacion",
		"tipo_pago_nombre", "metodo_pago_nombre", "anio_academico",
		"estudiante_primer_nombre", "estudiante_primer_apellido",
	})
}

func TestPaymentRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := paymentDetailRows().
		AddRow(21, 5, 1, 2, 150.50, time.Now(), "OP-123", "Completado", time.Now(), "Pensión", "Efectivo", 2026, "Luis", "Mamani")
	mock.ExpectQuery(`FROM pagos p[\s\S]*WHERE p\.matricula_id = \$1 AND p\.estado = \$2 ORDER BY p\.fecha_pago DESC, p\.id DESC`).
		WithArgs(int64(5), models.PaymentCompleted).
		WillReturnRows(rows)

	payments, err := repo.List(context.Background(), models.PaymentFilter{EnrollmentID: 5, Status: models.PaymentCompleted})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Pensión", payments[0].TypeName)
	assert.Equal(t, 2026, payments[0].AcademicYear)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListByEnrollmentNullMethod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := paymentDetailRows().
		AddRow(22, 5, 1, nil, 80.0, time.Now(), nil, "Pendiente", time.Now(), "APAFA", nil, 2026, "Luis", "Mamani")
	mock.ExpectQuery(`FROM pagos p[\s\S]*WHERE p\.matricula_id = \$1 ORDER BY p\.fecha_pago ASC, p\.id ASC`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	payments, err := repo.ListByEnrollment(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Nil(t, payments[0].MethodID)
	assert.Nil(t, payments[0].MethodName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(`INSERT INTO pagos`).
		WithArgs(int64(5), int64(1), nil, 150.50, sqlmock.AnyArg(), nil, models.PaymentCompleted, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	payment := &models.Payment{
		EnrollmentID: 5,
		TypeID:       1,
		Amount:       150.50,
		Date:         time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:       models.PaymentCompleted,
	}
	err := repo.Create(context.Background(), payment)
	require.NoError(t, err)
	assert.Equal(t, int64(21), payment.ID)
	assert.False(t, payment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpdateClearsMethod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	amount := 200.0
	mock.ExpectExec(`UPDATE pagos SET metodo_pago_id = NULL, monto = \$2 WHERE id = \$1`).
		WithArgs(int64(21), amount).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Update(context.Background(), 21, UpdatePaymentFields{SetMethodNull: true, Amount: &amount})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpdateSetsMethod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	methodID := int64(2)
	mock.ExpectExec(`UPDATE pagos SET metodo_pago_id = \$2 WHERE id = \$1`).
		WithArgs(int64(21), methodID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Update(context.Background(), 21, UpdatePaymentFields{MethodID: &methodID})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	status := models.PaymentVoided
	mock.ExpectExec(`UPDATE pagos SET estado = \$2 WHERE id = \$1`).
		WithArgs(int64(99), status).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Update(context.Background(), 99, UpdatePaymentFields{Status: &status})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
