package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GinoPuma/gestion-escolar/internal/models"
)

// StatsRepository computes the dashboard aggregates.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Dashboard returns the current dashboard counters.
func (r *StatsRepository) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats

	if err := r.db.GetContext(ctx, &stats.TotalStudents, `SELECT COUNT(*) FROM estudiantes`); err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	if err := r.db.GetContext(ctx, &stats.ActiveEnrollments,
		`SELECT COUNT(*) FROM matriculas WHERE estado = $1`, models.EnrollmentActive); err != nil {
		return nil, fmt.Errorf("count active enrollments: %w", err)
	}
	if err := r.db.GetContext(ctx, &stats.PaymentsToday,
		`SELECT COUNT(*) FROM pagos WHERE estado = $1 AND fecha_pago::date = CURRENT_DATE`, models.PaymentCompleted); err != nil {
		return nil, fmt.Errorf("count payments today: %w", err)
	}

	return &stats, nil
}
