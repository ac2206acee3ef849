package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

const dashboardCacheKey = "stats:dashboard"

type statsRepository interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// StatsService serves the dashboard counters, optionally behind a short-lived
// cache.
type StatsService struct {
	repo     statsRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatsService constructs a StatsService instance.
func NewStatsService(repo statsRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Dashboard returns the dashboard counters.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var cached models.DashboardStats
	if s.cache.Get(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	stats, err := s.repo.Dashboard(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error al obtener estadísticas")
	}

	s.cache.Set(ctx, dashboardCacheKey, stats, s.cacheTTL)
	return stats, nil
}
