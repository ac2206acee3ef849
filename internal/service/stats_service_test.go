package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/models"
	appErrors "github.com/GinoPuma/gestion-escolar/pkg/errors"
)

type mockStatsRepo struct {
	stats *models.DashboardStats
	calls int
}

func (m *mockStatsRepo) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	m.calls++
	return m.stats, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
	lastTTL time.Duration
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.lastTTL = ttl
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func TestStatsServiceDashboardCacheDisabled(t *testing.T) {
	repo := &mockStatsRepo{stats: &models.DashboardStats{TotalStudents: 120, ActiveEnrollments: 95, PaymentsToday: 7}}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), false)
	svc := NewStatsService(repo, cache, time.Minute, zap.NewNop())

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, first.TotalStudents)

	_, err = svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "every request should hit the database when caching is off")
}

func TestStatsServiceDashboardCacheHit(t *testing.T) {
	repo := &mockStatsRepo{stats: &models.DashboardStats{TotalStudents: 120, ActiveEnrollments: 95, PaymentsToday: 7}}
	store := newMemoryCacheRepo()
	cache := NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	svc := NewStatsService(repo, cache, 30*time.Second, zap.NewNop())

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls, "second request should be served from cache")
	assert.Equal(t, first.TotalStudents, second.TotalStudents)
	assert.Equal(t, 30*time.Second, store.lastTTL)
}

func TestStatsServiceDashboardNilCache(t *testing.T) {
	repo := &mockStatsRepo{stats: &models.DashboardStats{TotalStudents: 3}}
	svc := NewStatsService(repo, nil, time.Minute, zap.NewNop())

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalStudents)
}
