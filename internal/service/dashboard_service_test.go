package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rudrakalshethra/academy-api/internal/models"
	appErrors "github.com/rudrakalshethra/academy-api/pkg/errors"
)

type fakeDashboardLedgerRepo struct {
	stats  *models.BranchStats
	branch models.Branch
	calls  int
}

func (f *fakeDashboardLedgerRepo) BranchStats(ctx context.Context, branch models.Branch) (*models.BranchStats, error) {
	f.branch = branch
	f.calls++
	return f.stats, nil
}

type fakeDashboardPaymentRepo struct {
	revenue int64
	since   time.Time
}

func (f *fakeDashboardPaymentRepo) RevenueSince(ctx context.Context, branch models.Branch, since time.Time) (int64, error) {
	f.since = since
	return f.revenue, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
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
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = make(map[string][]byte)
	return nil
}

func TestDashboardStatsMissThenHit(t *testing.T) {
	ledgers := &fakeDashboardLedgerRepo{stats: &models.BranchStats{
		TotalStudents:   12,
		ActiveStudents:  10,
		StudentsPayable: 3,
		TotalPending:    4800,
	}}
	payments := &fakeDashboardPaymentRepo{revenue: 16000}
	cacheRepo := newMemoryCacheRepo()
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(ledgers, payments, cacheSvc, zap.NewNop())

	stats, cached, err := svc.Stats(context.Background(), adminClaims(), models.BranchKothavara)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, models.BranchKothavara, stats.Branch)
	assert.Equal(t, 12, stats.TotalStudents)
	assert.Equal(t, 3, stats.StudentsPayable)
	assert.Equal(t, int64(4800), stats.TotalPending)
	assert.Equal(t, int64(16000), stats.RecentRevenue)
	assert.WithinDuration(t, time.Now().UTC().Add(-RecentRevenueWindow), payments.since, time.Minute)

	again, cached, err := svc.Stats(context.Background(), adminClaims(), models.BranchKothavara)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, stats, again)
	assert.Equal(t, 1, ledgers.calls)
}

func TestDashboardStatsManagerPinnedToBranch(t *testing.T) {
	ledgers := &fakeDashboardLedgerRepo{stats: &models.BranchStats{}}
	svc := NewDashboardService(ledgers, &fakeDashboardPaymentRepo{}, nil, zap.NewNop())

	stats, _, err := svc.Stats(context.Background(), managerClaims(models.BranchEdayazham), models.BranchKothavara)
	require.NoError(t, err)
	assert.Equal(t, models.BranchEdayazham, stats.Branch)
	assert.Equal(t, models.BranchEdayazham, ledgers.branch)
}

func TestDashboardStatsStudentForbidden(t *testing.T) {
	svc := NewDashboardService(&fakeDashboardLedgerRepo{}, &fakeDashboardPaymentRepo{}, nil, zap.NewNop())

	claims := &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent, Branch: models.BranchKothavara}
	_, _, err := svc.Stats(context.Background(), claims, "")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestDashboardCacheInvalidatedAfterMutation(t *testing.T) {
	ledgers := &fakeDashboardLedgerRepo{stats: &models.BranchStats{TotalStudents: 1}}
	cacheRepo := newMemoryCacheRepo()
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(ledgers, &fakeDashboardPaymentRepo{}, cacheSvc, zap.NewNop())

	_, _, err := svc.Stats(context.Background(), adminClaims(), models.BranchAll)
	require.NoError(t, err)

	cacheSvc.Invalidate(context.Background(), "dash:stats:*")

	_, cached, err := svc.Stats(context.Background(), adminClaims(), models.BranchAll)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, ledgers.calls)
}
