package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rudrakalshethra/academy-api/internal/dto"
	"github.com/rudrakalshethra/academy-api/internal/models"
)

// RecentRevenueWindow is the lookback used for the dashboard revenue figure.
const RecentRevenueWindow = 30 * 24 * time.Hour

type dashboardLedgerRepository interface {
	BranchStats(ctx context.Context, branch models.Branch) (*models.BranchStats, error)
}

type dashboardPaymentRepository interface {
	RevenueSince(ctx context.Context, branch models.Branch, since time.Time) (int64, error)
}

// DashboardService composes branch-level aggregates for the dashboard.
type DashboardService struct {
	ledgerRepo  dashboardLedgerRepository
	paymentRepo dashboardPaymentRepository
	cache       *CacheService
	logger      *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(ledgerRepo dashboardLedgerRepository, paymentRepo dashboardPaymentRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{ledgerRepo: ledgerRepo, paymentRepo: paymentRepo, cache: cache, logger: logger}
}

func statsCacheKey(branch models.Branch) string {
	return fmt.Sprintf("dash:stats:%s", branch)
}

// Stats returns dashboard aggregates for the caller's branch scope. The
// second return value reports whether the payload came from the cache.
func (s *DashboardService) Stats(ctx context.Context, claims *models.JWTClaims, requested models.Branch) (*dto.BranchStatsResponse, bool, error) {
	if err := Authorize(claims, []models.UserRole{models.RoleAdmin, models.RoleManager}, ""); err != nil {
		return nil, false, err
	}

	branch := ScopeBranch(claims, requested)
	key := statsCacheKey(branch)

	var cached dto.BranchStatsResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	stats, err := s.ledgerRepo.BranchStats(ctx, branch)
	if err != nil {
		return nil, false, wrapStorage(err, "failed to aggregate branch stats")
	}

	since := time.Now().UTC().Add(-RecentRevenueWindow)
	revenue, err := s.paymentRepo.RevenueSince(ctx, branch, since)
	if err != nil {
		return nil, false, wrapStorage(err, "failed to aggregate recent revenue")
	}

	resp := &dto.BranchStatsResponse{
		Branch:          branch,
		TotalStudents:   stats.TotalStudents,
		ActiveStudents:  stats.ActiveStudents,
		StudentsPayable: stats.StudentsPayable,
		TotalPending:    stats.TotalPending,
		RecentRevenue:   revenue,
	}

	s.cache.Set(ctx, key, resp)
	return resp, false, nil
}
