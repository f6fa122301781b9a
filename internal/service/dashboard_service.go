package service

import (
	"context"
	"fmt"
	"time"

	"github.com/foodshare-next/internal/cache"
	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/repository"
)

const (
	dashboardCacheTTL     = 45 * time.Second
	dashboardCacheKey     = "dashboard:overview"
	dashboardTopDonorSize = 10
	dashboardRecentDays   = 7
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页的餐品、认领与用户数据。
type DashboardService struct {
	repo     repository.DashboardRepository
	userRepo repository.UserRepository
	cache    *cache.Store
	now      func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, userRepo repository.UserRepository, cacheStore *cache.Store) *DashboardService {
	return &DashboardService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cacheStore,
		now:      time.Now,
	}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	GeneratedAt        time.Time               `json:"generated_at"`
	ListingsByStatus   map[string]int64        `json:"listings_by_status"`
	ClaimsByStatus     map[string]int64        `json:"claims_by_status"`
	RecentClaims       map[string]int64        `json:"recent_claims"`
	UsersByRole        map[string]int64        `json:"users_by_role"`
	ClaimCompletionPct string                  `json:"claim_completion_pct"`
	TopDonors          []DashboardDonorRanking `json:"top_donors"`
}

// DashboardDonorRanking 商家排行
type DashboardDonorRanking struct {
	DonorID         uint    `json:"donor_id"`
	DisplayName     string  `json:"display_name"`
	CompletedClaims int64   `json:"completed_claims"`
	ReviewCount     int64   `json:"review_count"`
	AverageRating   float64 `json:"average_rating"`
}

// GetOverview 获取仪表盘总览，forceRefresh 时跳过缓存
func (s *DashboardService) GetOverview(ctx context.Context, forceRefresh bool) (*DashboardOverview, error) {
	if !forceRefresh {
		var cached DashboardOverview
		hit, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			logger.Warnw("dashboard_cache_get_failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	listings, err := s.repo.CountListingsByStatus()
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	claims, err := s.repo.CountClaimsByStatus(nil)
	if err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}
	since := s.now().AddDate(0, 0, -dashboardRecentDays)
	recent, err := s.repo.CountClaimsByStatus(&since)
	if err != nil {
		return nil, fmt.Errorf("count recent claims: %w", err)
	}
	users, err := s.userRepo.CountByRole()
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	rows, err := s.repo.GetTopDonors(dashboardTopDonorSize)
	if err != nil {
		return nil, fmt.Errorf("top donors: %w", err)
	}

	top := make([]DashboardDonorRanking, 0, len(rows))
	for _, row := range rows {
		top = append(top, DashboardDonorRanking{
			DonorID:         row.DonorID,
			DisplayName:     row.DisplayName,
			CompletedClaims: row.CompletedClaims,
			ReviewCount:     row.ReviewCount,
			AverageRating:   row.AverageRating,
		})
	}

	overview := &DashboardOverview{
		GeneratedAt:        s.now(),
		ListingsByStatus:   withStatusKeys(listings, constants.ListingStatusAvailable, constants.ListingStatusReserved, constants.ListingStatusClaimed, constants.ListingStatusExpired),
		ClaimsByStatus:     withStatusKeys(claims, constants.ClaimStatusPending, constants.ClaimStatusConfirmed, constants.ClaimStatusCompleted, constants.ClaimStatusCancelled),
		RecentClaims:       withStatusKeys(recent, constants.ClaimStatusPending, constants.ClaimStatusConfirmed, constants.ClaimStatusCompleted, constants.ClaimStatusCancelled),
		UsersByRole:        withStatusKeys(users, constants.RoleDonor, constants.RoleRecipient, constants.RoleAdmin),
		ClaimCompletionPct: completionRate(claims),
		TopDonors:          top,
	}
	if err := s.cache.SetJSON(ctx, dashboardCacheKey, overview, dashboardCacheTTL); err != nil {
		logger.Warnw("dashboard_cache_set_failed", "error", err)
	}
	return overview, nil
}

func withStatusKeys(counts map[string]int64, keys ...string) map[string]int64 {
	result := make(map[string]int64, len(keys)+len(counts))
	for _, key := range keys {
		result[key] = 0
	}
	for key, total := range counts {
		result[key] = total
	}
	return result
}

// completionRate 已完成 / (已完成 + 已取消)
func completionRate(claims map[string]int64) string {
	completed := claims[constants.ClaimStatusCompleted]
	closed := completed + claims[constants.ClaimStatusCancelled]
	if closed == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(completed)*100/float64(closed))
}
