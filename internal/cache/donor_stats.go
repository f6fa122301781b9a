package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/foodshare-next/internal/models"
)

func donorStatsKey(donorID uint) string {
	return fmt.Sprintf("donor:stats:%d", donorID)
}

// GetDonorStats 获取商家统计缓存
func (s *Store) GetDonorStats(ctx context.Context, donorID uint) (*models.DonorStats, bool, error) {
	var stats models.DonorStats
	hit, err := s.GetJSON(ctx, donorStatsKey(donorID), &stats)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &stats, true, nil
}

// SetDonorStats 写入商家统计缓存
func (s *Store) SetDonorStats(ctx context.Context, stats *models.DonorStats, ttl time.Duration) error {
	if stats == nil || stats.DonorID == 0 {
		return nil
	}
	return s.SetJSON(ctx, donorStatsKey(stats.DonorID), stats, ttl)
}

// DelDonorStats 删除商家统计缓存
func (s *Store) DelDonorStats(ctx context.Context, donorID uint) error {
	return s.Del(ctx, donorStatsKey(donorID))
}
