package repository

import (
	"time"

	"github.com/foodshare-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	CountListingsByStatus() (map[string]int64, error)
	CountClaimsByStatus(since *time.Time) (map[string]int64, error)
	GetTopDonors(limit int) ([]DashboardDonorRankingRow, error)
}

// DashboardDonorRankingRow 商家排行原始行
type DashboardDonorRankingRow struct {
	DonorID         uint
	DisplayName     string
	CompletedClaims int64
	ReviewCount     int64
	AverageRating   float64
}

// GormDashboardRepository GORM 实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

type statusCountRow struct {
	Status string
	Total  int64
}

// CountListingsByStatus 按状态统计餐品
func (r *GormDashboardRepository) CountListingsByStatus() (map[string]int64, error) {
	var rows []statusCountRow
	if err := r.db.Model(&models.Listing{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return statusRowsToMap(rows), nil
}

// CountClaimsByStatus 按状态统计认领
func (r *GormDashboardRepository) CountClaimsByStatus(since *time.Time) (map[string]int64, error) {
	query := r.db.Model(&models.Claim{}).Select("status, COUNT(*) AS total")
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var rows []statusCountRow
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return statusRowsToMap(rows), nil
}

// GetTopDonors 按完成认领数排行
func (r *GormDashboardRepository) GetTopDonors(limit int) ([]DashboardDonorRankingRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []DashboardDonorRankingRow
	err := r.db.Table("donor_stats").
		Select("donor_stats.donor_id, users.display_name, donor_stats.completed_claims, donor_stats.review_count, donor_stats.average_rating").
		Joins("JOIN users ON users.id = donor_stats.donor_id").
		Order("donor_stats.completed_claims DESC, donor_stats.donor_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func statusRowsToMap(rows []statusCountRow) map[string]int64 {
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result
}
