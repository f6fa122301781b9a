package repository

import (
	"errors"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository 评价与商家汇总数据访问接口
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByClaimID(claimID uint) (*models.Review, error)
	ListByDonor(donorID uint, page, pageSize int) ([]models.Review, int64, error)
	AggregateDonor(donorID uint) (DonorAggregateRow, error)
	UpsertStats(stats *models.DonorStats) error
	GetStats(donorID uint) (*models.DonorStats, error)
	WithTx(tx *gorm.DB) *GormReviewRepository
}

// DonorAggregateRow 商家评分原始聚合
type DonorAggregateRow struct {
	ReviewCount     int64
	RatingSum       int64
	CompletedClaims int64
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReviewRepository) WithTx(tx *gorm.DB) *GormReviewRepository {
	if tx == nil {
		return r
	}
	return &GormReviewRepository{db: tx}
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// GetByClaimID 按认领获取评价
func (r *GormReviewRepository) GetByClaimID(claimID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("claim_id = ?", claimID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// ListByDonor 商家收到的评价
func (r *GormReviewRepository) ListByDonor(donorID uint, page, pageSize int) ([]models.Review, int64, error) {
	query := r.db.Model(&models.Review{}).Where("donor_id = ?", donorID)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)
	var reviews []models.Review
	if err := query.Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// AggregateDonor 从明细重新聚合商家评分与完成数
func (r *GormReviewRepository) AggregateDonor(donorID uint) (DonorAggregateRow, error) {
	var row DonorAggregateRow
	if err := r.db.Model(&models.Review{}).
		Select("COUNT(*) AS review_count, COALESCE(SUM(rating), 0) AS rating_sum").
		Where("donor_id = ?", donorID).
		Scan(&row).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Claim{}).
		Joins("JOIN listings ON listings.id = claims.listing_id").
		Where("listings.donor_id = ? AND claims.status = ?", donorID, constants.ClaimStatusCompleted).
		Count(&row.CompletedClaims).Error; err != nil {
		return row, err
	}
	return row, nil
}

// UpsertStats 写入商家汇总
func (r *GormReviewRepository) UpsertStats(stats *models.DonorStats) error {
	if stats.UpdatedAt.IsZero() {
		stats.UpdatedAt = time.Now()
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "donor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"review_count", "rating_sum", "average_rating", "completed_claims", "updated_at"}),
	}).Create(stats).Error
}

// GetStats 获取商家汇总，不存在时返回零值
func (r *GormReviewRepository) GetStats(donorID uint) (*models.DonorStats, error) {
	var stats models.DonorStats
	if err := r.db.Where("donor_id = ?", donorID).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.DonorStats{DonorID: donorID, AverageRating: decimal.Zero}, nil
		}
		return nil, err
	}
	return &stats, nil
}
