package repository

import (
	"errors"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingRepository 餐品数据访问接口
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id uint) (*models.Listing, error)
	GetByIDForUpdate(id uint) (*models.Listing, error)
	List(filter ListingListFilter) ([]models.Listing, int64, error)
	UpdateFields(id uint, fields map[string]interface{}) error
	TransitionStatus(id uint, from []string, to string) (int64, error)
	ExpireAvailableBefore(now time.Time, limit int) (int64, error)
	DeleteWithClaims(id uint) error
	WithTx(tx *gorm.DB) *GormListingRepository
}

// GormListingRepository GORM 实现
type GormListingRepository struct {
	db *gorm.DB
}

// NewListingRepository 创建餐品仓库
func NewListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormListingRepository) WithTx(tx *gorm.DB) *GormListingRepository {
	if tx == nil {
		return r
	}
	return &GormListingRepository{db: tx}
}

// Create 创建餐品
func (r *GormListingRepository) Create(listing *models.Listing) error {
	return r.db.Create(listing).Error
}

// GetByID 根据 ID 获取餐品
func (r *GormListingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// GetByIDForUpdate 加行锁获取餐品（SQLite 下锁子句被忽略）
func (r *GormListingRepository) GetByIDForUpdate(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// List 餐品列表
func (r *GormListingRepository) List(filter ListingListFilter) ([]models.Listing, int64, error) {
	query := r.db.Model(&models.Listing{})
	if filter.DonorID != 0 {
		query = query.Where("donor_id = ?", filter.DonorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Search != "" {
		condition, argCount := buildLikeCondition(r.db, "title", "description")
		query = query.Where(condition, repeatLikeArgs(searchLikePattern(filter.Search), argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var listings []models.Listing
	if err := query.Order("id DESC").Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// UpdateFields 按字段更新餐品
// 调用方负责白名单过滤，这里再次剔除 status 以保证状态只由认领流程修改。
func (r *GormListingRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for key, value := range fields {
		if key == "status" || key == "id" || key == "donor_id" {
			continue
		}
		updates[key] = value
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.db.Model(&models.Listing{}).Where("id = ?", id).Updates(updates).Error
}

// TransitionStatus 条件更新餐品状态，返回受影响行数
// 仅当当前状态属于 from 时才会更新，用于防止并发下的状态覆盖。
func (r *GormListingRepository) TransitionStatus(id uint, from []string, to string) (int64, error) {
	result := r.db.Model(&models.Listing{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// ExpireAvailableBefore 将已过期的可认领餐品标记为 expired
// 已被预留的餐品不受影响。
func (r *GormListingRepository) ExpireAvailableBefore(now time.Time, limit int) (int64, error) {
	var ids []uint
	query := r.db.Model(&models.Listing{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", constants.ListingStatusAvailable, now).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Listing{}).
		Where("id IN ? AND status = ?", ids, constants.ListingStatusAvailable).
		Updates(map[string]interface{}{
			"status":     constants.ListingStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// DeleteWithClaims 删除餐品并级联删除其认领与流转记录
func (r *GormListingRepository) DeleteWithClaims(id uint) error {
	if err := r.db.Where("listing_id = ?", id).Delete(&models.ClaimEvent{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("listing_id = ?", id).Delete(&models.Claim{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Listing{}, id).Error
}
