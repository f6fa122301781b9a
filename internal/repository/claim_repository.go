package repository

import (
	"errors"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeClaimStatuses = []string{constants.ClaimStatusPending, constants.ClaimStatusConfirmed}

// ClaimRepository 认领数据访问接口
type ClaimRepository interface {
	Create(claim *models.Claim) error
	GetByID(id uint) (*models.Claim, error)
	GetByIDForUpdate(id uint) (*models.Claim, error)
	GetByIDAndRecipient(id uint, recipientID uint) (*models.Claim, error)
	FindActiveByListingAndRecipient(listingID, recipientID uint) (*models.Claim, error)
	CountActiveByListing(listingID uint) (int64, error)
	ListByRecipient(filter ClaimListFilter) ([]models.Claim, int64, error)
	ListByDonor(filter ClaimListFilter) ([]models.Claim, int64, error)
	ListAdmin(filter ClaimListFilter) ([]models.Claim, int64, error)
	ListMissingCodeByDonor(donorID uint) ([]models.Claim, error)
	SetConfirmationCode(id uint, code string) (int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	MarkReviewed(id uint) (int64, error)
	CreateEvent(event *models.ClaimEvent) error
	ListEvents(claimID uint) ([]models.ClaimEvent, error)
	WithTx(tx *gorm.DB) *GormClaimRepository
}

// GormClaimRepository GORM 实现
type GormClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository 创建认领仓库
func NewClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// WithTx 绑定事务
func (r *GormClaimRepository) WithTx(tx *gorm.DB) *GormClaimRepository {
	if tx == nil {
		return r
	}
	return &GormClaimRepository{db: tx}
}

// Create 创建认领
func (r *GormClaimRepository) Create(claim *models.Claim) error {
	return r.db.Create(claim).Error
}

// GetByID 根据 ID 获取认领
func (r *GormClaimRepository) GetByID(id uint) (*models.Claim, error) {
	return r.first(r.db.Preload("Listing").Where("id = ?", id))
}

// GetByIDForUpdate 加行锁获取认领
func (r *GormClaimRepository) GetByIDForUpdate(id uint) (*models.Claim, error) {
	return r.first(r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

// GetByIDAndRecipient 获取领取人自己的认领
func (r *GormClaimRepository) GetByIDAndRecipient(id uint, recipientID uint) (*models.Claim, error) {
	return r.first(r.db.Preload("Listing").Where("id = ? AND recipient_id = ?", id, recipientID))
}

// FindActiveByListingAndRecipient 查询领取人在该餐品上进行中的认领
func (r *GormClaimRepository) FindActiveByListingAndRecipient(listingID, recipientID uint) (*models.Claim, error) {
	return r.first(r.db.Where("listing_id = ? AND recipient_id = ? AND status IN ?", listingID, recipientID, activeClaimStatuses))
}

func (r *GormClaimRepository) first(query *gorm.DB) (*models.Claim, error) {
	var claim models.Claim
	if err := query.First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

// CountActiveByListing 统计餐品上进行中的认领数
func (r *GormClaimRepository) CountActiveByListing(listingID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Claim{}).
		Where("listing_id = ? AND status IN ?", listingID, activeClaimStatuses).
		Count(&count).Error
	return count, err
}

// ListByRecipient 领取人的认领列表
func (r *GormClaimRepository) ListByRecipient(filter ClaimListFilter) ([]models.Claim, int64, error) {
	query := r.db.Model(&models.Claim{}).Where("recipient_id = ?", filter.RecipientID)
	return r.list(query, filter)
}

// ListByDonor 商家餐品收到的认领列表
func (r *GormClaimRepository) ListByDonor(filter ClaimListFilter) ([]models.Claim, int64, error) {
	query := r.db.Model(&models.Claim{}).
		Joins("JOIN listings ON listings.id = claims.listing_id").
		Where("listings.donor_id = ?", filter.DonorID)
	return r.list(query, filter)
}

// ListAdmin 管理端认领列表
func (r *GormClaimRepository) ListAdmin(filter ClaimListFilter) ([]models.Claim, int64, error) {
	query := r.db.Model(&models.Claim{})
	if filter.RecipientID != 0 {
		query = query.Where("claims.recipient_id = ?", filter.RecipientID)
	}
	return r.list(query, filter)
}

func (r *GormClaimRepository) list(query *gorm.DB, filter ClaimListFilter) ([]models.Claim, int64, error) {
	if filter.ListingID != 0 {
		query = query.Where("claims.listing_id = ?", filter.ListingID)
	}
	if filter.Status != "" {
		query = query.Where("claims.status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("claims.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("claims.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var claims []models.Claim
	if err := query.Preload("Listing").Order("claims.id DESC").Find(&claims).Error; err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// ListMissingCodeByDonor 查询商家餐品下缺少取件码的认领
func (r *GormClaimRepository) ListMissingCodeByDonor(donorID uint) ([]models.Claim, error) {
	var claims []models.Claim
	err := r.db.Model(&models.Claim{}).
		Joins("JOIN listings ON listings.id = claims.listing_id").
		Where("listings.donor_id = ? AND (claims.confirmation_code = '' OR claims.confirmation_code IS NULL)", donorID).
		Order("claims.id ASC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// SetConfirmationCode 仅在取件码为空时写入，返回受影响行数
func (r *GormClaimRepository) SetConfirmationCode(id uint, code string) (int64, error) {
	result := r.db.Model(&models.Claim{}).
		Where("id = ? AND (confirmation_code = '' OR confirmation_code IS NULL)", id).
		Updates(map[string]interface{}{
			"confirmation_code": code,
			"updated_at":        time.Now(),
		})
	return result.RowsAffected, result.Error
}

// UpdateStatus 更新认领状态
func (r *GormClaimRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	updates["updated_at"] = time.Now()
	return r.db.Model(&models.Claim{}).Where("id = ?", id).Updates(updates).Error
}

// MarkReviewed 标记已评价，已评价时返回 0
func (r *GormClaimRepository) MarkReviewed(id uint) (int64, error) {
	result := r.db.Model(&models.Claim{}).
		Where("id = ? AND reviewed = ?", id, false).
		Updates(map[string]interface{}{
			"reviewed":   true,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// CreateEvent 写入状态流转记录
func (r *GormClaimRepository) CreateEvent(event *models.ClaimEvent) error {
	return r.db.Create(event).Error
}

// ListEvents 获取认领的流转记录
func (r *GormClaimRepository) ListEvents(claimID uint) ([]models.ClaimEvent, error) {
	var events []models.ClaimEvent
	if err := r.db.Where("claim_id = ?", claimID).Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
