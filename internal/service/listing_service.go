package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultExpireBatchSize = 200

// ListingService 餐品发布与维护
type ListingService struct {
	db          *gorm.DB
	listingRepo repository.ListingRepository
	claimRepo   repository.ClaimRepository
	now         func() time.Time
}

// NewListingService 创建餐品服务
func NewListingService(db *gorm.DB, listingRepo repository.ListingRepository, claimRepo repository.ClaimRepository) *ListingService {
	return &ListingService{
		db:          db,
		listingRepo: listingRepo,
		claimRepo:   claimRepo,
		now:         time.Now,
	}
}

// CreateListingInput 发布餐品参数
type CreateListingInput struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Quantity    int             `json:"quantity" validate:"required,min=1,max=10000"`
	Price       decimal.Decimal `json:"price"`
	PickupAt    time.Time       `json:"pickup_at" validate:"required"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	Address     string          `json:"address" validate:"required,max=255"`
	City        string          `json:"city" validate:"max=100"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url,max=500"`
}

// UpdateListingInput 餐品局部更新参数
// 仅包含可编辑字段，状态不在其中。
type UpdateListingInput struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string          `json:"description" validate:"omitnil,max=5000"`
	Quantity    *int             `json:"quantity" validate:"omitnil,min=1,max=10000"`
	Price       *decimal.Decimal `json:"price"`
	PickupAt    *time.Time       `json:"pickup_at"`
	ExpiresAt   *time.Time       `json:"expires_at"`
	Address     *string          `json:"address" validate:"omitnil,min=1,max=255"`
	City        *string          `json:"city" validate:"omitnil,max=100"`
	ImageURL    *string          `json:"image_url" validate:"omitnil,max=500"`
}

// trimmed 去除文本字段首尾空白，返回新的参数副本
func (in UpdateListingInput) trimmed() UpdateListingInput {
	in.Title = trimStringPtr(in.Title)
	in.Description = trimStringPtr(in.Description)
	in.Address = trimStringPtr(in.Address)
	in.City = trimStringPtr(in.City)
	in.ImageURL = trimStringPtr(in.ImageURL)
	return in
}

func trimStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

// fields 转换为白名单字段集合，调用前需先 trimmed
func (in UpdateListingInput) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Quantity != nil {
		fields["quantity"] = *in.Quantity
	}
	if in.Price != nil {
		fields["price"] = models.NewMoneyFromDecimal(*in.Price)
	}
	if in.PickupAt != nil {
		fields["pickup_at"] = *in.PickupAt
	}
	if in.ExpiresAt != nil {
		fields["expires_at"] = *in.ExpiresAt
	}
	if in.Address != nil {
		fields["address"] = *in.Address
	}
	if in.City != nil {
		fields["city"] = *in.City
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	return fields
}

// Create 商家发布餐品，初始状态为 available
func (s *ListingService) Create(ctx context.Context, donorID uint, input CreateListingInput) (*models.Listing, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Address = strings.TrimSpace(input.Address)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Price.IsNegative() {
		return nil, fieldError("price", "must not be negative")
	}
	if input.ExpiresAt != nil && input.ExpiresAt.Before(input.PickupAt) {
		return nil, fieldError("expires_at", "must not be before pickup_at")
	}

	listing := &models.Listing{
		DonorID:     donorID,
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		Quantity:    input.Quantity,
		Price:       models.NewMoneyFromDecimal(input.Price),
		PickupAt:    input.PickupAt,
		ExpiresAt:   input.ExpiresAt,
		Address:     input.Address,
		City:        strings.TrimSpace(input.City),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Status:      constants.ListingStatusAvailable,
	}
	if err := s.listingRepo.WithTx(s.db.WithContext(ctx)).Create(listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	logger.Infow("listing_created", "listing_id", listing.ID, "donor_id", donorID)
	return listing, nil
}

// Update 商家编辑餐品，只写入白名单字段
func (s *ListingService) Update(ctx context.Context, listingID, donorID uint, input UpdateListingInput) (*models.Listing, error) {
	input = input.trimmed()
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, fieldError("price", "must not be negative")
	}
	if input.ImageURL != nil && *input.ImageURL != "" {
		if err := inputValidator.Var(*input.ImageURL, "url"); err != nil {
			return nil, fieldError("image_url", "must be a valid url")
		}
	}

	var updated *models.Listing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.listingRepo.WithTx(tx)
		listing, err := repo.GetByIDForUpdate(listingID)
		if err != nil {
			return err
		}
		if listing == nil {
			return ErrListingNotFound
		}
		if listing.DonorID != donorID {
			return ErrNotListingDonor
		}
		pickupAt := listing.PickupAt
		if input.PickupAt != nil {
			pickupAt = *input.PickupAt
		}
		if input.ExpiresAt != nil && input.ExpiresAt.Before(pickupAt) {
			return fieldError("expires_at", "must not be before pickup_at")
		}
		if err := repo.UpdateFields(listingID, input.fields()); err != nil {
			return err
		}
		updated, err = repo.GetByID(listingID)
		return err
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}
	logger.Infow("listing_updated", "listing_id", listingID, "donor_id", donorID)
	return updated, nil
}

// Delete 商家删除餐品
// 存在进行中的认领时拒绝删除，其余认领与流转记录级联删除。
func (s *ListingService) Delete(ctx context.Context, listingID, donorID uint) error {
	return s.delete(ctx, listingID, func(listing *models.Listing, repos claimTxRepos) error {
		if listing.DonorID != donorID {
			return ErrNotListingDonor
		}
		active, err := repos.claims.CountActiveByListing(listingID)
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrListingHasActiveClaim
		}
		return nil
	})
}

// ForceDelete 管理员删除餐品，连同全部认领一并删除
func (s *ListingService) ForceDelete(ctx context.Context, listingID uint) error {
	return s.delete(ctx, listingID, nil)
}

func (s *ListingService) delete(ctx context.Context, listingID uint, check func(*models.Listing, claimTxRepos) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := claimTxRepos{
			listings: s.listingRepo.WithTx(tx),
			claims:   s.claimRepo.WithTx(tx),
		}
		listing, err := repos.listings.GetByIDForUpdate(listingID)
		if err != nil {
			return err
		}
		if listing == nil {
			return ErrListingNotFound
		}
		if check != nil {
			if err := check(listing, repos); err != nil {
				return err
			}
		}
		return repos.listings.DeleteWithClaims(listingID)
	})
	if err != nil {
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("delete listing: %w", err)
	}
	logger.Infow("listing_deleted", "listing_id", listingID)
	return nil
}

// Get 获取餐品详情
func (s *ListingService) Get(listingID uint) (*models.Listing, error) {
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// ListPublic 公开餐品列表，未指定状态时只返回可认领餐品
func (s *ListingService) ListPublic(filter repository.ListingListFilter) ([]models.Listing, int64, error) {
	filter.DonorID = 0
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status == "" {
		filter.Status = constants.ListingStatusAvailable
	}
	return s.listingRepo.List(filter)
}

// ListByDonor 商家自己的餐品列表
func (s *ListingService) ListByDonor(donorID uint, filter repository.ListingListFilter) ([]models.Listing, int64, error) {
	filter.DonorID = donorID
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.listingRepo.List(filter)
}

// ExpireOverdue 将超过有效期且仍可认领的餐品标记为过期
func (s *ListingService) ExpireOverdue(ctx context.Context, limit int) (int64, error) {
	if limit <= 0 {
		limit = defaultExpireBatchSize
	}
	affected, err := s.listingRepo.WithTx(s.db.WithContext(ctx)).ExpireAvailableBefore(s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("expire listings: %w", err)
	}
	if affected > 0 {
		logger.Infow("listing_expired_batch", "count", affected)
	}
	return affected, nil
}
