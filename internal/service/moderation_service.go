package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodshare-next/internal/cache"
	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"
)

// ModerationService 管理员审核操作
type ModerationService struct {
	userRepo       repository.UserRepository
	listingService *ListingService
	cache          *cache.Store
}

// NewModerationService 创建审核服务
func NewModerationService(userRepo repository.UserRepository, listingService *ListingService, cacheStore *cache.Store) *ModerationService {
	return &ModerationService{
		userRepo:       userRepo,
		listingService: listingService,
		cache:          cacheStore,
	}
}

// ListUsers 用户列表
func (s *ModerationService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	filter.Role = strings.ToLower(strings.TrimSpace(filter.Role))
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.userRepo.List(filter)
}

// SetUserStatus 启用或禁用用户，禁用后已签发的 Token 立即失效
func (s *ModerationService) SetUserStatus(ctx context.Context, adminID, userID uint, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrUserStatusInvalid
	}
	if adminID == userID {
		return nil, ErrRoleNotAllowed
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role == constants.RoleAdmin {
		return nil, ErrRoleNotAllowed
	}
	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}
	if err := s.cache.DelUserAuthState(ctx, userID); err != nil {
		logger.Warnw("auth_state_cache_del_failed", "user_id", userID, "error", err)
	}
	logger.Infow("user_status_changed", "admin_id", adminID, "user_id", userID, "status", status)

	updated, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// DeleteListing 管理员删除餐品
func (s *ModerationService) DeleteListing(ctx context.Context, adminID, listingID uint) error {
	if err := s.listingService.ForceDelete(ctx, listingID); err != nil {
		return err
	}
	logger.Infow("listing_removed_by_admin", "admin_id", adminID, "listing_id", listingID)
	return nil
}
