package service

import (
	"errors"
	"strings"
	"time"

	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"
)

// UserLoginLogService 登录日志服务
type UserLoginLogService struct {
	repo     repository.UserLoginLogRepository
	userRepo repository.UserRepository
}

// NewUserLoginLogService 创建登录日志服务
// userRepo 用于将失败的登录尝试归属到对应账号，可为空。
func NewUserLoginLogService(repo repository.UserLoginLogRepository, userRepo repository.UserRepository) *UserLoginLogService {
	return &UserLoginLogService{repo: repo, userRepo: userRepo}
}

// RecordUserLoginInput 登录日志记录输入
type RecordUserLoginInput struct {
	UserID    uint
	Email     string
	Err       error
	ClientIP  string
	UserAgent string
	RequestID string
}

// LoginFailReason 登录错误归类为失败原因，nil 返回空串
func LoginFailReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return constants.LoginLogFailReasonInvalidCredentials
	case errors.Is(err, ErrUserDisabled):
		return constants.LoginLogFailReasonUserDisabled
	default:
		return constants.LoginLogFailReasonInternalError
	}
}

// Record 记录一次登录尝试
func (s *UserLoginLogService) Record(input RecordUserLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if normalized, err := normalizeEmail(email); err == nil {
		email = normalized
	}
	userID := input.UserID
	if userID == 0 && s.userRepo != nil && email != "" {
		if user, err := s.userRepo.GetByEmail(email); err == nil && user != nil {
			userID = user.ID
		}
	}
	status := constants.LoginLogStatusSuccess
	if input.Err != nil {
		status = constants.LoginLogStatusFailed
	}

	return s.repo.Create(&models.UserLoginLog{
		UserID:     userID,
		Email:      email,
		Status:     status,
		FailReason: LoginFailReason(input.Err),
		ClientIP:   strings.TrimSpace(input.ClientIP),
		UserAgent:  strings.TrimSpace(input.UserAgent),
		RequestID:  strings.TrimSpace(input.RequestID),
		CreatedAt:  time.Now(),
	})
}

// ListForAdmin 管理端查询登录日志
func (s *UserLoginLogService) ListForAdmin(filter repository.UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.UserLoginLog{}, 0, nil
	}
	filter.Email = strings.ToLower(strings.TrimSpace(filter.Email))
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.repo.List(filter)
}

// ListByUser 用户查询自己的登录日志
func (s *UserLoginLogService) ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil || userID == 0 {
		return []models.UserLoginLog{}, 0, nil
	}
	return s.repo.List(repository.UserLoginLogListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}
