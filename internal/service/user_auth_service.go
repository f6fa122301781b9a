package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/foodshare-next/internal/cache"
	"github.com/foodshare-next/internal/config"
	"github.com/foodshare-next/internal/constants"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultUserJWTExpireHours = 72

// UserAuthService 用户注册、登录与鉴权
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	cache    *cache.Store
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, cacheStore *cache.Store) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		cache:    cacheStore,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=200"`
	Password    string `json:"password" validate:"required,max=128"`
	DisplayName string `json:"display_name" validate:"max=100"`
	Role        string `json:"role" validate:"required,oneof=donor recipient"`
	Phone       string `json:"phone" validate:"max=40"`
	Address     string `json:"address" validate:"max=255"`
	City        string `json:"city" validate:"max=100"`
}

// UpdateProfileInput 个人资料局部更新
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name" validate:"omitnil,max=100"`
	Phone       *string `json:"phone" validate:"omitnil,max=40"`
	Address     *string `json:"address" validate:"omitnil,max=255"`
	City        *string `json:"city" validate:"omitnil,max=100"`
	Locale      *string `json:"locale" validate:"omitnil,oneof=zh-CN en-US"`
}

// AuthResult 登录结果
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Register 注册商家或领取人账号
func (s *UserAuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))
	if input.Role != "" && input.Role != constants.RoleDonor && input.Role != constants.RoleRecipient {
		return nil, ErrRoleInvalid
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = resolveNicknameFromEmail(email)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hashed),
		DisplayName:  displayName,
		Role:         input.Role,
		Status:       constants.UserStatusActive,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		Locale:       s.defaultLocale(),
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, err
	}
	s.storeAuthState(ctx, user)
	logger.Infow("user_registered", "user_id", user.ID, "role", user.Role)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Login 邮箱密码登录
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.userRepo.TouchLogin(user.ID, now); err != nil {
		logger.Warnw("user_touch_login_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	s.storeAuthState(ctx, user)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GenerateUserJWT 签发用户 Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = defaultUserJWTExpireHours
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseUserJWT 解析用户 Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ResolveAuthUser 校验 Token 对应用户当前是否仍然有效
// 优先读取缓存快照，未命中时回表并回填缓存。
func (s *UserAuthService) ResolveAuthUser(ctx context.Context, claims *UserJWTClaims) (*cache.UserAuthState, error) {
	if claims == nil || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	state, hit, err := s.cache.GetUserAuthState(ctx, claims.UserID)
	if err != nil {
		logger.Warnw("auth_state_cache_get_failed", "user_id", claims.UserID, "error", err)
	}
	if !hit || state == nil {
		user, err := s.userRepo.GetByID(claims.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrTokenInvalid
		}
		state = cache.BuildUserAuthState(user)
		if err := s.cache.SetUserAuthState(ctx, state); err != nil {
			logger.Warnw("auth_state_cache_set_failed", "user_id", claims.UserID, "error", err)
		}
	}
	if strings.ToLower(state.Status) == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	return state, nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新个人资料
func (s *UserAuthService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if input.DisplayName != nil {
		fields["display_name"] = strings.TrimSpace(*input.DisplayName)
	}
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		fields["address"] = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		fields["city"] = strings.TrimSpace(*input.City)
	}
	if input.Locale != nil {
		fields["locale"] = strings.TrimSpace(*input.Locale)
	}
	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateProfile(userID, fields); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.GetUserByID(userID)
}

// InvalidateAuthState 清理用户鉴权缓存
func (s *UserAuthService) InvalidateAuthState(ctx context.Context, userID uint) {
	if err := s.cache.DelUserAuthState(ctx, userID); err != nil {
		logger.Warnw("auth_state_cache_del_failed", "user_id", userID, "error", err)
	}
}

func (s *UserAuthService) storeAuthState(ctx context.Context, user *models.User) {
	if err := s.cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user)); err != nil {
		logger.Warnw("auth_state_cache_set_failed", "user_id", user.ID, "error", err)
	}
}

func (s *UserAuthService) defaultLocale() string {
	if s.cfg != nil && strings.TrimSpace(s.cfg.App.DefaultLocale) != "" {
		return s.cfg.App.DefaultLocale
	}
	return "zh-CN"
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveNicknameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}

// IsAuthError 判断是否为鉴权类错误
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) || errors.Is(err, ErrUserDisabled)
}
