package provider

import (
	"fmt"

	"github.com/foodshare-next/internal/authz"
	"github.com/foodshare-next/internal/cache"
	"github.com/foodshare-next/internal/config"
	"github.com/foodshare-next/internal/metrics"
	"github.com/foodshare-next/internal/queue"
	"github.com/foodshare-next/internal/repository"
	"github.com/foodshare-next/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Deps 容器外部依赖，由启动流程创建并负责关闭
type Deps struct {
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client
	Registry    *prometheus.Registry
	Codes       *service.CodeGenerator
}

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client
	Registry    *prometheus.Registry

	// Metrics
	ClaimMetrics *metrics.ClaimMetrics
	JobMetrics   *metrics.JobMetrics

	// Repositories
	UserRepo      repository.UserRepository
	ListingRepo   repository.ListingRepository
	ClaimRepo     repository.ClaimRepository
	ReviewRepo    repository.ReviewRepository
	ContactRepo   repository.ContactMessageRepository
	DashboardRepo repository.DashboardRepository
	LoginLogRepo  repository.UserLoginLogRepository
	AuditLogRepo  repository.AuditLogRepository

	// Services
	AuthzService      *authz.Service
	UserAuthService   *service.UserAuthService
	ListingService    *service.ListingService
	ClaimService      *service.ClaimService
	ReviewService     *service.ReviewService
	ContactService    *service.ContactService
	DashboardService  *service.DashboardService
	ModerationService *service.ModerationService
	LoginLogService   *service.UserLoginLogService
	AuditService      *service.AuditService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, deps Deps) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if deps.DB == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewStore(nil)
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	c := &Container{
		Config:       cfg,
		DB:           deps.DB,
		Cache:        deps.Cache,
		QueueClient:  deps.QueueClient,
		Registry:     deps.Registry,
		ClaimMetrics: metrics.NewClaimMetrics(deps.Registry),
		JobMetrics:   metrics.NewJobMetrics(deps.Registry),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(deps.Codes); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ListingRepo = repository.NewListingRepository(db)
	c.ClaimRepo = repository.NewClaimRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.ContactRepo = repository.NewContactMessageRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
	c.LoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices(codes *service.CodeGenerator) error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		return fmt.Errorf("init authz: %w", err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return fmt.Errorf("bootstrap builtin roles: %w", err)
	}
	c.AuthzService = authzService

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.Cache)
	c.ListingService = service.NewListingService(c.DB, c.ListingRepo, c.ClaimRepo)
	c.ClaimService = service.NewClaimService(c.DB, c.ListingRepo, c.ClaimRepo, codes, c.QueueClient, c.ClaimMetrics)
	c.ReviewService = service.NewReviewService(
		c.DB,
		c.ReviewRepo,
		c.ClaimRepo,
		c.ListingRepo,
		c.UserRepo,
		c.Cache,
		c.QueueClient,
		c.Config.Listing.StatsCacheTTL(),
	)
	c.ClaimService.SetStatsScheduler(c.ReviewService)
	c.ContactService = service.NewContactService(c.ContactRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.UserRepo, c.Cache)
	c.ModerationService = service.NewModerationService(c.UserRepo, c.ListingService, c.Cache)
	c.LoginLogService = service.NewUserLoginLogService(c.LoginLogRepo, c.UserRepo)
	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	return nil
}
