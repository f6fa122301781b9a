package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foodshare-next/internal/authz"
	"github.com/foodshare-next/internal/config"
	adminhandlers "github.com/foodshare-next/internal/http/handlers/admin"
	publichandlers "github.com/foodshare-next/internal/http/handlers/public"
	"github.com/foodshare-next/internal/http/response"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fs"
	}
	redisClient := c.Cache.Client()
	loginRule := NewRateLimitRule(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit, "error.login_rate_limited")
	claimRule := NewRateLimitRule(fmt.Sprintf("%s:rate:claim", redisPrefix), cfg.Security.ClaimRateLimit, "error.claim_rate_limited")

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 公开接口
		apiV1.GET("/listings", publicHandler.GetListings)
		apiV1.GET("/listings/:id", publicHandler.GetListing)
		apiV1.GET("/donors/:id/stats", publicHandler.GetDonorStats)
		apiV1.GET("/donors/:id/reviews", publicHandler.GetDonorReviews)
		apiV1.POST("/contact", publicHandler.SubmitContactMessage)

		// 登录用户接口，角色权限由 casbin 路由策略控制
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(c.UserAuthService))
		user.Use(RoleRBACMiddleware(c.AuthzService))
		{
			user.GET("/me", publicHandler.GetCurrentUser)
			user.PUT("/me", publicHandler.UpdateCurrentUser)
			user.GET("/me/login-logs", publicHandler.GetMyLoginLogs)
			user.GET("/claims/:id/events", publicHandler.GetClaimEvents)
			user.GET("/claims/:id/review", publicHandler.GetClaimReview)

			// 商家
			user.POST("/listings", publicHandler.CreateListing)
			user.PUT("/listings/:id", publicHandler.UpdateListing)
			user.DELETE("/listings/:id", publicHandler.DeleteListing)
			user.GET("/donor/listings", publicHandler.GetDonorListings)
			user.GET("/donor/claims", publicHandler.GetDonorClaims)
			user.PUT("/claims/:id/status", publicHandler.UpdateClaimStatus)

			// 领取人
			user.POST("/listings/:id/claim", RateLimitMiddleware(redisClient, claimRule, KeyByUserID), publicHandler.ClaimListing)
			user.GET("/recipient/claims", publicHandler.GetRecipientClaims)
			user.GET("/recipient/claims/:id", publicHandler.GetRecipientClaim)
			user.POST("/reservations/:id/cancel", publicHandler.CancelReservation)
			user.POST("/claims/:id/complete", publicHandler.CompletePickup)
			user.POST("/claims/:id/review", publicHandler.CreateReview)

			// 管理端
			admin := user.Group("/admin")
			{
				admin.GET("/dashboard", adminHandler.GetDashboardOverview)
				admin.GET("/users", adminHandler.GetAdminUsers)
				admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
				admin.GET("/claims", adminHandler.GetAdminClaims)
				admin.DELETE("/listings/:id", adminHandler.DeleteListing)
				admin.GET("/contact-messages", adminHandler.GetContactMessages)
				admin.PUT("/contact-messages/:id/handled", adminHandler.MarkContactMessageHandled)
				admin.GET("/login-logs", adminHandler.GetLoginLogs)
				admin.GET("/audit-logs", adminHandler.GetAuditLogs)

				admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
				admin.GET("/authz/policies", adminHandler.GetAuthzRolePolicies)
				admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				admin.GET("/authz/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildPermissionCatalog(r))
				})
			}
		}
	}

	if cfg.Metrics.Enabled {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog 列出可授权的接口，供管理端配置角色策略
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/") || strings.HasPrefix(item.Path, "/api/v1/auth/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
