package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodshare-next/internal/cache"
	"github.com/foodshare-next/internal/config"
	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/models"
	"github.com/foodshare-next/internal/provider"
	"github.com/foodshare-next/internal/queue"
	"github.com/foodshare-next/internal/router"
	"github.com/foodshare-next/internal/worker"

	"gorm.io/gorm"
)

// OpenDatabase 打开数据库并完成迁移与默认管理员初始化
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		_ = models.CloseDB(db)
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := models.InitDefaultAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Warnw("default_admin_init_failed", "email", cfg.Admin.Email, "error", err)
	}
	return db, nil
}

// BuildRunner 构建服务运行器
// 数据库、缓存与队列客户端在 Runner 退出时关闭。
func BuildRunner(cfg *config.Config, db *gorm.DB, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if db == nil {
		return nil, errors.New("database is nil")
	}

	store := cache.NewStore(&cfg.Redis)
	if store.Enabled() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := store.Ping(pingCtx); err != nil {
			logger.Warnw("redis_ping_failed", "error", err)
		}
		cancel()
	}
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init queue client: %w", err)
	}

	container, err := provider.NewContainer(cfg, provider.Deps{
		DB:          db,
		Cache:       store,
		QueueClient: queueClient,
	})
	if err != nil {
		_ = queueClient.Close()
		_ = store.Close()
		return nil, err
	}

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
	}

	// 初始化 Worker 服务，过期扫描不依赖队列
	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				_ = queueClient.Close()
				_ = store.Close()
				return nil, err
			}
			services = append(services, workerService)
		} else {
			logger.Infow("worker_queue_disabled", "mode", mode)
		}
		services = append(services, worker.NewListingSweeper(container.ListingService, cfg.Listing.ExpireSweepInterval()))
	}

	if len(services) == 0 {
		_ = queueClient.Close()
		_ = store.Close()
		return nil, fmt.Errorf("no services initialized for mode %q", mode)
	}

	runner := NewRunner(services...)
	runner.OnShutdown("queue", queueClient.Close)
	runner.OnShutdown("redis", store.Close)
	runner.OnShutdown("database", func() error { return models.CloseDB(db) })
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	db, err := OpenDatabase(opts.Config)
	if err != nil {
		return err
	}
	runner, err := BuildRunner(opts.Config, db, opts.Mode)
	if err != nil {
		_ = models.CloseDB(db)
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
