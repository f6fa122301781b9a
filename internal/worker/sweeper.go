package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/service"
)

// ListingExpirer 过期餐品处理
type ListingExpirer interface {
	ExpireOverdue(ctx context.Context, limit int) (int64, error)
}

// Sweeper 定时将超期餐品标记为过期，不依赖队列
type Sweeper struct {
	expirer  ListingExpirer
	interval time.Duration
	batch    int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper 创建过期扫描服务
func NewSweeper(expirer ListingExpirer, interval time.Duration, batch int) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		expirer:  expirer,
		interval: interval,
		batch:    batch,
	}
}

// NewListingSweeper 基于餐品服务创建扫描服务
func NewListingSweeper(listingService *service.ListingService, interval time.Duration) *Sweeper {
	return NewSweeper(listingService, interval, 0)
}

// Name 服务名称
func (s *Sweeper) Name() string {
	return "listing-sweeper"
}

// Start 启动扫描循环，阻塞直到 ctx 结束或 Stop 被调用
func (s *Sweeper) Start(ctx context.Context) error {
	if s == nil || s.expirer == nil {
		return errors.New("sweeper not initialized")
	}
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return errors.New("sweeper already started")
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	defer close(done)
	s.runLoop(loopCtx)
	return nil
}

// Stop 停止扫描
func (s *Sweeper) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SweepOnce 执行一次过期扫描
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	started := time.Now()
	affected, err := s.expirer.ExpireOverdue(ctx, s.batch)
	if err != nil {
		logger.Warnw("worker_listing_expire_failed", "error", err)
		return 0, err
	}
	if affected > 0 {
		logger.Infow("worker_listing_expire_done",
			"count", affected,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	}
	return affected, nil
}

func (s *Sweeper) runLoop(ctx context.Context) {
	_, _ = s.SweepOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Debugw("worker_listing_expire_loop_stopped")
			return
		case <-ticker.C:
			_, _ = s.SweepOnce(ctx)
		}
	}
}
