package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/foodshare-next/internal/logger"
	"github.com/foodshare-next/internal/provider"
	"github.com/foodshare-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskClaimStatusChanged, c.observed(queue.TaskClaimStatusChanged, c.handleClaimStatusChanged))
	mux.HandleFunc(queue.TaskDonorStatsRefresh, c.observed(queue.TaskDonorStatsRefresh, c.handleDonorStatsRefresh))
}

// observed 记录任务耗时与结果
func (c *Consumer) observed(job string, handler asynq.HandlerFunc) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		started := time.Now()
		err := handler(ctx, task)
		c.JobMetrics.Observe(job, started, err)
		return err
	}
}

func (c *Consumer) handleClaimStatusChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_claim_status_changed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ClaimStatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_claim_status_changed_unmarshal_failed", "error", err)
		return err
	}
	if payload.ClaimID == 0 || payload.DonorID == 0 {
		logger.Debugw("worker_claim_status_changed_skip_invalid_payload", "claim_id", payload.ClaimID, "donor_id", payload.DonorID)
		return nil
	}

	// 商家汇总由认领完成时推送的 donor_stats_refresh 任务负责
	if err := c.Cache.Del(ctx, dashboardOverviewCacheKey); err != nil {
		logger.Warnw("worker_dashboard_cache_del_failed", "claim_id", payload.ClaimID, "error", err)
	}
	logger.Debugw("worker_claim_status_changed_done",
		"claim_id", payload.ClaimID,
		"status", payload.Status,
		"listing_status", payload.ListingStatus,
	)
	return nil
}

func (c *Consumer) handleDonorStatsRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_donor_stats_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DonorStatsRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_donor_stats_refresh_unmarshal_failed", "error", err)
		return err
	}
	if payload.DonorID == 0 {
		logger.Debugw("worker_donor_stats_refresh_skip_invalid_payload")
		return nil
	}
	stats, err := c.ReviewService.RefreshDonorStats(ctx, payload.DonorID)
	if err != nil {
		logger.Warnw("worker_donor_stats_refresh_failed", "donor_id", payload.DonorID, "error", err)
		return err
	}
	logger.Debugw("worker_donor_stats_refreshed",
		"donor_id", payload.DonorID,
		"review_count", stats.ReviewCount,
		"completed_claims", stats.CompletedClaims,
	)
	return nil
}
