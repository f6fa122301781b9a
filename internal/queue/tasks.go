package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// TaskClaimStatusChanged 认领状态变更任务
	TaskClaimStatusChanged = "claim:status_changed"
	// TaskDonorStatsRefresh 商家统计刷新任务
	TaskDonorStatsRefresh = "donor:stats_refresh"
)

// ClaimStatusChangedPayload 认领状态变更任务载荷
type ClaimStatusChangedPayload struct {
	ClaimID       uint   `json:"claim_id"`
	ListingID     uint   `json:"listing_id"`
	DonorID       uint   `json:"donor_id"`
	RecipientID   uint   `json:"recipient_id"`
	Status        string `json:"status"`
	ListingStatus string `json:"listing_status"`
}

// DonorStatsRefreshPayload 商家统计刷新任务载荷
type DonorStatsRefreshPayload struct {
	DonorID uint `json:"donor_id"`
}

// NewClaimStatusChangedTask 创建认领状态变更任务
func NewClaimStatusChangedTask(payload ClaimStatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskClaimStatusChanged, body, asynq.MaxRetry(5)), nil
}

// NewDonorStatsRefreshTask 创建商家统计刷新任务
func NewDonorStatsRefreshTask(payload DonorStatsRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDonorStatsRefresh, body), nil
}
