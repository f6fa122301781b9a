package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/foodshare-next/internal/config"
)

func TestNewClaimStatusChangedTaskCarriesPayload(t *testing.T) {
	task, err := NewClaimStatusChangedTask(ClaimStatusChangedPayload{ClaimID: 3, ListingID: 5, DonorID: 7, Status: "completed"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskClaimStatusChanged {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var got ClaimStatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &got); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if got.ClaimID != 3 || got.DonorID != 7 || got.Status != "completed" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueClaimStatusChanged(context.Background(), ClaimStatusChangedPayload{ClaimID: 1}); err != nil {
		t.Fatalf("disabled client must not fail: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("expected default concurrency 10, got %d", cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("expected default queue weight, got %+v", cfg.Queues)
	}
}
