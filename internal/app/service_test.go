package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped bool
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *stubService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *stubService) wasStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func TestRunnerStopsAllServicesAndClosesResources(t *testing.T) {
	failing := &stubService{name: "failing", startErr: errors.New("boom")}
	blocking := &stubService{name: "blocking", block: true}
	runner := NewRunner(failing, blocking)

	var order []string
	runner.OnShutdown("queue", func() error {
		order = append(order, "queue")
		return nil
	})
	runner.OnShutdown("database", func() error {
		order = append(order, "database")
		return errors.New("already closed")
	})

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected start error to surface, got %v", err)
	}
	if !failing.wasStopped() || !blocking.wasStopped() {
		t.Fatalf("all services should be stopped")
	}
	if len(order) != 2 || order[0] != "queue" || order[1] != "database" {
		t.Fatalf("unexpected close order: %v", order)
	}
}

func TestRunnerCanceledContextIsCleanExit(t *testing.T) {
	blocking := &stubService{name: "blocking", block: true}
	runner := NewRunner(blocking)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled context should exit cleanly, got %v", err)
	}
}

func TestBuildRunnerRequiresDependencies(t *testing.T) {
	if _, err := BuildRunner(nil, nil, ModeAll); err == nil {
		t.Fatalf("expected error for nil config")
	}
	if err := RunWithOptions(nil, Options{}); err == nil {
		t.Fatalf("expected error for nil runner")
	}
	if got := normalizeOptions(Options{}); got.Mode != ModeAll || got.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}
