package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestClaimMetricsCountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClaimMetrics(reg)
	m.ObserveOperation("claim_listing", ResultSuccess)
	m.ObserveOperation("claim_listing", ResultConflict)
	m.ObserveOperation("claim_listing", ResultConflict)
	m.ObserveTransition("available", "reserved")
	m.ObserveTransition("reserved", "reserved")
	m.AddBackfilledCodes(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := counterValue(mfs, "claim_operations_total", map[string]string{"operation": "claim_listing", "result": ResultConflict}); err != nil || got != 2 {
		t.Fatalf("expected 2 conflicts, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "listing_status_transitions_total", map[string]string{"from": "available", "to": "reserved"}); err != nil || got != 1 {
		t.Fatalf("expected 1 transition, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "claim_confirmation_codes_backfilled_total", nil); err != nil || got != 3 {
		t.Fatalf("expected 3 backfilled codes, got %f err=%v", got, err)
	}
}

func TestJobMetricsSplitsSuccessAndFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	m.Observe("listing_expire", time.Now().Add(-10*time.Millisecond), nil)
	m.Observe("listing_expire", time.Now(), errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := counterValue(mfs, "worker_job_success_total", map[string]string{"job": "listing_expire"}); err != nil || got != 1 {
		t.Fatalf("expected success=1, got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "worker_job_failure_total", map[string]string{"job": "listing_expire"}); err != nil || got != 1 {
		t.Fatalf("expected failure=1, got %f err=%v", got, err)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var claim *ClaimMetrics
	claim.ObserveOperation("x", ResultError)
	NewClaimMetrics(nil).ObserveTransition("a", "b")
	var job *JobMetrics
	job.Observe("x", time.Now(), nil)
}

func counterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matchesLabels(metric.GetLabel(), labels) {
				return metric.GetCounter().GetValue(), nil
			}
		}
		return 0, fmt.Errorf("metric %q has no series for %v", name, labels)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}

func matchesLabels(pairs []*dto.LabelPair, labels map[string]string) bool {
	for key, value := range labels {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == key && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
