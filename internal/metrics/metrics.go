package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 认领操作结果标签
const (
	ResultSuccess     = "success"
	ResultConflict    = "conflict"
	ResultNotFound    = "not_found"
	ResultForbidden   = "forbidden"
	ResultInvalidCode = "invalid_code"
	ResultInvalid     = "invalid"
	ResultError       = "error"
)

// ClaimMetrics 认领流程指标
type ClaimMetrics struct {
	operations  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	codes       prometheus.Counter
}

// NewClaimMetrics 在给定 registerer 上注册认领指标，reg 为 nil 时返回空实现
func NewClaimMetrics(reg prometheus.Registerer) *ClaimMetrics {
	if reg == nil {
		return &ClaimMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "claim_operations_total",
		Help: "Claim lifecycle operations by outcome.",
	}, []string{"operation", "result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_status_transitions_total",
		Help: "Listing status transitions applied by the claim engine.",
	}, []string{"from", "to"})
	codes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "claim_confirmation_codes_backfilled_total",
		Help: "Confirmation codes generated for claims that had none.",
	})
	reg.MustRegister(operations, transitions, codes)
	return &ClaimMetrics{
		operations:  operations,
		transitions: transitions,
		codes:       codes,
	}
}

// ObserveOperation 记录一次认领操作结果
func (m *ClaimMetrics) ObserveOperation(operation, result string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// ObserveTransition 记录餐品状态流转
func (m *ClaimMetrics) ObserveTransition(from, to string) {
	if m == nil || m.transitions == nil || from == to {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// AddBackfilledCodes 记录补发取件码数量
func (m *ClaimMetrics) AddBackfilledCodes(n int) {
	if m == nil || m.codes == nil || n <= 0 {
		return
	}
	m.codes.Add(float64(n))
}

// JobMetrics 后台任务指标
type JobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewJobMetrics 注册后台任务指标
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worker_job_duration_seconds",
		Help:    "Duration of background jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_job_success_total",
		Help: "Successful background job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_job_failure_total",
		Help: "Failed background job executions.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &JobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// Observe 记录任务耗时与结果
func (m *JobMetrics) Observe(job string, started time.Time, err error) {
	if m == nil || m.duration == nil {
		return
	}
	label := normalizeLabel(job)
	m.duration.WithLabelValues(label).Observe(time.Since(started).Seconds())
	if err != nil {
		m.failure.WithLabelValues(label).Inc()
		return
	}
	m.success.WithLabelValues(label).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
