package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CompositionMetrics records outcomes of multi-step composition operations.
type CompositionMetrics struct {
	duration  *prometheus.HistogramVec
	total     *prometheus.CounterVec
	rollbacks *prometheus.CounterVec
	transfers *prometheus.CounterVec
}

// NewCompositionMetrics registers the composition metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCompositionMetrics(reg prometheus.Registerer) *CompositionMetrics {
	if reg == nil {
		return &CompositionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "equilog_composition_duration_seconds",
		Help:    "Duration of composition operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "equilog_composition_total",
		Help: "Composition operations by outcome.",
	}, []string{"operation", "outcome"})
	rollbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "equilog_composition_rollbacks_total",
		Help: "Compensating deletes issued by composition operations.",
	}, []string{"operation", "outcome"})
	transfers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "equilog_ownership_transfer_actions_total",
		Help: "Per-stable decisions taken while transferring ownership.",
	}, []string{"action"})
	reg.MustRegister(duration, total, rollbacks, transfers)
	return &CompositionMetrics{
		duration:  duration,
		total:     total,
		rollbacks: rollbacks,
		transfers: transfers,
	}
}

// Observe records the outcome and duration of one operation run.
func (c *CompositionMetrics) Observe(operation string, success bool, elapsed time.Duration) {
	if c == nil || c.total == nil {
		return
	}
	op := normalizeLabel(operation)
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	c.total.WithLabelValues(op, outcome(success)).Inc()
}

// IncRollback counts a compensating delete and whether it succeeded.
func (c *CompositionMetrics) IncRollback(operation string, success bool) {
	if c == nil || c.rollbacks == nil {
		return
	}
	c.rollbacks.WithLabelValues(normalizeLabel(operation), outcome(success)).Inc()
}

// IncTransferAction counts a per-stable transfer decision such as
// "delete_stable", "keep_owners" or "promote".
func (c *CompositionMetrics) IncTransferAction(action string) {
	if c == nil || c.transfers == nil {
		return
	}
	c.transfers.WithLabelValues(normalizeLabel(action)).Inc()
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
