package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records runs of the scheduled maintenance jobs.
type JobMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	purged   *prometheus.CounterVec
}

// NewJobMetrics registers the job metrics. A nil registerer yields a no-op recorder.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "equilog_job_duration_seconds",
		Help:    "Duration of maintenance jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "equilog_job_runs_total",
		Help: "Maintenance job runs by outcome.",
	}, []string{"job", "outcome"})
	purged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "equilog_job_rows_purged_total",
		Help: "Rows removed by maintenance jobs.",
	}, []string{"job"})
	reg.MustRegister(duration, runs, purged)
	return &JobMetrics{duration: duration, runs: runs, purged: purged}
}

// ObserveRun records one job run.
func (m *JobMetrics) ObserveRun(job string, success bool, elapsed time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	name := normalizeLabel(job)
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	m.runs.WithLabelValues(name, outcome(success)).Inc()
}

// AddPurged counts rows deleted by a job.
func (m *JobMetrics) AddPurged(job string, rows int64) {
	if m == nil || m.purged == nil || rows <= 0 {
		return
	}
	m.purged.WithLabelValues(normalizeLabel(job)).Add(float64(rows))
}
