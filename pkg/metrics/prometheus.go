package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Assistant metrics
	AssistantRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclescope_assistant_runs_total",
			Help: "Assistant runs by domain and outcome",
		},
		[]string{"domain", "outcome"}, // outcome: completed|failed|timeout|malformed|error
	)

	AssistantRunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyclescope_assistant_run_duration_seconds",
			Help:    "Time from thread creation to recovered analysis",
			Buckets: []float64{5, 10, 20, 30, 60, 90, 120, 180, 240, 300},
		},
		[]string{"domain"},
	)

	AssistantPollAttempts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyclescope_assistant_poll_attempts",
			Help:    "Status polls needed before a run reached a terminal state",
			Buckets: []float64{1, 2, 4, 8, 12, 20, 30, 45, 60},
		},
		[]string{"domain"},
	)

	// Batch metrics
	BatchDomains = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclescope_batch_domains_total",
			Help: "Per-domain batch outcomes",
		},
		[]string{"domain", "status"}, // status: success|error
	)

	BatchLastRun = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cyclescope_batch_last_run_timestamp",
			Help: "Unix timestamp of the last finished batch",
		},
	)

	// Storage metrics
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclescope_store_operations_total",
			Help: "Persistence operations by name and status",
		},
		[]string{"operation", "status"}, // status: success|error|unavailable
	)

	RetentionDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cyclescope_retention_deleted_total",
			Help: "Rows removed by the retention sweep",
		},
	)

	// Job metrics
	JobExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclescope_job_executions_total",
			Help: "Scheduled job executions",
		},
		[]string{"job", "status"},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyclescope_job_duration_seconds",
			Help:    "Scheduled job duration in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 600, 1200, 1800},
		},
		[]string{"job"},
	)
)

var initOnce sync.Once

// Init registers every collector with the default registry.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(AssistantRuns)
		prometheus.MustRegister(AssistantRunDuration)
		prometheus.MustRegister(AssistantPollAttempts)

		prometheus.MustRegister(BatchDomains)
		prometheus.MustRegister(BatchLastRun)

		prometheus.MustRegister(StoreOperations)
		prometheus.MustRegister(RetentionDeleted)

		prometheus.MustRegister(JobExecutions)
		prometheus.MustRegister(JobDuration)
	})
}

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSince records the elapsed seconds since start on h.
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// StatusLabel maps an error to the success|error label pair.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
