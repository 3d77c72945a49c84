// Package metrics exposes Prometheus metrics for the finch scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "finch"
)

// Manager owns every metric series the service publishes.
type Manager struct {
	registry *prometheus.Registry

	// Job lifecycle
	jobsEnqueued   prometheus.Counter
	jobsDuplicate  prometheus.Counter
	jobsCompleted  prometheus.Counter
	jobsFailed     prometheus.Counter
	jobsRetried    prometheus.Counter
	scoreValues    prometheus.Histogram
	queueDepth     prometheus.Gauge
	leaseConflicts prometheus.Counter

	// Metrics source
	fetchLatency prometheus.Histogram
	fetchErrors  *prometheus.CounterVec

	// Result store
	storeHits   prometheus.Counter
	storeMisses prometheus.Counter

	// Worker pipeline
	pipelineLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func newManager() *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		jobsEnqueued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_enqueued_total",
			Help:      "Scoring jobs admitted to the pending queue.",
		}),
		jobsDuplicate: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_duplicate_total",
			Help:      "Requests rejected because the handle was already queued or running.",
		}),
		jobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Scoring jobs that reached the done state.",
		}),
		jobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_failed_total",
			Help:      "Scoring jobs that exhausted their retry budget.",
		}),
		jobsRetried: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_retried_total",
			Help:      "Scoring jobs returned to the queue after a retryable failure.",
		}),
		scoreValues: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_values",
			Help:      "Distribution of computed account scores.",
			Buckets:   []float64{-4, -2, 0, 1, 2, 3, 4, 5, 6, 8, 11},
		}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Current number of handles awaiting scoring.",
		}),
		leaseConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lease_conflicts_total",
			Help:      "Scheduler ticks that found the worker lease held.",
		}),
		fetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_latency_ms",
			Help:      "Profile metrics fetch latency in milliseconds.",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 12),
		}),
		fetchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Profile metrics fetch failures by kind.",
		}, []string{"kind"}),
		storeHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_hits_total",
			Help:      "Score lookups answered from the result store.",
		}),
		storeMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_misses_total",
			Help:      "Score lookups with no stored record.",
		}),
		pipelineLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_latency_ms",
			Help:      "End-to-end fetch, score and persist latency in milliseconds.",
			Buckets:   prometheus.ExponentialBuckets(100, 2, 12),
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status.",
		}, []string{"endpoint", "method", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request duration in milliseconds.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"endpoint", "method"}),
	}
}

var defaultManager = newManager()

// GetRegistry returns the registry backing the default manager, for promhttp.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}

// Job lifecycle.
func RecordJobEnqueued()  { defaultManager.jobsEnqueued.Inc() }
func RecordJobDuplicate() { defaultManager.jobsDuplicate.Inc() }
func RecordJobCompleted() { defaultManager.jobsCompleted.Inc() }
func RecordJobFailed()    { defaultManager.jobsFailed.Inc() }
func RecordJobRetried()   { defaultManager.jobsRetried.Inc() }

// RecordScore observes a computed score value.
func RecordScore(score int) { defaultManager.scoreValues.Observe(float64(score)) }

// UpdateQueueDepth sets the pending queue gauge.
func UpdateQueueDepth(n int) { defaultManager.queueDepth.Set(float64(n)) }

// RecordLeaseConflict counts a tick skipped on lease contention.
func RecordLeaseConflict() { defaultManager.leaseConflicts.Inc() }

// Metrics source.
func RecordFetchLatency(ms float64) { defaultManager.fetchLatency.Observe(ms) }
func RecordFetchError(kind string)  { defaultManager.fetchErrors.WithLabelValues(kind).Inc() }

// Result store.
func RecordStoreHit()  { defaultManager.storeHits.Inc() }
func RecordStoreMiss() { defaultManager.storeMisses.Inc() }

// RecordPipelineLatency observes one full worker pipeline run.
func RecordPipelineLatency(ms float64) { defaultManager.pipelineLatency.Observe(ms) }

// HTTP.
func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}
