// Package metrics provides Prometheus metrics for the admitboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the admitboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Dataset Metrics - The one-time load-and-join pipeline
	datasetLoadDuration prometheus.Histogram
	datasetLoadedAt     prometheus.Gauge
	datasetRows         prometheus.Gauge
	datasetPersons      prometheus.Gauge
	datasetLoadErrors   prometheus.Counter

	// View Metrics - Per-view computation performance
	viewRequests *prometheus.CounterVec
	viewDuration *prometheus.HistogramVec
	viewErrors   *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "admitboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Dataset Metrics - the pipeline runs once per process, so these are
	// load-time observations plus static gauges
	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_load_duration_milliseconds",
		Help:      "Duration of the read-join-derive pipeline in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.datasetLoadedAt = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_loaded_timestamp_seconds",
		Help:      "Unix time of the last successful dataset load",
	})

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_rows",
		Help:      "Number of joined records held in memory",
	})

	m.datasetPersons = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_persons",
		Help:      "Number of distinct applicants in the joined table",
	})

	m.datasetLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_load_errors_total",
		Help:      "Total number of failed dataset loads (fatal at startup)",
	})

	// View Metrics - each user interaction recomputes one view
	m.viewRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "view_requests_total",
			Help:      "Total number of view computations by view name",
		},
		[]string{"view"},
	)

	m.viewDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "view_duration_milliseconds",
			Help:      "View computation duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"view"},
	)

	m.viewErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "view_errors_total",
			Help:      "Total number of rejected or failed view computations",
		},
		[]string{"view"},
	)

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the registry metrics are registered on. The health
// endpoint serves this registry via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// ObserveDatasetLoad records a successful dataset load.
func ObserveDatasetLoad(durationMs float64, rows, persons int) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetLoadDuration.Observe(durationMs)
	globalManager.datasetLoadedAt.SetToCurrentTime()
	globalManager.datasetRows.Set(float64(rows))
	globalManager.datasetPersons.Set(float64(persons))
}

// RecordDatasetLoadError counts a failed dataset load.
func RecordDatasetLoadError() {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetLoadErrors.Inc()
}

// RecordViewRequest counts a view computation.
func RecordViewRequest(view string) {
	if !globalManager.enabled {
		return
	}
	globalManager.viewRequests.WithLabelValues(view).Inc()
}

// RecordViewDuration records a view computation latency in milliseconds.
func RecordViewDuration(view string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.viewDuration.WithLabelValues(view).Observe(durationMs)
}

// RecordViewError counts a rejected or failed view computation.
func RecordViewError(view string) {
	if !globalManager.enabled {
		return
	}
	globalManager.viewErrors.WithLabelValues(view).Inc()
}

// RecordHTTPRequest counts an HTTP request by endpoint, method and status.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the current heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}
