// Package metrics provides Prometheus metrics for the mawsim analytics service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Report Metrics
	reportsComputed *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	recordsExcluded *prometheus.CounterVec
	reportErrors    *prometheus.CounterVec

	// Store Metrics - fetch boundary
	storeFetchLatency   *prometheus.HistogramVec
	storeFetchErrors    *prometheus.CounterVec
	storeRecords        *prometheus.GaugeVec
	storeReloads        prometheus.Counter
	storeReloadDuration prometheus.Histogram
	storeLastReloadUnix prometheus.Gauge

	// Circuit Breaker Metrics
	breakerState        *prometheus.GaugeVec
	breakerStateChanges *prometheus.CounterVec

	// Calendar Metrics
	calendarPeriods prometheus.Gauge
	calendarYears   prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter

	// Worker Metrics
	workerCount      prometheus.Gauge
	workerActive     prometheus.Gauge
	workerQueueDepth prometheus.Gauge
	workerQueueCap   prometheus.Gauge
	workerJobLatency prometheus.Histogram
	workerJobErrors  prometheus.Counter

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mawsim",
		subsystem:        "analytics",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) labels() prometheus.Labels {
	if len(m.customLabels) == 0 {
		return nil
	}
	return prometheus.Labels(m.customLabels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	msBuckets := []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

	// Report Metrics
	m.reportsComputed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("reports_computed_total"),
		Help: "Total number of reports computed by report name",
	}, []string{"report"})

	m.reportDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name:    m.name("report_duration_milliseconds"),
		Help:    "Report computation time in milliseconds, fetch excluded",
		Buckets: msBuckets,
	}, []string{"report"})

	m.recordsExcluded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("records_excluded_total"),
		Help: "Records left out of date-keyed groupings for lacking a usable date",
	}, []string{"report"})

	m.reportErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("report_errors_total"),
		Help: "Report failures by report name and error kind",
	}, []string{"report", "kind"})

	// Store Metrics
	m.storeFetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name:    m.name("store_fetch_latency_milliseconds"),
		Help:    "Storage fetch latency in milliseconds by collection",
		Buckets: msBuckets,
	}, []string{"collection"})

	m.storeFetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("store_fetch_errors_total"),
		Help: "Storage fetch failures by collection",
	}, []string{"collection"})

	m.storeRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("store_records"),
		Help: "Records held by the in-memory store by collection",
	}, []string{"collection"})

	m.storeReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("store_reloads_total"),
		Help: "Number of fixture dataset reloads",
	})

	m.storeReloadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name:    m.name("store_reload_duration_milliseconds"),
		Help:    "Time to read and publish a fixture dataset",
		Buckets: msBuckets,
	})

	m.storeLastReloadUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("store_last_reload_unix"),
		Help: "Unix time of the last successful dataset reload",
	})

	// Circuit Breaker Metrics
	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("circuit_breaker_state"),
		Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
	}, []string{"name"})

	m.breakerStateChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("circuit_breaker_state_changes_total"),
		Help: "Circuit breaker transitions by target state",
	}, []string{"name", "to"})

	// Calendar Metrics
	m.calendarPeriods = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("calendar_periods"),
		Help: "Number of periods in the loaded calendar table",
	})

	m.calendarYears = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("calendar_years"),
		Help: "Number of years covered by the loaded calendar table",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("http_requests_total"),
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name:    m.name("http_request_duration_milliseconds"),
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRateLimited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("http_rate_limited_total"),
		Help: "Requests rejected by the per-client rate limiter",
	})

	// Worker Metrics
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("worker_count"),
		Help: "Number of report workers",
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("worker_active_count"),
		Help: "Number of workers currently running a job",
	})

	m.workerQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("worker_queue_depth"),
		Help: "Jobs waiting for a worker",
	})

	m.workerQueueCap = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("worker_queue_capacity"),
		Help: "Capacity of the worker job queue",
	})

	m.workerJobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name:    m.name("worker_job_latency_milliseconds"),
		Help:    "Time a worker spent on one job",
		Buckets: msBuckets,
	})

	m.workerJobErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("worker_job_errors_total"),
		Help: "Jobs that returned an error or panicked",
	})

	// Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("errors_by_component_total"),
		Help: "Errors by component and type",
	}, []string{"component", "error_type"})

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("system_memory_usage_bytes"),
		Help: "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name: m.name("system_goroutine_count"),
		Help: "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.labels(),
		Name:    m.name("system_gc_pause_time_milliseconds"),
		Help:    "GC pause time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Report Metrics Functions.

// RecordReport counts a computed report and its duration.
func RecordReport(report string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.reportsComputed.WithLabelValues(report).Inc()
	globalManager.reportDuration.WithLabelValues(report).Observe(durationMs)
}

// RecordRecordsExcluded adds n incomplete records for report.
func RecordRecordsExcluded(report string, n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.recordsExcluded.WithLabelValues(report).Add(float64(n))
}

// RecordReportError counts a failed report.
func RecordReportError(report, kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.reportErrors.WithLabelValues(report, kind).Inc()
}

// Store Metrics Functions.

// RecordStoreFetch records a storage fetch latency.
func RecordStoreFetch(collection string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeFetchLatency.WithLabelValues(collection).Observe(latencyMs)
}

// RecordStoreFetchError counts a failed storage fetch.
func RecordStoreFetchError(collection string) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeFetchErrors.WithLabelValues(collection).Inc()
}

// UpdateStoreRecords sets the record count of a collection.
func UpdateStoreRecords(collection string, count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeRecords.WithLabelValues(collection).Set(float64(count))
}

// RecordStoreReload records a completed dataset reload.
func RecordStoreReload(durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.storeReloads.Inc()
	globalManager.storeReloadDuration.Observe(durationMs)
	globalManager.storeLastReloadUnix.Set(float64(time.Now().Unix()))
}

// Circuit Breaker Metrics Functions.

// UpdateBreakerState sets the numeric state of breaker name.
func UpdateBreakerState(name string, state int) {
	if !globalManager.enabled {
		return
	}
	globalManager.breakerState.WithLabelValues(name).Set(float64(state))
}

// RecordBreakerStateChange counts a breaker transition.
func RecordBreakerStateChange(name, to string) {
	if !globalManager.enabled {
		return
	}
	globalManager.breakerStateChanges.WithLabelValues(name, to).Inc()
}

// Calendar Metrics Functions.

// UpdateCalendar sets the size of the loaded calendar table.
func UpdateCalendar(years, periods int) {
	if !globalManager.enabled {
		return
	}
	globalManager.calendarYears.Set(float64(years))
	globalManager.calendarPeriods.Set(float64(periods))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method string, statusCode int, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	code := strconv.Itoa(statusCode)
	globalManager.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(durationMs)
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited() {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRateLimited.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerActive.Set(float64(count))
}

// UpdateWorkerQueue sets the job queue depth and capacity.
func UpdateWorkerQueue(depth, capacity int) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerQueueDepth.Set(float64(depth))
	globalManager.workerQueueCap.Set(float64(capacity))
}

// RecordWorkerJob records the latency of a job.
func RecordWorkerJob(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.workerJobLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if !globalManager.enabled {
		return
	}
	globalManager.workerJobErrors.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns how often gauge updaters should run.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
