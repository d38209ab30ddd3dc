package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// rowBuckets covers the usual top-10 result plus tie overflow.
var rowBuckets = []float64{0, 1, 5, 10, 11, 15, 20, 50, 100}

// Manager holds all Prometheus metrics for the ranking service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Ranking
	observationsRecorded prometheus.Counter
	observationsIgnored  prometheus.Counter
	rowsRejected         *prometheus.CounterVec
	rankingsComputed     prometheus.Counter
	rankingRows          prometheus.Histogram
	rankingDuration      prometheus.Histogram
	rosterSize           prometheus.Gauge
	uploadsStaged        prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Metrics are registered on the
// configured registry, which defaults to prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hiscore",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.observationsRecorded = auto.NewCounter(m.counterOpts(
		"observations_recorded_total", "Score rows fed into an aggregator"))
	m.observationsIgnored = auto.NewCounter(m.counterOpts(
		"observations_ignored_total", "Score rows for players missing from the roster"))
	m.rowsRejected = auto.NewCounterVec(m.counterOpts(
		"rows_rejected_total", "Input files rejected, by format error reason"),
		[]string{"file", "reason"})
	m.rankingsComputed = auto.NewCounter(m.counterOpts(
		"rankings_computed_total", "Rankings computed successfully"))
	m.rankingRows = auto.NewHistogram(m.histogramOpts(
		"ranking_rows", "Rows emitted per ranking", rowBuckets))
	m.rankingDuration = auto.NewHistogram(m.histogramOpts(
		"ranking_duration_milliseconds", "Time to read both files and compute a ranking", m.histogramBuckets))
	m.rosterSize = auto.NewGauge(m.gaugeOpts(
		"roster_size", "Players in the most recently loaded roster"))
	m.uploadsStaged = auto.NewCounter(m.counterOpts(
		"uploads_staged_total", "Uploaded files written to temp storage"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
}

// RecordObservation counts a score row that reached an aggregator.
func RecordObservation() {
	globalManager.observationsRecorded.Inc()
}

// RecordObservationIgnored counts a score row for an unknown player.
func RecordObservationIgnored() {
	globalManager.observationsIgnored.Inc()
}

// RecordRowRejected counts an input file rejected for reason.
func RecordRowRejected(file, reason string) {
	globalManager.rowsRejected.WithLabelValues(file, reason).Inc()
}

// RecordRanking records a successful ranking with its size and duration.
func RecordRanking(rows int, durationMs float64) {
	globalManager.rankingsComputed.Inc()
	globalManager.rankingRows.Observe(float64(rows))
	globalManager.rankingDuration.Observe(durationMs)
}

// UpdateRosterSize sets the size of the last loaded roster.
func UpdateRosterSize(count int) {
	globalManager.rosterSize.Set(float64(count))
}

// RecordUploadStaged counts a staged upload.
func RecordUploadStaged() {
	globalManager.uploadsStaged.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// CollectSystemMetrics refreshes the system gauges once.
func CollectSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	UpdateSystemMemoryUsage(ms.HeapInuse)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// RunSystemCollector refreshes the system gauges until ctx is done.
func RunSystemCollector(ctx context.Context) {
	CollectSystemMetrics()
	t := time.NewTicker(globalManager.refreshInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			CollectSystemMetrics()
		}
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
