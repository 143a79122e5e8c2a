package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every application metric for the triage service.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Triage pipeline
	TriageStageDuration HistogramVec
	AssignmentsTotal    CounterVec
	DuplicatesDetected  CounterVec
	SeverityScores      HistogramVec
	SLABreachesOpen     GaugeVec

	// Infrastructure
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	DBQueryDuration  HistogramVec
	EventsPublished  CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultStageDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	DefaultDBDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	SeverityScoreBuckets        = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
)

// NewAppMetrics registers all metrics and returns the populated set.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.TriageStageDuration = collector.RegisterHistogram("triage_stage_duration_seconds", "Triage stage duration", DefaultStageDurationBuckets, "stage")
	m.AssignmentsTotal = collector.RegisterCounter("assignments_total", "Jurisdiction assignments by method", "method")
	m.DuplicatesDetected = collector.RegisterCounter("duplicates_detected_total", "Complaints flagged as duplicates")
	m.SeverityScores = collector.RegisterHistogram("severity_score", "Severity score distribution", SeverityScoreBuckets)
	m.SLABreachesOpen = collector.RegisterGauge("sla_breaches_open", "Open complaints past their SLA deadline")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Events published to the bus", "topic", "status")

	return m
}

// ── Recording helpers ─────────────────────────────────────────────────────────

// RecordHTTPRequest records one completed HTTP request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveStageDuration records the elapsed time of one triage stage.
func (m *AppMetrics) ObserveStageDuration(stage string, d time.Duration) {
	m.TriageStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncAssignment counts one jurisdiction assignment by method.
func (m *AppMetrics) IncAssignment(method string) {
	m.AssignmentsTotal.WithLabelValues(method).Inc()
}

// IncDuplicateDetected counts one duplicate verdict.
func (m *AppMetrics) IncDuplicateDetected() {
	m.DuplicatesDetected.WithLabelValues().Inc()
}

// ObserveSeverity records one final severity score.
func (m *AppMetrics) ObserveSeverity(score float64) {
	m.SeverityScores.WithLabelValues().Observe(score)
}

// SetSLABreaches records the current count of breached open complaints.
func (m *AppMetrics) SetSLABreaches(n int) {
	m.SLABreachesOpen.WithLabelValues().Set(float64(n))
}

// IncCacheHit and IncCacheMiss count cache effectiveness per cache name.
func (m *AppMetrics) IncCacheHit(cache string)  { m.CacheHitsTotal.WithLabelValues(cache).Inc() }
func (m *AppMetrics) IncCacheMiss(cache string) { m.CacheMissesTotal.WithLabelValues(cache).Inc() }
