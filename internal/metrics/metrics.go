// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/badgeboard/pkg/observability"
)

// Metrics names as constants for consistency.
const (
	MetricEditorCommitsTotal     = "badgeboard_editor_commits_total"
	MetricEditorHistoryTotal     = "badgeboard_editor_history_navigations_total"
	MetricEditorEvictedTotal     = "badgeboard_editor_history_evicted_total"
	MetricEditorRejectedTotal    = "badgeboard_editor_rejected_total"
	MetricEditorDocumentElements = "badgeboard_editor_document_elements"
	MetricBadgesResolvedTotal    = "badgeboard_badges_resolved_total"
	MetricBadgeResolveDuration   = "badgeboard_badge_resolve_duration_seconds"
	MetricMissingAttributesTotal = "badgeboard_missing_attributes_total"
	MetricCacheRequestsTotal     = "badgeboard_cache_requests_total"
	MetricCacheWrittenBytes      = "badgeboard_cache_written_bytes_total"
	MetricHTTPRequestsTotal      = "badgeboard_http_requests_total"
	MetricHTTPRequestDuration    = "badgeboard_http_request_duration_seconds"
)

// Metrics contains Prometheus collectors for editor, export, cache and
// HTTP events. All operations are thread-safe.
type Metrics struct {
	commits         *prometheus.CounterVec
	history         *prometheus.CounterVec
	evicted         prometheus.Counter
	rejected        *prometheus.CounterVec
	elements        prometheus.Gauge
	resolved        *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	missing         *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	cacheBytes      prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEditorCommitsTotal,
				Help: "Total number of history entries committed by label",
			},
			[]string{"label"},
		),
		history: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEditorHistoryTotal,
				Help: "Total number of undo and redo steps",
			},
			[]string{"direction"},
		),
		evicted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricEditorEvictedTotal,
				Help: "Total number of history entries dropped by the depth bound",
			},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEditorRejectedTotal,
				Help: "Total number of editor operations rejected by error code",
			},
			[]string{"op", "code"},
		),
		elements: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricEditorDocumentElements,
				Help: "Element count of the most recently committed document",
			},
		),
		resolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricBadgesResolvedTotal,
				Help: "Total number of badges resolved, by completeness",
			},
			[]string{"complete"},
		),
		resolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricBadgeResolveDuration,
				Help:    "Histogram of per-attendee badge resolution time in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
			},
		),
		missing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricMissingAttributesTotal,
				Help: "Total number of tokens resolved to the placeholder, by token",
			},
			[]string{"token"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCacheRequestsTotal,
				Help: "Total number of cache lookups by key type and result",
			},
			[]string{"key_type", "result"},
		),
		cacheBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricCacheWrittenBytes,
				Help: "Total bytes written to the preview cache",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
			},
			[]string{"method", "route"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.commits, m.history, m.evicted, m.rejected, m.elements,
		m.resolved, m.resolveDuration, m.missing,
		m.cacheRequests, m.cacheBytes,
		m.httpRequests, m.httpDuration,
	}
}

// Install registers m as the process-wide editor, export and cache hooks.
func (m *Metrics) Install() {
	observability.SetEditorHooks(m)
	observability.SetExportHooks(m)
	observability.SetCacheHooks(m)
}

// OnCommit implements observability.EditorHooks.
func (m *Metrics) OnCommit(label string, elementCount int) {
	m.commits.WithLabelValues(label).Inc()
	m.elements.Set(float64(elementCount))
}

// OnUndo implements observability.EditorHooks.
func (m *Metrics) OnUndo(string) { m.history.WithLabelValues("undo").Inc() }

// OnRedo implements observability.EditorHooks.
func (m *Metrics) OnRedo(string) { m.history.WithLabelValues("redo").Inc() }

// OnEvict implements observability.EditorHooks.
func (m *Metrics) OnEvict(count int) { m.evicted.Add(float64(count)) }

// OnRejected implements observability.EditorHooks.
func (m *Metrics) OnRejected(op, code string) { m.rejected.WithLabelValues(op, code).Inc() }

// OnResolve implements observability.ExportHooks.
func (m *Metrics) OnResolve(_ context.Context, missing int, d time.Duration) {
	m.resolved.WithLabelValues(strconv.FormatBool(missing == 0)).Inc()
	m.resolveDuration.Observe(d.Seconds())
}

// OnMissingAttribute implements observability.ExportHooks.
func (m *Metrics) OnMissingAttribute(_ context.Context, token string) {
	m.missing.WithLabelValues(token).Inc()
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, _ string, size int) {
	m.cacheBytes.Add(float64(size))
}

// Middleware records request counts and latency labelled by chi route
// pattern, so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var (
	_ observability.EditorHooks = (*Metrics)(nil)
	_ observability.ExportHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
)
