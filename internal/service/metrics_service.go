package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/unify-api/internal/models"
)

const metricsNamespace = "unify"

// plannerTally keeps the raw numbers behind the JSON summary; Prometheus
// collectors are not readable back without a registry gather.
type plannerTally struct {
	requests       atomic.Uint64
	requestNanos   atomic.Uint64
	cacheHits      atomic.Uint64
	cacheMisses    atomic.Uint64
	conflictChecks atomic.Uint64
	conflictsFound atomic.Uint64
}

// MetricsService owns the Prometheus registry of the planner API and a tally
// used for /metrics/summary.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler
	tally    plannerTally

	httpLatency   *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	cacheLatency  *prometheus.HistogramVec
	cacheHitRatio prometheus.Gauge
	conflicts     *prometheus.CounterVec
	conflictHits  prometheus.Histogram
	exports       *prometheus.CounterVec
}

// NewMetricsService builds a private registry so tests can create as many
// instances as they like.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &MetricsService{
		registry: registry,
		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route and status.",
		}, []string{"method", "route", "status"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Catalog cache lookups by result.",
		}, []string{"result"}),
		cacheLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operation_seconds",
			Help:      "Catalog cache round trips by operation.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"op"}),
		cacheHitRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "hit_ratio",
			Help:      "Hits over total catalog cache lookups.",
		}),
		conflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "planning",
			Name:      "conflict_checks_total",
			Help:      "Planning conflict checks by outcome.",
		}, []string{"outcome"}),
		conflictHits: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "planning",
			Name:      "conflicts_per_check",
			Help:      "Overlapping entries reported by a single check.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "planning",
			Name:      "exports_total",
			Help:      "Generated planning files by format.",
		}, []string{"format"}),
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Goroutines currently running.",
	}, func() float64 { return float64(runtime.NumGoroutine()) })

	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request. route is the gin route
// template, never the raw path, to keep label cardinality bounded.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpLatency.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.tally.requests.Add(1)
	m.tally.requestNanos.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a catalog cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
		m.tally.cacheHits.Add(1)
	} else {
		m.tally.cacheMisses.Add(1)
	}
	m.cacheLookups.WithLabelValues(result).Inc()
	m.cacheLatency.WithLabelValues("get").Observe(duration.Seconds())
	m.cacheHitRatio.Set(m.hitRatio())
}

// ObserveCacheWrite records a catalog cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.WithLabelValues("set").Observe(duration.Seconds())
}

// RecordConflictCheck counts a conflict check and how many entries it reported.
func (m *MetricsService) RecordConflictCheck(found int) {
	if m == nil {
		return
	}
	outcome := "clear"
	if found > 0 {
		outcome = "conflict"
	}
	m.conflicts.WithLabelValues(outcome).Inc()
	m.conflictHits.Observe(float64(found))
	m.tally.conflictChecks.Add(1)
	m.tally.conflictsFound.Add(uint64(found))
}

// RecordPlanningExport counts a generated planning file.
func (m *MetricsService) RecordPlanningExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// Snapshot summarises the tally for the JSON endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := m.tally.requests.Load()
	var avgMs float64
	if requests > 0 {
		avgMs = float64(m.tally.requestNanos.Load()) / float64(requests) / float64(time.Millisecond)
	}
	return models.SystemMetrics{
		CacheHitRatio:            m.hitRatio(),
		CacheHits:                m.tally.cacheHits.Load(),
		CacheMisses:              m.tally.cacheMisses.Load(),
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgMs,
		ConflictChecks:           m.tally.conflictChecks.Load(),
		ConflictsFound:           m.tally.conflictsFound.Load(),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func (m *MetricsService) hitRatio() float64 {
	hits := m.tally.cacheHits.Load()
	total := hits + m.tally.cacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
