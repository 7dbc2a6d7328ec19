// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/boxarrow/pkg/observability"
)

const namespace = "boxarrow"

// Metrics holds the collectors behind every hook.
type Metrics struct {
	resolves        *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	resolveNodes    prometheus.Histogram
	stageDuration   *prometheus.HistogramVec
	optimizeRounds  *prometheus.CounterVec
	optimizeScore   prometheus.Gauge
	fallbacks       prometheus.Counter
	cacheOps        *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		resolves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolves_total",
			Help:      "Schematic resolutions by outcome.",
		}, []string{"outcome"}),
		resolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Wall time of a full resolution.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		resolveNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_nodes",
			Help:      "Nodes per resolved schematic.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each resolution stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"stage", "outcome"}),
		optimizeRounds: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimize_rounds_total",
			Help:      "Optimizer rounds by whether a candidate was accepted.",
		}, []string{"accepted"}),
		optimizeScore: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "optimize_last_score",
			Help:      "Defect score after the most recent optimizer round.",
		}),
		fallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routing_fallbacks_total",
			Help:      "Orthogonal links drawn straight because no path existed.",
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnResolveStart(_ context.Context, nodes int) {
	m.resolveNodes.Observe(float64(nodes))
}

func (m *Metrics) OnResolveComplete(_ context.Context, d time.Duration, err error) {
	m.resolves.WithLabelValues(outcome(err)).Inc()
	m.resolveDuration.Observe(d.Seconds())
}

func (m *Metrics) OnStage(_ context.Context, stage string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage, outcome(err)).Observe(d.Seconds())
}

func (m *Metrics) OnOptimizeRound(_ context.Context, _ int, score float64, accepted bool) {
	m.optimizeRounds.WithLabelValues(strconv.FormatBool(accepted)).Inc()
	m.optimizeScore.Set(score)
}

func (m *Metrics) OnRoutingFallback(context.Context, string) {
	m.fallbacks.Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
