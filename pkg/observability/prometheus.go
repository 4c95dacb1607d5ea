package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements every hook interface on a private registry.
type Prometheus struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	triples       prometheus.Histogram
	nodes         prometheus.Histogram
	partial       prometheus.Counter

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewPrometheus creates the collectors under the given namespace and
// registers them, together with the Go runtime and process collectors, on a
// fresh registry.
func NewPrometheus(namespace string) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "status"}),
		triples: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parsed_triples",
			Help:      "Triples per parsed document",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes per built graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		partial: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_partial_total",
			Help:      "Layouts stopped early by cancellation",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes by key type",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Requests currently being served",
		}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.stageDuration, p.triples, p.nodes, p.partial,
		p.cacheEvents, p.cacheBytes,
		p.httpRequests, p.httpDuration, p.httpInFlight,
	)
	return p
}

// Install registers p as the global pipeline, cache and HTTP hooks.
func (p *Prometheus) Install() {
	SetPipelineHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// PipelineHooks
// =============================================================================

func (p *Prometheus) OnParseStart(context.Context, int) {}

func (p *Prometheus) OnParseComplete(_ context.Context, triples int, d time.Duration, err error) {
	p.stageDuration.WithLabelValues("parse", status(err)).Observe(d.Seconds())
	if err == nil {
		p.triples.Observe(float64(triples))
	}
}

func (p *Prometheus) OnBuildComplete(_ context.Context, nodes, _ int, d time.Duration) {
	p.stageDuration.WithLabelValues("build", "ok").Observe(d.Seconds())
	p.nodes.Observe(float64(nodes))
}

func (p *Prometheus) OnLayoutStart(context.Context, int) {}

func (p *Prometheus) OnLayoutComplete(_ context.Context, _ int, partial bool, d time.Duration, err error) {
	p.stageDuration.WithLabelValues("layout", status(err)).Observe(d.Seconds())
	if partial {
		p.partial.Inc()
	}
}

func (p *Prometheus) OnRenderStart(context.Context, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues("render", status(err)).Observe(d.Seconds())
}

// =============================================================================
// CacheHooks
// =============================================================================

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

// =============================================================================
// HTTPHooks
// =============================================================================

func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.httpInFlight.Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.httpInFlight.Dec()
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
