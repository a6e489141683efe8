package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aetherwealth/aether/internal/dashboard"
	"github.com/aetherwealth/aether/internal/domain"
)

// Metrics holds the Prometheus collectors exported on /metrics. It records
// dashboard render outcomes and follows provider mounts as a live gauge.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RenderOutcomes  *prometheus.CounterVec
	LiveProviders   *prometheus.GaugeVec
	ProviderMounts  *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aether_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aether_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"route"},
		),
		RenderOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aether_asset_page_renders_total",
				Help: "Asset page renders by asset type and outcome",
			},
			[]string{"type", "outcome"},
		),
		LiveProviders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aether_live_providers",
				Help: "Asset providers currently mounted, by asset type",
			},
			[]string{"type"},
		),
		ProviderMounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aether_provider_mounts_total",
				Help: "Asset providers mounted since start, by asset type",
			},
			[]string{"type"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RenderOutcomes,
		m.LiveProviders,
		m.ProviderMounts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRender implements dashboard.OutcomeRecorder.
func (m *Metrics) RecordRender(t domain.AssetType, outcome dashboard.RenderOutcome) {
	m.RenderOutcomes.WithLabelValues(string(t), string(outcome)).Inc()
}

// ProviderMounted implements holdings.Observer.
func (m *Metrics) ProviderMounted(t domain.AssetType) {
	m.LiveProviders.WithLabelValues(string(t)).Inc()
	m.ProviderMounts.WithLabelValues(string(t)).Inc()
}

// ProviderReleased implements holdings.Observer.
func (m *Metrics) ProviderReleased(t domain.AssetType) {
	m.LiveProviders.WithLabelValues(string(t)).Dec()
}

// Middleware counts requests by the matched chi route pattern so that
// asset IDs do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
