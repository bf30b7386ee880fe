// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the platform. Each instance
// carries its own registry so tests can construct throwaway sets without
// duplicate-registration panics.
type Metrics struct {
	RequestCounter    *prometheus.CounterVec
	LatencyHistogram  *prometheus.HistogramVec
	RateLimitDecision *prometheus.CounterVec
	FeedSyncTotal     *prometheus.CounterVec
	FeedSyncIOCs      *prometheus.CounterVec
	EnrichmentLookups *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers the metric set
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isora_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		LatencyHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "isora_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RateLimitDecision: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isora_rate_limit_decisions_total",
				Help: "Rate limiter admissions by outcome",
			},
			[]string{"outcome"}, // allowed, rejected, bypassed, failed_open
		),
		FeedSyncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isora_feed_syncs_total",
				Help: "Feed sync runs by provider and status",
			},
			[]string{"provider", "status"},
		),
		FeedSyncIOCs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isora_feed_sync_iocs_total",
				Help: "Indicators processed by feed syncs",
			},
			[]string{"provider", "action"}, // new, updated, skipped
		),
		EnrichmentLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "isora_enrichment_lookups_total",
				Help: "Enrichment source lookups by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.RequestCounter,
		m.LatencyHistogram,
		m.RateLimitDecision,
		m.FeedSyncTotal,
		m.FeedSyncIOCs,
		m.EnrichmentLookups,
	)
	return m
}

// ObserveRequest records one completed HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, seconds float64) {
	m.RequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.LatencyHistogram.WithLabelValues(method, path).Observe(seconds)
}

// ObserveAdmission records one rate-limiter decision
func (m *Metrics) ObserveAdmission(outcome string) {
	m.RateLimitDecision.WithLabelValues(outcome).Inc()
}

// ObserveFeedSync records a completed feed sync and its IOC counts
func (m *Metrics) ObserveFeedSync(provider, status string, created, updated, skipped int) {
	m.FeedSyncTotal.WithLabelValues(provider, status).Inc()
	m.FeedSyncIOCs.WithLabelValues(provider, "new").Add(float64(created))
	m.FeedSyncIOCs.WithLabelValues(provider, "updated").Add(float64(updated))
	m.FeedSyncIOCs.WithLabelValues(provider, "skipped").Add(float64(skipped))
}

// Handler exposes the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
