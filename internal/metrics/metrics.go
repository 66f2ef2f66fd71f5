package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the rate service
type Metrics struct {
	// Request metrics
	RateRequestsTotal   *prometheus.CounterVec
	RateRequestDuration *prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Provider metrics
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	// Fallback metrics
	FallbackDays *prometheus.HistogramVec
}

// New creates and registers all metrics
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rate_service"
	}

	return &Metrics{
		RateRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_requests_total",
				Help:      "Total number of rate resolution requests",
			},
			[]string{"base", "target", "status"},
		),

		RateRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_request_duration_seconds",
				Help:      "Duration of rate resolution requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"base", "target"},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of rate cache hits",
			},
		),

		CacheMissesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of rate cache misses",
			},
		),

		ProviderRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Total number of requests to upstream rate providers",
			},
			[]string{"provider", "status"},
		),

		ProviderRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Duration of provider requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		FallbackDays: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fallback_days",
				Help:      "How many days back from the requested date a rate was found",
				Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7},
			},
			[]string{"base", "target"},
		),
	}
}

// RecordRateRequest records metrics for a rate resolution request
func (m *Metrics) RecordRateRequest(base, target, status string, durationSeconds float64) {
	m.RateRequestsTotal.WithLabelValues(base, target, status).Inc()
	m.RateRequestDuration.WithLabelValues(base, target).Observe(durationSeconds)
}

// RecordCacheHit records a rate cache hit
func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a rate cache miss
func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// RecordProviderRequest records a provider request
func (m *Metrics) RecordProviderRequest(provider, status string, durationSeconds float64) {
	m.ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	m.ProviderRequestDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordFallbackDays records how far back the proximity search had to walk.
// A source settling on a later date than requested counts as zero days back.
func (m *Metrics) RecordFallbackDays(base, target string, days float64) {
	if days < 0 {
		days = 0
	}
	m.FallbackDays.WithLabelValues(base, target).Observe(days)
}
