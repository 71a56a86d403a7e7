package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// APIMetrics tracks the rates endpoints at the business level: latency and
// failures per endpoint, plus what customers price.
type APIMetrics struct {
	latency   *prometheus.HistogramVec
	errors    *prometheus.CounterVec
	estimates *prometheus.CounterVec
	refreshes prometheus.Counter
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	f := promauto.With(reg)
	return &APIMetrics{
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jewar",
				Subsystem: "api",
				Name:      "latency_seconds",
				Help:      "Latency of rates endpoints",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jewar",
				Subsystem: "api",
				Name:      "errors_total",
				Help:      "Errors by rates endpoint",
			},
			[]string{"endpoint"},
		),
		estimates: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jewar",
				Subsystem: "api",
				Name:      "estimates_total",
				Help:      "Jewellery estimates served by metal and purity",
			},
			[]string{"metal", "purity"},
		),
		refreshes: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "jewar",
				Subsystem: "api",
				Name:      "forced_refreshes_total",
				Help:      "Forced refreshes requested through the API",
			},
		),
	}
}

// Observe records one call. Use as: defer m.Observe("rates", time.Now(), &failed).
func (m *APIMetrics) Observe(endpoint string, start time.Time, failed *bool) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if failed != nil && *failed {
		m.errors.WithLabelValues(endpoint).Inc()
	}
}

func (m *APIMetrics) Estimate(metal, purity string) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(metal, purity).Inc()
}

func (m *APIMetrics) Refresh() {
	if m == nil {
		return
	}
	m.refreshes.Inc()
}
