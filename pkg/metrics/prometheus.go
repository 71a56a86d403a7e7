package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	sourceResults *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	rate24kt      *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
	publishes     *prometheus.CounterVec
}

// New registers the rate collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		sourceResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jewar_source_fetch_total",
				Help: "Upstream fetch outcomes by source",
			},
			[]string{"source", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jewar_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		rate24kt: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "jewar_rate_24kt_inr_per_10g",
				Help: "Last published 24KT rate in INR per 10 grams",
			},
			[]string{"metal"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jewar_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		publishes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jewar_updater_ticks_total",
				Help: "Updater ticks by whether subscribers were notified",
			},
			[]string{"outcome"},
		),
	}
}

// RecordSourceResult counts one fetch attempt (ok, not_configured, unreachable, invalid, rejected, cache_hit).
func (r *Recorder) RecordSourceResult(source, result string) {
	r.sourceResults.WithLabelValues(source, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRate records the last 24KT value for a metal.
func (r *Recorder) RecordRate(metal string, value float64) {
	r.rate24kt.WithLabelValues(metal).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordPublish(notified bool) {
	outcome := "damped"
	if notified {
		outcome = "notified"
	}
	r.publishes.WithLabelValues(outcome).Inc()
}
