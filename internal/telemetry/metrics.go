// Package telemetry exposes discovery metrics in the Prometheus text format.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/dogdiscoverer/internal/domain/model"
)

const namespace = "dogdiscoverer"

// Metrics records per-attempt and per-run discovery outcomes. It satisfies
// application.DiscoveryObserver.
type Metrics struct {
	registry    *prometheus.Registry
	attempts    *prometheus.CounterVec
	discoveries *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates the discovery collectors on a dedicated registry,
// alongside the standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Random image fetch attempts by outcome.",
			},
			[]string{"outcome"},
		),
		discoveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "discoveries_total",
				Help:      "Completed discovery runs by result.",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "discovery_duration_seconds",
				Help:      "Wall time of completed discovery runs.",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(
		m.attempts,
		m.discoveries,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveAttempt counts a single fetch attempt.
func (m *Metrics) ObserveAttempt(outcome model.AttemptOutcome) {
	m.attempts.WithLabelValues(string(outcome)).Inc()
}

// ObserveDiscovery counts a finished run and records how long it took.
func (m *Metrics) ObserveDiscovery(found bool, _ int, elapsed time.Duration) {
	result := "not_found"
	if found {
		result = "found"
	}
	m.discoveries.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Handler serves the registry at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
