// Package metrics exposes button sampling counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/button-sensor/internal/button"
)

const namespace = "button"

// Metrics holds the collectors for one daemon on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	samples    *prometheus.CounterVec
	changes    *prometheus.CounterVec
	readErrors *prometheus.CounterVec
	active     *prometheus.GaugeVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Successful samples taken per button.",
		}, []string{"button"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "changes_total",
			Help:      "State changes observed per button and event type.",
		}, []string{"button", "event"}),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Failed GPIO reads per button.",
		}, []string{"button"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active",
			Help:      "1 while the button is pressed, 0 otherwise.",
		}, []string{"button"}),
	}

	m.registry.MustRegister(
		m.samples,
		m.changes,
		m.readErrors,
		m.active,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSample records a successful sample and the resulting state.
func (m *Metrics) ObserveSample(name string, active bool) {
	m.samples.WithLabelValues(name).Inc()
	v := 0.0
	if active {
		v = 1
	}
	m.active.WithLabelValues(name).Set(v)
}

// ObserveChange records a state change.
func (m *Metrics) ObserveChange(name string, event button.EventType) {
	m.changes.WithLabelValues(name, string(event)).Inc()
}

// ObserveReadError records a failed read.
func (m *Metrics) ObserveReadError(name string) {
	m.readErrors.WithLabelValues(name).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
