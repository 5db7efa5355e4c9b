package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes counters for the booking, feedback and live flows.
type Metrics struct {
	registry      *prometheus.Registry
	composed      *prometheus.CounterVec
	validation    *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	liveSessions  prometheus.Gauge
	liveMessages  *prometheus.CounterVec
	filterChanges *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry together with the
// process and Go runtime collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		composed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "compose",
			Name:      "messages_total",
			Help:      "Messages composed and handed to the messaging app",
		}, []string{"kind"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "compose",
			Name:      "validation_failures_total",
			Help:      "Form submissions rejected for missing fields",
		}, []string{"kind"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "compose",
			Name:      "dispatch_fallbacks_total",
			Help:      "Deep links that fell back to a phone call",
		}, []string{"kind"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lab",
			Subsystem: "live",
			Name:      "sessions",
			Help:      "Open live carousel sessions",
		}),
		liveMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "live",
			Name:      "events_total",
			Help:      "Live events received from clients",
		}, []string{"type"}),
		filterChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lab",
			Subsystem: "catalog",
			Name:      "filter_requests_total",
			Help:      "Catalog filter requests by category",
		}, []string{"category"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.composed, m.validation, m.fallbacks,
		m.liveSessions, m.liveMessages, m.filterChanges,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveComposed(kind string) {
	if m == nil {
		return
	}
	m.composed.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveValidationFailure(kind string) {
	if m == nil {
		return
	}
	m.validation.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveFallback(kind string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveFilter(category string) {
	if m == nil {
		return
	}
	m.filterChanges.WithLabelValues(category).Inc()
}

func (m *Metrics) ObserveLiveEvent(eventType string) {
	if m == nil {
		return
	}
	m.liveMessages.WithLabelValues(eventType).Inc()
}

// SessionOpened and SessionClosed track the live sessions gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.liveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.liveSessions.Dec()
}
