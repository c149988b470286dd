package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the track selector.
type Metrics struct {
	registry             *prometheus.Registry
	requestsTotal        prometheus.Counter
	errorsTotal          prometheus.Counter
	refreshesTotal       *prometheus.CounterVec
	refreshFailuresTotal prometheus.Counter
	staleRefreshesTotal  prometheus.Counter
	switchesTotal        prometheus.Counter
	switchFailuresTotal  prometheus.Counter
	options              prometheus.Gauge
	bindings             prometheus.Gauge
}

// New creates and registers Prometheus metrics for the track selector.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trackselect_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trackselect_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	refreshesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trackselect_refreshes_total",
		Help: "Total number of applied catalog refreshes by catalog mode",
	}, []string{"mode"})
	refreshFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trackselect_refresh_failures_total",
		Help: "Total number of catalog refreshes whose manifest fetch failed",
	})
	staleRefreshesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trackselect_stale_refreshes_total",
		Help: "Total number of refresh results discarded because a newer refresh started",
	})
	switchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trackselect_switches_total",
		Help: "Total number of track switch requests sent to the engine",
	})
	switchFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trackselect_switch_failures_total",
		Help: "Total number of track switch requests rejected by the engine",
	})
	options := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trackselect_options",
		Help: "Number of options in the most recently applied list",
	})
	bindings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trackselect_bindings",
		Help: "Number of controls currently attached to an engine",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		refreshesTotal,
		refreshFailuresTotal,
		staleRefreshesTotal,
		switchesTotal,
		switchFailuresTotal,
		options,
		bindings,
	)

	return &Metrics{
		registry:             registry,
		requestsTotal:        requestsTotal,
		errorsTotal:          errorsTotal,
		refreshesTotal:       refreshesTotal,
		refreshFailuresTotal: refreshFailuresTotal,
		staleRefreshesTotal:  staleRefreshesTotal,
		switchesTotal:        switchesTotal,
		switchFailuresTotal:  switchFailuresTotal,
		options:              options,
		bindings:             bindings,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// ObserveRefresh records an applied refresh and the size of its option list.
func (m *Metrics) ObserveRefresh(mode string, options int) {
	m.refreshesTotal.WithLabelValues(mode).Inc()
	m.options.Set(float64(options))
}

// IncRefreshFailures increments the failed refresh counter.
func (m *Metrics) IncRefreshFailures() {
	m.refreshFailuresTotal.Inc()
}

// IncStaleRefreshes increments the discarded refresh counter.
func (m *Metrics) IncStaleRefreshes() {
	m.staleRefreshesTotal.Inc()
}

// IncSwitches increments the switch request counter.
func (m *Metrics) IncSwitches() {
	m.switchesTotal.Inc()
}

// IncSwitchFailures increments the rejected switch counter.
func (m *Metrics) IncSwitchFailures() {
	m.switchFailuresTotal.Inc()
}

// AddBindings adjusts the attached controls gauge by delta.
func (m *Metrics) AddBindings(delta int) {
	m.bindings.Add(float64(delta))
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
