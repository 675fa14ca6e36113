// Package metrics exposes a live Prometheus surface over a running
// simulation: admitted/dropped requests, migrations fired, and the
// running combined cost. Each Metrics value owns a private Registry
// instead of registering against the global default, so a single process
// can run more than one Simulator without "duplicate metrics collector
// registration" panics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every counter/gauge the simulator updates as it ticks.
type Metrics struct {
	registry *prometheus.Registry

	ticksTotal          prometheus.Counter
	requestsAdmitted    *prometheus.CounterVec // label: kind (boot/delete)
	requestsDropped     prometheus.Counter
	migrationsTotal     prometheus.Counter
	runningCombinedCost prometheus.Gauge
}

// New builds a Metrics instance registered against its own Registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.ticksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geosched_ticks_total",
		Help: "Number of simulation ticks processed.",
	})
	m.requestsAdmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geosched_requests_admitted_total",
		Help: "Boot/delete requests successfully applied, by kind.",
	}, []string{"kind"})
	m.requestsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geosched_requests_dropped_total",
		Help: "Boot requests dropped for lack of a fitting server (UnadmittedRequest).",
	})
	m.migrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geosched_migrations_total",
		Help: "Migrate actions committed to the real schedule.",
	})
	m.runningCombinedCost = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "geosched_running_combined_cost_usd",
		Help: "Most recently evaluated combined electricity cost in USD.",
	})

	m.registry.MustRegister(
		m.ticksTotal,
		m.requestsAdmitted,
		m.requestsDropped,
		m.migrationsTotal,
		m.runningCombinedCost,
	)
	return m
}

// Tick records one simulation tick.
func (m *Metrics) Tick() { m.ticksTotal.Inc() }

// RequestAdmitted records one successfully applied boot or delete request.
func (m *Metrics) RequestAdmitted(kind string) { m.requestsAdmitted.WithLabelValues(kind).Inc() }

// RequestDropped records one boot request dropped for lack of capacity.
func (m *Metrics) RequestDropped() { m.requestsDropped.Inc() }

// Migration records one committed Migrate action.
func (m *Metrics) Migration() { m.migrationsTotal.Inc() }

// SetRunningCost publishes the most recent combined-cost figure.
func (m *Metrics) SetRunningCost(usd float64) { m.runningCombinedCost.Set(usd) }

// Handler returns the HTTP handler to mount at -metrics-addr's /metrics path.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
