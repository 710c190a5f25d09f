package engine

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors. Each engine owns its own
// registry so several engines can live in one test binary.
type Metrics struct {
	registry *prometheus.Registry

	matched     *prometheus.CounterVec
	unmatched   prometheus.Counter
	ambiguous   prometheus.Counter
	transitions *prometheus.CounterVec
	stubs       prometheus.Gauge
}

func newMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		matched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crudcontract_requests_matched_total",
			Help: "Requests answered by a stub, by scenario",
		}, []string{"scenario"}),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crudcontract_requests_unmatched_total",
			Help: "Requests answered by the fallback response",
		}),
		ambiguous: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crudcontract_requests_ambiguous_total",
			Help: "Requests for which more than one stub was equally specific",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crudcontract_scenario_transitions_total",
			Help: "Scenario state transitions, by scenario and states",
		}, []string{"scenario", "from", "to"}),
		stubs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crudcontract_stubs_registered",
			Help: "Number of registered stubs",
		}),
	}
	m.registry.MustRegister(m.matched, m.unmatched, m.ambiguous, m.transitions, m.stubs)
	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func scenarioLabel(name string) string {
	if name == "" {
		return "(none)"
	}
	return name
}
