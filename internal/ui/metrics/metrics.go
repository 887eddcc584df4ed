// Package metrics exposes Prometheus counters for the UI server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
)

// Metrics holds the server's collectors on a private registry, so servers
// and tests never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	transitions *prometheus.CounterVec
	actions     *prometheus.CounterVec
	compareAdds *prometheus.CounterVec
	workspaces  prometheus.Gauge
	reloads     *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bomscope_navigation_transitions_total",
			Help: "Navigation transitions by operation and kind",
		}, []string{"op", "kind"}),
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bomscope_explorer_actions_total",
			Help: "Simulation explorer actions by name",
		}, []string{"action"}),
		compareAdds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bomscope_compare_events_total",
			Help: "Compare events raised by type",
		}, []string{"type"}),
		workspaces: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bomscope_workspaces",
			Help: "Open browser workspaces",
		}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bomscope_dataset_reloads_total",
			Help: "Dataset reloads by result",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveNavigation counts a navigation change.
func (m *Metrics) ObserveNavigation(ch navigation.Change) {
	m.transitions.WithLabelValues(string(ch.Op), string(ch.Kind)).Inc()
}

// ObserveExplorer counts an explorer action and the compare event it raised,
// if any. prev is the event counter before the action.
func (m *Metrics) ObserveExplorer(a simexplorer.Action, next simexplorer.State, prev uint64) {
	m.actions.WithLabelValues(a.Name()).Inc()
	if next.Events > prev && next.LastEvent != nil {
		m.compareAdds.WithLabelValues(next.LastEvent.Type).Inc()
	}
}

// WorkspaceOpened increments the workspace gauge.
func (m *Metrics) WorkspaceOpened() { m.workspaces.Inc() }

// WorkspaceClosed decrements the workspace gauge.
func (m *Metrics) WorkspaceClosed() { m.workspaces.Dec() }

// Reload counts a dataset reload attempt.
func (m *Metrics) Reload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}
