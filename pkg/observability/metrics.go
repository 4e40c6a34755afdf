package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/graft/pkg/domain"
)

// Metrics holds the collectors fed by pipeline hooks.
type Metrics struct {
	registry *prometheus.Registry

	Runs         *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	ParseSeconds prometheus.Histogram
	PluginInits  *prometheus.CounterVec
	HookCalls    *prometheus.CounterVec
	Replacements *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_runs_total",
			Help: "Total number of pipeline runs by outcome",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "graft_run_duration_seconds",
			Help:    "Duration of pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		ParseSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "graft_parse_duration_seconds",
			Help:    "Duration of the parse step",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		PluginInits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_plugin_inits_total",
			Help: "Plugin initializations by plugin and outcome",
		}, []string{"plugin", "outcome"}),
		HookCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_hook_calls_total",
			Help: "Visitor hook invocations",
		}, []string{"plugin", "node_type", "phase"}),
		Replacements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_node_replacements_total",
			Help: "Nodes replaced by enter hooks",
		}, []string{"plugin", "node_type"}),
	}
	reg.MustRegister(m.Runs, m.RunDuration, m.ParseSeconds, m.PluginInits, m.HookCalls, m.Replacements)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPluginInit: func(_ context.Context, e *domain.PluginEvent) {
			m.PluginInits.WithLabelValues(e.Plugin, outcome(e.Err)).Inc()
		},
		OnParse: func(_ context.Context, e *domain.RunEvent) {
			m.ParseSeconds.Observe(e.Duration.Seconds())
		},
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.HookCalls.WithLabelValues(e.Plugin, e.NodeType, "enter").Inc()
		},
		OnNodeExit: func(_ context.Context, e *domain.NodeEvent) {
			m.HookCalls.WithLabelValues(e.Plugin, e.NodeType, "exit").Inc()
		},
		OnReplace: func(_ context.Context, e *domain.NodeEvent) {
			m.Replacements.WithLabelValues(e.Plugin, e.NodeType).Inc()
		},
		OnRunDone: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(outcome(e.Err)).Inc()
			m.RunDuration.Observe(e.Duration.Seconds())
		},
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
