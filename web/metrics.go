// ABOUTME: Prometheus metrics for the web server
// ABOUTME: Counts renders, objection lookups, logged calls, library reloads, and LLM tokens
package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the server's collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	Renders          *prometheus.CounterVec
	ObjectionLookups *prometheus.CounterVec
	CallsLogged      *prometheus.CounterVec
	LibraryReloads   *prometheus.CounterVec
	LLMTokens        *prometheus.CounterVec
	LibraryFlows     prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callcoach",
			Name:      "section_renders_total",
			Help:      "Call-flow sections rendered, by section.",
		}, []string{"section"}),
		ObjectionLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callcoach",
			Name:      "objection_lookups_total",
			Help:      "Objection searches, by whether anything matched.",
		}, []string{"matched"}),
		CallsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callcoach",
			Name:      "calls_logged_total",
			Help:      "Calls logged, by outcome.",
		}, []string{"outcome"}),
		LibraryReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callcoach",
			Name:      "library_reloads_total",
			Help:      "Call-flow library reloads, by result.",
		}, []string{"result"}),
		LLMTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "callcoach",
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by pitch generation.",
		}, []string{"kind"}),
		LibraryFlows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "callcoach",
			Name:      "library_flows",
			Help:      "Call flows in the loaded library.",
		}),
	}
	m.Registry.MustRegister(
		m.Renders,
		m.ObjectionLookups,
		m.CallsLogged,
		m.LibraryReloads,
		m.LLMTokens,
		m.LibraryFlows,
		collectors.NewGoCollector(),
	)
	return m
}
