// Package evaluator implements the local mock evaluation server.
// This file defines the Prometheus metrics exposed at /metrics.
package evaluator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the evaluation server.
type Metrics struct {
	registry *prometheus.Registry

	// EvaluationsTotal counts evaluations by kind.
	EvaluationsTotal *prometheus.CounterVec

	// VerificationsTotal counts envelope verifications by outcome.
	VerificationsTotal *prometheus.CounterVec

	// RequestErrorsTotal counts rejected requests by reason.
	RequestErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates the metric set on a private registry so multiple
// server instances (as in tests) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		EvaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satchel",
			Subsystem: "evaluator",
			Name:      "evaluations_total",
			Help:      "Number of evaluations processed, by kind.",
		}, []string{"kind"}),
		VerificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satchel",
			Subsystem: "evaluator",
			Name:      "verifications_total",
			Help:      "Number of envelope verifications, by outcome.",
		}, []string{"outcome"}),
		RequestErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "satchel",
			Subsystem: "evaluator",
			Name:      "request_errors_total",
			Help:      "Number of rejected requests, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.EvaluationsTotal, m.VerificationsTotal, m.RequestErrorsTotal)
	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
