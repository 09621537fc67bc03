package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/lazyfetch/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for lazy fetch caches.
type Metrics struct {
	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	interrupts   prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lazyfetch_steps_total",
				Help: "Total number of state advances",
			},
			[]string{"state", "outcome"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lazyfetch_step_duration_seconds",
				Help:    "Duration of state advances in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state"},
		),
		interrupts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lazyfetch_interrupts_total",
				Help: "Total number of caches locked by an interrupt condition",
			},
		),
	}

	registry.MustRegister(m.steps, m.stepDuration, m.interrupts)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			outcome := string(e.Type)
			m.steps.WithLabelValues(e.From, outcome).Inc()
			m.stepDuration.WithLabelValues(e.From).Observe(e.Duration.Seconds())
		},
		OnInterrupt: func(context.Context, *domain.InterruptEvent) {
			m.interrupts.Inc()
		},
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
