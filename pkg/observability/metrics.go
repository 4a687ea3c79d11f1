package observability

import (
	"context"

	"github.com/aretw0/formalizer/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "formalizer"

// Metrics holds the Prometheus collectors fed by LifecycleHooks.
type Metrics struct {
	Outcomes           *prometheus.CounterVec
	RemoteFailures     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	RemoteDuration     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outcomes_total",
				Help:      "Total number of formalizations by outcome source and tone",
			},
			[]string{"source", "tone"},
		),
		RemoteFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_failures_total",
				Help:      "Total number of remote attempts absorbed by the fallback, by reason",
			},
			[]string{"reason"},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of rejected inputs by reason",
			},
			[]string{"reason"},
		),
		RemoteDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_duration_seconds",
				Help:      "Duration of remote formalization attempts",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
	}
	reg.MustRegister(m.Outcomes, m.RemoteFailures, m.ValidationFailures, m.RemoteDuration)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnValidationFailed: func(ctx context.Context, e *domain.ValidationEvent) {
			m.ValidationFailures.WithLabelValues(string(e.Reason)).Inc()
		},
		OnRemoteAttempt: func(ctx context.Context, e *domain.RemoteEvent) {
			if e.Failure != nil {
				m.RemoteFailures.WithLabelValues(string(e.Failure.Reason)).Inc()
			}
			// Unconfigured attempts never leave the process
			if e.Failure == nil || e.Failure.Reason != domain.FailureUnconfigured {
				m.RemoteDuration.Observe(e.Duration.Seconds())
			}
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			m.Outcomes.WithLabelValues(string(e.Source), e.Tone).Inc()
		},
	}
}
