package metrics

import (
	"net/http"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "phishguard"

// Metrics records provider call outcomes and intake activity
type Metrics struct {
	gatherer prometheus.Gatherer

	providerReqs    *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	intakeMessages  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		providerReqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_requests_total",
				Help:      "Total analysis calls by provider, model and outcome",
			},
			[]string{"provider", "model", "outcome"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Duration of analysis calls by provider and model",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 90, 120},
			},
			[]string{"provider", "model"},
		),
		intakeMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intake_messages_total",
				Help:      "Messages received by the intake mailbox by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.providerReqs, m.providerLatency, m.intakeMessages)
	return m
}

// ObserveAnalysis implements core.Recorder
func (m *Metrics) ObserveAnalysis(provider core.Provider, model string, kind core.ResultKind, elapsed time.Duration) {
	m.providerReqs.WithLabelValues(string(provider), model, kind.String()).Inc()
	m.providerLatency.WithLabelValues(string(provider), model).Observe(elapsed.Seconds())
}

// ObserveIntake counts one intake message with its result
// (reported, rejected, failed)
func (m *Metrics) ObserveIntake(result string) {
	m.intakeMessages.WithLabelValues(result).Inc()
}

// Handler exposes the registered collectors for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
