package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks event emission and dispatch health.
type Metrics struct {
	emitted          *prometheus.CounterVec
	persistFailures  prometheus.Counter
	dispatched       prometheus.Counter
	dispatchFailures prometheus.Counter
}

// NewMetrics creates and registers the event metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "placements_domain_events_emitted_total",
			Help: "Domain events durably recorded, by type.",
		}, []string{"type"}),
		persistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "placements_domain_event_persist_failures_total",
			Help: "Domain events that failed the durable outbox write.",
		}),
		dispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "placements_domain_events_dispatched_total",
			Help: "Domain events successfully handed to the event sink.",
		}),
		dispatchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "placements_domain_event_dispatch_failures_total",
			Help: "Dispatch attempts that failed and were left for retry.",
		}),
	}
}

func (m *Metrics) IncEmitted(eventType string) { m.emitted.WithLabelValues(eventType).Inc() }
func (m *Metrics) IncPersistFailures()         { m.persistFailures.Inc() }
func (m *Metrics) IncDispatched()              { m.dispatched.Inc() }
func (m *Metrics) IncDispatchFailures()        { m.dispatchFailures.Inc() }
