// Package metrics instruments the booking lifecycle engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "placements/pkg/domain-errors"
)

// Metrics tracks lifecycle operation outcomes and conflict rejections.
type Metrics struct {
	operations *prometheus.CounterVec
	conflicts  *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "placements_booking_operations_total",
			Help: "Booking lifecycle operations, by operation and result.",
		}, []string{"operation", "result"}),
		conflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "placements_booking_conflicts_total",
			Help: "Operations rejected by the interval conflict checker, by kind.",
		}, []string{"kind"}),
	}
}

// ObserveOperation records one completed operation, deriving the result label
// from the error's domain code.
func (m *Metrics) ObserveOperation(operation string, err error) {
	m.operations.WithLabelValues(operation, resultLabel(err)).Inc()
}

// IncConflict records a conflict rejection. Kind is "booking" or "lost-bed".
func (m *Metrics) IncConflict(kind string) {
	m.conflicts.WithLabelValues(kind).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return "conflict"
	case dErrors.HasCode(err, dErrors.CodeGeneralValidation),
		dErrors.HasCode(err, dErrors.CodeFieldValidation):
		return "validation"
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return "not_found"
	case dErrors.HasCode(err, dErrors.CodeUnauthorised):
		return "unauthorised"
	default:
		return "error"
	}
}
