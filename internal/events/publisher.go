package events

import (
	"context"
	"log/slog"

	dErrors "placements/pkg/domain-errors"
)

// Publisher durably records composed envelopes. It never dispatches inline:
// if the durable write fails the caller's operation fails with it, and
// dispatch is left entirely to the outbox worker after commit. That ordering
// guarantees no event is ever handed to the sink for a state change that was
// not persisted.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit writes the envelope to the outbox.
func (p *Publisher) Emit(ctx context.Context, env *Envelope) error {
	if err := p.store.Append(ctx, env); err != nil {
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "domain event persistence failed",
				"type", string(env.Type),
				"booking", env.BookingID.String(),
				"error", err,
			)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record domain event")
	}
	if p.metrics != nil {
		p.metrics.IncEmitted(string(env.Type))
	}
	return nil
}
