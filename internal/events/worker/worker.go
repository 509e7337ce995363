// Package worker drains the domain event outbox into the event sink.
// Delivery is at-least-once: an entry is only marked dispatched after the
// sink acknowledges it, and failures leave the entry for the next tick.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"placements/internal/events"
	"placements/pkg/requestcontext"
)

// Sink accepts a composed envelope plus a correlation id. Fire-and-forget
// from the core's perspective; the Kafka producer is the production
// implementation.
type Sink interface {
	Publish(ctx context.Context, key string, payload []byte, headers map[string]string) error
}

// Worker polls the outbox and hands undispatched events to the sink.
type Worker struct {
	store    events.Store
	sink     Sink
	logger   *slog.Logger
	metrics  *events.Metrics
	interval time.Duration
	batch    int
}

func New(store events.Store, sink Sink, logger *slog.Logger, metrics *events.Metrics) *Worker {
	return &Worker{
		store:    store,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
		interval: time.Second,
		batch:    100,
	}
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Drain(ctx); err != nil {
				w.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Drain dispatches one batch of undispatched events. Dispatch failures stop
// the batch so ordering per booking is preserved across retries.
func (w *Worker) Drain(ctx context.Context) error {
	batch, err := w.store.ListUndispatched(ctx, w.batch)
	if err != nil {
		return err
	}
	for _, env := range batch {
		payload, err := json.Marshal(env)
		if err != nil {
			return err
		}
		headers := map[string]string{
			"event-type":     string(env.Type),
			"event-id":       env.ID.String(),
			"correlation-id": requestcontext.RequestID(ctx),
		}
		if err := w.sink.Publish(ctx, env.BookingID.String(), payload, headers); err != nil {
			if w.metrics != nil {
				w.metrics.IncDispatchFailures()
			}
			w.logger.WarnContext(ctx, "event dispatch failed, will retry",
				"event", env.ID.String(),
				"type", string(env.Type),
				"error", err,
			)
			return nil
		}
		if err := w.store.MarkDispatched(ctx, env.ID, time.Now()); err != nil {
			return err
		}
		if w.metrics != nil {
			w.metrics.IncDispatched()
		}
	}
	return nil
}
