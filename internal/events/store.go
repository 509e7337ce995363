package events

import (
	"context"
	"time"

	id "placements/pkg/domain"
)

// Store is the durable event record. Append participates in the caller's
// transaction when one is carried in context, so a booking mutation and its
// event commit or fail together; the dispatch columns are worked by the
// outbox worker strictly after commit.
type Store interface {
	Append(ctx context.Context, env *Envelope) error
	// ListUndispatched returns up to limit events not yet handed to the
	// sink, oldest first.
	ListUndispatched(ctx context.Context, limit int) ([]*Envelope, error)
	MarkDispatched(ctx context.Context, eventID id.EventID, at time.Time) error
}
