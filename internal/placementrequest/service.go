package placementrequest

import (
	"context"
	"errors"
	"log/slog"

	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/platform/sentinel"
	"placements/pkg/requestcontext"
)

// Linkage updates placement requests in response to booking lifecycle
// changes: fulfilment on creation and replacement on qualifying
// cancellation. It never touches the booking itself.
type Linkage struct {
	store  Store
	logger *slog.Logger
}

func NewLinkage(store Store, logger *slog.Logger) *Linkage {
	return &Linkage{store: store, logger: logger}
}

// MarkFulfilled records the booking against the request.
func (l *Linkage) MarkFulfilled(ctx context.Context, requestID id.PlacementRequestID, bookingID id.BookingID) error {
	request, err := l.store.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "placement request not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load placement request")
	}
	request.BookingID = bookingID
	if err := l.store.Update(ctx, request); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark placement request fulfilled")
	}
	return nil
}

// SpawnReplacement clones the request's requirements, dates and notes into a
// new unallocated request. Invoked by the engine's post-commit hook when a
// booking is cancelled for the successful-appeal reason.
func (l *Linkage) SpawnReplacement(ctx context.Context, requestID id.PlacementRequestID) (*PlacementRequest, error) {
	original, err := l.store.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "placement request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load placement request")
	}

	replacement := original.CloneUnallocated(id.NewPlacementRequestID(), requestcontext.Now(ctx))
	if err := l.store.Create(ctx, replacement); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create replacement placement request")
	}

	if l.logger != nil {
		l.logger.InfoContext(ctx, "spawned replacement placement request",
			"original", original.ID.String(),
			"replacement", replacement.ID.String(),
		)
	}
	return replacement, nil
}
