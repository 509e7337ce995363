package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"placements/internal/booking/models"
	"placements/internal/events"
	"placements/internal/premises"
	"placements/internal/refdata"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/platform/sentinel"
	"placements/pkg/requestcontext"
)

// CancellationParams carries the fields for cancelling a booking before
// arrival.
type CancellationParams struct {
	Date     time.Time
	ReasonID id.ReasonID
	Notes    string
}

// RecordCancellation terminates the booking. A BookingCancelled event is
// recorded after commit, then any hooks registered for the cancellation
// reason run; a hook failure is returned to the caller but the cancellation
// itself stays committed.
func (s *Service) RecordCancellation(ctx context.Context, bookingID id.BookingID, p CancellationParams) (c *models.Cancellation, err error) {
	ctx, span := s.startSpan(ctx, "RecordCancellation")
	defer span.End()
	defer func() { s.observe("record_cancellation", err) }()

	now := requestcontext.Now(ctx)
	var (
		booking      *models.Booking
		cancellation *models.Cancellation
		reason       *refdata.CancellationReason
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.loadBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if err := b.CanRecordOutcome(); err != nil {
			return err
		}

		violations := dErrors.Violations{}
		reason, err = s.findCancellationReason(txCtx, b, p.ReasonID, violations)
		if err != nil {
			return err
		}
		if err := violations.Err(); err != nil {
			return err
		}

		cancellation = &models.Cancellation{
			ID:        uuid.New(),
			BookingID: b.ID,
			Date:      id.TruncateToDate(p.Date),
			ReasonID:  p.ReasonID,
			Notes:     p.Notes,
			CreatedAt: now,
		}
		if err := b.RecordCancellation(cancellation); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist cancellation")
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, booking, events.TypeBookingCancelled, func(prem *premises.Premises, person events.PersonReference) *events.Envelope {
		return s.composer.BookingCancelled(booking, cancellation, reason, prem, person, now)
	})

	for _, hook := range s.cancellationHooks[p.ReasonID] {
		if err := hook(ctx, booking); err != nil {
			return cancellation, dErrors.Wrap(err, dErrors.CodeInternal, "cancellation hook failed")
		}
	}
	return cancellation, nil
}

func (s *Service) findCancellationReason(ctx context.Context, b *models.Booking, reasonID id.ReasonID, violations dErrors.Violations) (*refdata.CancellationReason, error) {
	reason, err := s.refData.FindCancellationReason(ctx, reasonID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load cancellation reason")
		}
		violations.Add("$.reasonId", "doesNotExist")
		return nil, nil
	}
	if !reason.IsActive {
		violations.Add("$.reasonId", "doesNotExist")
		return nil, nil
	}
	if !reason.Scope.Matches(b.Service) {
		violations.Add("$.reasonId", "incorrectCancellationReasonServiceScope")
	}
	return reason, nil
}
