package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/requestcontext"
)

// ConfirmationParams carries the fields for confirming a provisional
// temporary-accommodation booking.
type ConfirmationParams struct {
	DateTime time.Time
	Notes    string
}

// RecordConfirmation acknowledges a provisional temporary-accommodation
// booking ahead of arrival. No event type exists for confirmations.
func (s *Service) RecordConfirmation(ctx context.Context, bookingID id.BookingID, p ConfirmationParams) (c *models.Confirmation, err error) {
	ctx, span := s.startSpan(ctx, "RecordConfirmation")
	defer span.End()
	defer func() { s.observe("record_confirmation", err) }()

	now := requestcontext.Now(ctx)
	var confirmation *models.Confirmation
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.loadBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if b.Service != id.ServiceTemporaryAccommodation {
			return dErrors.New(dErrors.CodeGeneralValidation, "Only temporary accommodation Bookings can be confirmed")
		}
		if err := b.CanRecordOutcome(); err != nil {
			return err
		}

		confirmation = &models.Confirmation{
			ID:        uuid.New(),
			BookingID: b.ID,
			DateTime:  p.DateTime,
			Notes:     p.Notes,
			CreatedAt: now,
		}
		if err := b.RecordConfirmation(confirmation); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist confirmation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}
