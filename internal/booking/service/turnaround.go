package service

import (
	"context"

	"github.com/google/uuid"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/requestcontext"
)

// RecordTurnaround sets the working-day void buffer after departure.
// Recalculating fully replaces the prior value. No event type exists for
// turnarounds.
func (s *Service) RecordTurnaround(ctx context.Context, bookingID id.BookingID, workingDays int) (t *models.Turnaround, err error) {
	ctx, span := s.startSpan(ctx, "RecordTurnaround")
	defer span.End()
	defer func() { s.observe("record_turnaround", err) }()

	now := requestcontext.Now(ctx)
	var turnaround *models.Turnaround
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.loadBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if b.IsCancelled() {
			return b.CanRecordOutcome()
		}
		if workingDays <= 0 {
			return dErrors.NewFieldErrors(map[string]string{"$.workingDays": "isNotAPositiveInteger"})
		}

		turnaround = &models.Turnaround{
			ID:          uuid.New(),
			BookingID:   b.ID,
			WorkingDays: workingDays,
			CreatedAt:   now,
		}
		b.ApplyTurnaround(turnaround)
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist turnaround")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return turnaround, nil
}
