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

// NonArrivalParams carries the fields for recording that the person never
// moved in.
type NonArrivalParams struct {
	Date     time.Time
	ReasonID id.ReasonID
	Notes    string
}

// RecordNonArrival records that the person never arrived. Mutually exclusive
// with arrival and cancellation; a PersonNotArrived event is recorded after
// commit.
func (s *Service) RecordNonArrival(ctx context.Context, bookingID id.BookingID, p NonArrivalParams) (n *models.NonArrival, err error) {
	ctx, span := s.startSpan(ctx, "RecordNonArrival")
	defer span.End()
	defer func() { s.observe("record_non_arrival", err) }()

	now := requestcontext.Now(ctx)
	var (
		booking    *models.Booking
		nonArrival *models.NonArrival
		reason     *refdata.NonArrivalReason
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
		if id.TruncateToDate(p.Date).Before(b.ArrivalDate) {
			violations.Add("$.date", "beforeBookingArrivalDate")
		}
		reason, err = s.findNonArrivalReason(txCtx, b, p.ReasonID, violations)
		if err != nil {
			return err
		}
		if err := violations.Err(); err != nil {
			return err
		}

		nonArrival = &models.NonArrival{
			ID:        uuid.New(),
			BookingID: b.ID,
			Date:      id.TruncateToDate(p.Date),
			ReasonID:  p.ReasonID,
			Notes:     p.Notes,
			CreatedAt: now,
		}
		if err := b.RecordNonArrival(nonArrival); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist non-arrival")
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, booking, events.TypePersonNotArrived, func(prem *premises.Premises, person events.PersonReference) *events.Envelope {
		return s.composer.PersonNotArrived(booking, nonArrival, reason, prem, person, now)
	})
	return nonArrival, nil
}

func (s *Service) findNonArrivalReason(ctx context.Context, b *models.Booking, reasonID id.ReasonID, violations dErrors.Violations) (*refdata.NonArrivalReason, error) {
	reason, err := s.refData.FindNonArrivalReason(ctx, reasonID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load non-arrival reason")
		}
		violations.Add("$.reasonId", "doesNotExist")
		return nil, nil
	}
	if !reason.IsActive {
		violations.Add("$.reasonId", "doesNotExist")
		return nil, nil
	}
	if !reason.Scope.Matches(b.Service) {
		violations.Add("$.reasonId", "incorrectNonArrivalReasonServiceScope")
	}
	return reason, nil
}
