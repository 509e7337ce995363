package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"placements/internal/booking/models"
	"placements/internal/events"
	"placements/internal/premises"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/requestcontext"
)

// ExtensionParams carries the fields for moving the booking's departure
// date. Despite the name, the new date may also be earlier than the current
// one.
type ExtensionParams struct {
	NewDepartureDate time.Time
	Notes            string
}

// ExtendBooking moves the departure date, re-running the conflict check
// against the new range. An append-only extension audit record captures the
// previous and new dates; a BookingChanged event is recorded after commit.
func (s *Service) ExtendBooking(ctx context.Context, bookingID id.BookingID, p ExtensionParams) (e *models.Extension, err error) {
	ctx, span := s.startSpan(ctx, "ExtendBooking")
	defer span.End()
	defer func() { s.observe("extend_booking", err) }()

	now := requestcontext.Now(ctx)
	var (
		booking   *models.Booking
		extension *models.Extension
		previous  id.DateRange
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.loadBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		switch b.Outcome.Kind() {
		case models.OutcomeCancelled, models.OutcomeNotArrived:
			return b.CanRecordOutcome()
		}

		newDeparture := id.TruncateToDate(p.NewDepartureDate)
		if newDeparture.Before(b.ArrivalDate) {
			return dErrors.NewFieldErrors(map[string]string{"$.newDepartureDate": "beforeBookingArrivalDate"})
		}

		candidate := id.DateRange{Start: b.ArrivalDate, End: newDeparture}
		if err := s.checkConflicts(txCtx, b.BedID, candidate, b.ID); err != nil {
			return err
		}

		previous = b.Range()
		extension = &models.Extension{
			ID:                    uuid.New(),
			BookingID:             b.ID,
			PreviousDepartureDate: b.DepartureDate,
			NewDepartureDate:      newDeparture,
			Notes:                 p.Notes,
			CreatedAt:             now,
		}
		if err := b.ApplyDates(b.ArrivalDate, newDeparture); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist extended booking")
		}
		if err := s.bookings.AppendExtension(txCtx, extension); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record extension")
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, booking, events.TypeBookingChanged, func(prem *premises.Premises, person events.PersonReference) *events.Envelope {
		return s.composer.BookingChanged(booking, previous, prem, person, now)
	})
	return extension, nil
}
