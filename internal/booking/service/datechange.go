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

// DateChangeParams carries the new dates. A nil field keeps the current
// value, so a departure-only change leaves the arrival date untouched.
type DateChangeParams struct {
	NewArrivalDate   *time.Time
	NewDepartureDate *time.Time
}

// ChangeDates moves the booking to new arrival and/or departure dates,
// re-running the conflict check against the new range. The arrival date
// becomes immutable once an arrival has been recorded. An append-only date
// change audit record attributes the change to the acting user; a
// BookingChanged event is recorded after commit.
func (s *Service) ChangeDates(ctx context.Context, bookingID id.BookingID, p DateChangeParams) (dc *models.DateChange, err error) {
	ctx, span := s.startSpan(ctx, "ChangeDates")
	defer span.End()
	defer func() { s.observe("change_dates", err) }()

	now := requestcontext.Now(ctx)
	var (
		booking    *models.Booking
		dateChange *models.DateChange
		previous   id.DateRange
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

		newArrival := b.ArrivalDate
		if p.NewArrivalDate != nil {
			newArrival = id.TruncateToDate(*p.NewArrivalDate)
		}
		newDeparture := b.DepartureDate
		if p.NewDepartureDate != nil {
			newDeparture = id.TruncateToDate(*p.NewDepartureDate)
		}

		violations := dErrors.Violations{}
		if b.HasArrival() && !newArrival.Equal(b.ArrivalDate) {
			violations.Add("$.newArrivalDate", "arrivalDateCannotBeChangedOnArrivedBooking")
		}
		if newDeparture.Before(newArrival) {
			violations.Add("$.newDepartureDate", "beforeBookingArrivalDate")
		}
		if err := violations.Err(); err != nil {
			return err
		}

		candidate := id.DateRange{Start: newArrival, End: newDeparture}
		if err := s.checkConflicts(txCtx, b.BedID, candidate, b.ID); err != nil {
			return err
		}

		previous = b.Range()
		dateChange = &models.DateChange{
			ID:                    uuid.New(),
			BookingID:             b.ID,
			PreviousArrivalDate:   b.ArrivalDate,
			PreviousDepartureDate: b.DepartureDate,
			NewArrivalDate:        newArrival,
			NewDepartureDate:      newDeparture,
			ChangedByUserID:       requestcontext.UserID(ctx),
			CreatedAt:             now,
		}
		if err := b.ApplyDates(newArrival, newDeparture); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist changed dates")
		}
		if err := s.bookings.AppendDateChange(txCtx, dateChange); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record date change")
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
	return dateChange, nil
}
