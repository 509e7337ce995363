package service

import (
	"context"
	"time"

	"placements/internal/booking/models"
	"placements/internal/events"
	"placements/internal/premises"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/requestcontext"
)

// ArrivalParams carries the fields for recording a person moving in.
type ArrivalParams struct {
	ArrivalTime           time.Time
	ExpectedDepartureDate time.Time
	Notes                 string
	KeyWorkerStaffCode    string
}

// RecordArrival records the person moving in. The booking's dates roll
// forward to the actual arrival date and the expected departure; a
// PersonArrived event is recorded after commit.
func (s *Service) RecordArrival(ctx context.Context, bookingID id.BookingID, p ArrivalParams) (a *models.Arrival, err error) {
	ctx, span := s.startSpan(ctx, "RecordArrival")
	defer span.End()
	defer func() { s.observe("record_arrival", err) }()

	now := requestcontext.Now(ctx)
	var (
		booking *models.Booking
		arrival *models.Arrival
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
		if id.TruncateToDate(p.ExpectedDepartureDate).Before(id.TruncateToDate(p.ArrivalTime)) {
			violations.Add("$.expectedDepartureDate", "beforeBookingArrivalDate")
		}
		if b.Service == id.ServiceApprovedPremises && p.KeyWorkerStaffCode == "" {
			violations.Add("$.keyWorkerStaffCode", "empty")
		}
		if err := violations.Err(); err != nil {
			return err
		}

		arrival = models.NewArrival(b.ID, p.ArrivalTime, p.ExpectedDepartureDate, p.Notes, p.KeyWorkerStaffCode, now)
		if err := b.RecordArrival(arrival); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist arrival")
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, booking, events.TypePersonArrived, func(prem *premises.Premises, person events.PersonReference) *events.Envelope {
		return s.composer.PersonArrived(booking, arrival, prem, person, now)
	})
	return arrival, nil
}
