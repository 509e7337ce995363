package models

import (
	"time"

	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
)

// Booking is the aggregate root for a residential placement: a reservation
// of one bed for one case over a date range.
//
// Invariants:
//   - ArrivalDate <= DepartureDate at all times
//   - OriginalArrivalDate is set on creation and never changes
//   - At most one of {Arrival, NonArrival, Cancellation} is ever recorded;
//     the Outcome union enforces this by construction
//   - Departure and Confirmation are recorded at most once each
//   - Extension, DateChange and BedMove audit records are append-only and
//     live in the store, keyed by booking id, not on the aggregate
type Booking struct {
	ID         id.BookingID
	BedID      id.BedID
	PremisesID id.PremisesID
	CRN        string
	Service    id.ServiceTag

	ArrivalDate         time.Time
	DepartureDate       time.Time
	OriginalArrivalDate time.Time

	CaseRecord         CaseRecord
	PlacementRequestID id.PlacementRequestID

	Outcome      Outcome
	Departure    *Departure
	Confirmation *Confirmation
	Turnaround   *Turnaround

	CreatedAt time.Time
}

// NewBooking constructs a provisional booking. Dates are truncated to
// calendar days; the original arrival date is pinned to the first arrival
// date ever set.
func NewBooking(bookingID id.BookingID, bedID id.BedID, premisesID id.PremisesID, crn string, service id.ServiceTag, arrival, departure time.Time, now time.Time) (*Booking, error) {
	if crn == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "booking requires a case reference number")
	}
	r, err := id.NewDateRange(arrival, departure)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "booking departure date precedes arrival date")
	}
	return &Booking{
		ID:                  bookingID,
		BedID:               bedID,
		PremisesID:          premisesID,
		CRN:                 crn,
		Service:             service,
		ArrivalDate:         r.Start,
		DepartureDate:       r.End,
		OriginalArrivalDate: r.Start,
		CaseRecord:          NoCaseRecord(),
		Outcome:             Outcome{},
		CreatedAt:           now,
	}, nil
}

// Range returns the booking's occupancy interval [arrival, departure).
func (b *Booking) Range() id.DateRange {
	return id.DateRange{Start: b.ArrivalDate, End: b.DepartureDate}
}

// Status is the conceptual lifecycle state, derived from which sub-records
// are present rather than stored as its own column.
type Status string

const (
	StatusProvisional Status = "provisional"
	StatusConfirmed   Status = "confirmed"
	StatusArrived     Status = "arrived"
	StatusNotArrived  Status = "not-arrived"
	StatusDeparted    Status = "departed"
	StatusCancelled   Status = "cancelled"
)

// Status derives the lifecycle state from the attached sub-records.
func (b *Booking) Status() Status {
	switch b.Outcome.Kind() {
	case OutcomeCancelled:
		return StatusCancelled
	case OutcomeNotArrived:
		return StatusNotArrived
	case OutcomeArrived:
		if b.Departure != nil {
			return StatusDeparted
		}
		return StatusArrived
	}
	if b.Departure != nil {
		return StatusDeparted
	}
	if b.Confirmation != nil {
		return StatusConfirmed
	}
	return StatusProvisional
}

// IsCancelled reports whether the booking reached the terminal cancelled state.
func (b *Booking) IsCancelled() bool {
	return b.Outcome.Kind() == OutcomeCancelled
}

// HasArrival reports whether an arrival has been recorded.
func (b *Booking) HasArrival() bool {
	return b.Outcome.Kind() == OutcomeArrived
}

// ApplyDates moves the booking to new arrival/departure dates. Callers are
// responsible for conflict checking and arrival-date immutability rules; the
// aggregate only defends the ordering invariant.
func (b *Booking) ApplyDates(arrival, departure time.Time) error {
	r, err := id.NewDateRange(arrival, departure)
	if err != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "booking departure date precedes arrival date")
	}
	b.ArrivalDate = r.Start
	b.DepartureDate = r.End
	return nil
}

// ApplyBed reassigns the booking to another bed in the same premises.
func (b *Booking) ApplyBed(bedID id.BedID) {
	b.BedID = bedID
}

// ApplyTurnaround replaces the current turnaround. Recalculation overwrites,
// it never appends.
func (b *Booking) ApplyTurnaround(t *Turnaround) {
	b.Turnaround = t
}

// TurnaroundWorkingDays returns the working-day buffer after departure, zero
// when none has been recorded.
func (b *Booking) TurnaroundWorkingDays() int {
	if b.Turnaround == nil {
		return 0
	}
	return b.Turnaround.WorkingDays
}
