package models

import (
	dErrors "placements/pkg/domain-errors"
)

// OutcomeKind names the mutually-exclusive terminal outcomes of a booking.
type OutcomeKind string

const (
	OutcomeNone       OutcomeKind = "none"
	OutcomeArrived    OutcomeKind = "arrived"
	OutcomeNotArrived OutcomeKind = "not-arrived"
	OutcomeCancelled  OutcomeKind = "cancelled"
)

// Outcome is a tagged union holding at most one of {Arrival, NonArrival,
// Cancellation}. It is set exactly once through the Record* methods, which
// removes the failure mode of two nullable columns being non-null at once.
type Outcome struct {
	kind         OutcomeKind
	arrival      *Arrival
	nonArrival   *NonArrival
	cancellation *Cancellation
}

// Kind returns the variant currently set, OutcomeNone when unset.
func (o Outcome) Kind() OutcomeKind {
	if o.kind == "" {
		return OutcomeNone
	}
	return o.kind
}

// Arrival returns the arrival record when the outcome is OutcomeArrived.
func (o Outcome) Arrival() *Arrival { return o.arrival }

// NonArrival returns the non-arrival record when the outcome is OutcomeNotArrived.
func (o Outcome) NonArrival() *NonArrival { return o.nonArrival }

// Cancellation returns the cancellation record when the outcome is OutcomeCancelled.
func (o Outcome) Cancellation() *Cancellation { return o.cancellation }

// ArrivedOutcome builds an already-set outcome, used when rehydrating a
// booking from storage.
func ArrivedOutcome(a *Arrival) Outcome { return Outcome{kind: OutcomeArrived, arrival: a} }

// NotArrivedOutcome builds an already-set outcome from storage.
func NotArrivedOutcome(n *NonArrival) Outcome {
	return Outcome{kind: OutcomeNotArrived, nonArrival: n}
}

// CancelledOutcome builds an already-set outcome from storage.
func CancelledOutcome(c *Cancellation) Outcome {
	return Outcome{kind: OutcomeCancelled, cancellation: c}
}

func (b *Booking) occupiedOutcomeMessage() string {
	switch b.Outcome.Kind() {
	case OutcomeArrived:
		return "This Booking already has an Arrival set"
	case OutcomeNotArrived:
		return "This Booking already has a Non Arrival set"
	case OutcomeCancelled:
		return "This Booking already has a Cancellation set"
	}
	return ""
}

// CanRecordOutcome rejects a second terminal outcome with a general
// validation error naming the record already present.
func (b *Booking) CanRecordOutcome() error {
	if b.Outcome.Kind() != OutcomeNone {
		return dErrors.New(dErrors.CodeGeneralValidation, b.occupiedOutcomeMessage())
	}
	return nil
}

// RecordArrival sets the arrived outcome and rolls the booking's dates
// forward from the recorded arrival and expected departure.
func (b *Booking) RecordArrival(a *Arrival) error {
	if err := b.CanRecordOutcome(); err != nil {
		return err
	}
	b.Outcome = Outcome{kind: OutcomeArrived, arrival: a}
	b.ArrivalDate = a.ArrivalDate
	b.DepartureDate = a.ExpectedDepartureDate
	return nil
}

// RecordNonArrival sets the not-arrived outcome.
func (b *Booking) RecordNonArrival(n *NonArrival) error {
	if err := b.CanRecordOutcome(); err != nil {
		return err
	}
	b.Outcome = Outcome{kind: OutcomeNotArrived, nonArrival: n}
	return nil
}

// RecordCancellation sets the cancelled outcome. Cancellation is terminal:
// no further sub-records may be attached afterwards.
func (b *Booking) RecordCancellation(c *Cancellation) error {
	if err := b.CanRecordOutcome(); err != nil {
		return err
	}
	b.Outcome = Outcome{kind: OutcomeCancelled, cancellation: c}
	return nil
}

// RecordDeparture sets the departure record and aligns the booking's
// departure date with the departure instant's calendar day.
func (b *Booking) RecordDeparture(d *Departure) error {
	if b.Departure != nil {
		return dErrors.New(dErrors.CodeGeneralValidation, "This Booking already has a Departure set")
	}
	b.Departure = d
	b.DepartureDate = d.Date()
	return nil
}

// RecordConfirmation sets the confirmation record.
func (b *Booking) RecordConfirmation(c *Confirmation) error {
	if b.Confirmation != nil {
		return dErrors.New(dErrors.CodeGeneralValidation, "This Booking already has a Confirmation set")
	}
	b.Confirmation = c
	return nil
}
