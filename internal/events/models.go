// Package events composes and records the domain events other systems
// consume when a placement changes. Events are durably written to an outbox
// in the same transaction as the booking mutation and dispatched to the
// event sink by a background worker after commit.
package events

import (
	"time"

	id "placements/pkg/domain"
)

// Type names the closed set of domain events this core emits.
type Type string

const (
	TypeBookingMade      Type = "placements.booking.made"
	TypePersonArrived    Type = "placements.person.arrived"
	TypePersonNotArrived Type = "placements.person.not-arrived"
	TypePersonDeparted   Type = "placements.person.departed"
	TypeBookingCancelled Type = "placements.booking.cancelled"
	TypeBookingChanged   Type = "placements.booking.changed"
)

// PersonReference identifies the person downstream systems correlate on.
type PersonReference struct {
	CRN        string `json:"crn"`
	NomsNumber string `json:"nomsNumber,omitempty"`
}

// PremisesSnapshot is the premises detail embedded in every envelope, frozen
// at emission time.
type PremisesSnapshot struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Code                   string `json:"code"`
	LegacyCode             string `json:"legacyCode,omitempty"`
	LocalAuthorityAreaName string `json:"localAuthorityAreaName"`
}

// Envelope is one domain event ready for the outbox. Exactly one of the
// detail fields matching Type is populated.
type Envelope struct {
	ID          id.EventID       `json:"id"`
	Type        Type             `json:"type"`
	OccurredAt  time.Time        `json:"occurredAt"`
	BookingID   id.BookingID     `json:"bookingId"`
	Application ApplicationRef   `json:"application"`
	Person      PersonReference  `json:"person"`
	Premises    PremisesSnapshot `json:"premises"`

	BookingMade      *BookingMadeDetails      `json:"bookingMade,omitempty"`
	PersonArrived    *PersonArrivedDetails    `json:"personArrived,omitempty"`
	PersonNotArrived *PersonNotArrivedDetails `json:"personNotArrived,omitempty"`
	PersonDeparted   *PersonDepartedDetails   `json:"personDeparted,omitempty"`
	BookingCancelled *BookingCancelledDetails `json:"bookingCancelled,omitempty"`
	BookingChanged   *BookingChangedDetails   `json:"bookingChanged,omitempty"`
}

// ApplicationRef correlates the event with the case record it concerns.
type ApplicationRef struct {
	ID          string `json:"id"`
	DetailURL   string `json:"detailUrl"`
	EventNumber string `json:"eventNumber,omitempty"`
}

type BookingMadeDetails struct {
	ArrivalDate   string `json:"arrivalDate"`
	DepartureDate string `json:"departureDate"`
}

type PersonArrivedDetails struct {
	ArrivalTime           time.Time `json:"arrivalTime"`
	ExpectedDepartureDate string    `json:"expectedDepartureDate"`
	KeyWorkerStaffCode    string    `json:"keyWorkerStaffCode,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
}

type PersonNotArrivedDetails struct {
	Date       string `json:"date"`
	ReasonName string `json:"reasonName"`
	Notes      string `json:"notes,omitempty"`
}

type PersonDepartedDetails struct {
	DepartureTime           time.Time `json:"departureTime"`
	ReasonName              string    `json:"reasonName"`
	ReasonLegacyCode        string    `json:"reasonLegacyCode,omitempty"`
	MoveOnCategoryName      string    `json:"moveOnCategoryName"`
	DestinationProviderName string    `json:"destinationProviderName,omitempty"`
}

type BookingCancelledDetails struct {
	Date       string `json:"date"`
	ReasonName string `json:"reasonName"`
	Notes      string `json:"notes,omitempty"`
}

type BookingChangedDetails struct {
	PreviousArrivalDate   string `json:"previousArrivalDate"`
	PreviousDepartureDate string `json:"previousDepartureDate"`
	NewArrivalDate        string `json:"newArrivalDate"`
	NewDepartureDate      string `json:"newDepartureDate"`
}
