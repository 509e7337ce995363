package models

import (
	"time"

	"github.com/google/uuid"

	id "placements/pkg/domain"
)

// Arrival records the person moving in. The calendar ArrivalDate is derived
// by truncating ArrivalTime and the two must stay consistent; constructors
// enforce that.
type Arrival struct {
	ID                    uuid.UUID
	BookingID             id.BookingID
	ArrivalTime           time.Time
	ArrivalDate           time.Time
	ExpectedDepartureDate time.Time
	Notes                 string
	KeyWorkerStaffCode    string
	CreatedAt             time.Time
}

// NewArrival derives the calendar date from the arrival instant.
func NewArrival(bookingID id.BookingID, arrivalTime time.Time, expectedDeparture time.Time, notes, keyWorkerStaffCode string, now time.Time) *Arrival {
	return &Arrival{
		ID:                    uuid.New(),
		BookingID:             bookingID,
		ArrivalTime:           arrivalTime,
		ArrivalDate:           id.TruncateToDate(arrivalTime),
		ExpectedDepartureDate: id.TruncateToDate(expectedDeparture),
		Notes:                 notes,
		KeyWorkerStaffCode:    keyWorkerStaffCode,
		CreatedAt:             now,
	}
}

// NonArrival records that the person never moved in.
type NonArrival struct {
	ID        uuid.UUID
	BookingID id.BookingID
	Date      time.Time
	ReasonID  id.ReasonID
	Notes     string
	CreatedAt time.Time
}

// Departure records the person moving out. DestinationProviderID is required
// for approved premises and optional for temporary accommodation.
type Departure struct {
	ID                    uuid.UUID
	BookingID             id.BookingID
	DateTime              time.Time
	ReasonID              id.ReasonID
	MoveOnCategoryID      id.CategoryID
	DestinationProviderID id.ProviderID
	Notes                 string
	CreatedAt             time.Time
}

// Date returns the departure instant's calendar day.
func (d *Departure) Date() time.Time {
	return id.TruncateToDate(d.DateTime)
}

// Cancellation terminates a booking before arrival.
type Cancellation struct {
	ID        uuid.UUID
	BookingID id.BookingID
	Date      time.Time
	ReasonID  id.ReasonID
	Notes     string
	CreatedAt time.Time
}

// Confirmation acknowledges a provisional temporary-accommodation booking
// ahead of arrival. It has no meaning for approved premises.
type Confirmation struct {
	ID        uuid.UUID
	BookingID id.BookingID
	DateTime  time.Time
	Notes     string
	CreatedAt time.Time
}

// Extension is an append-only audit record of a departure date change made
// without touching the arrival date.
type Extension struct {
	ID                    uuid.UUID
	BookingID             id.BookingID
	PreviousDepartureDate time.Time
	NewDepartureDate      time.Time
	Notes                 string
	CreatedAt             time.Time
}

// DateChange is an append-only audit record of an arrival and/or departure
// date change, attributed to the user who made it.
type DateChange struct {
	ID                    uuid.UUID
	BookingID             id.BookingID
	PreviousArrivalDate   time.Time
	PreviousDepartureDate time.Time
	NewArrivalDate        time.Time
	NewDepartureDate      time.Time
	ChangedByUserID       id.UserID
	CreatedAt             time.Time
}

// Turnaround is the working-day void buffer after departure during which the
// bed stays out of service for cleaning. Recalculating replaces the value;
// zero means no buffer.
type Turnaround struct {
	ID          uuid.UUID
	BookingID   id.BookingID
	WorkingDays int
	CreatedAt   time.Time
}

// BedMove is an append-only audit record of a bed reassignment within the
// same premises.
type BedMove struct {
	ID            uuid.UUID
	BookingID     id.BookingID
	PreviousBedID id.BedID
	NewBedID      id.BedID
	Notes         string
	CreatedAt     time.Time
}
