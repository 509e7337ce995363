package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed identifiers for the placement domain. Wrapping uuid.UUID keeps
// booking ids, bed ids and the rest from being accidentally interchanged
// at compile time.
type (
	BookingID          uuid.UUID
	BedID              uuid.UUID
	PremisesID         uuid.UUID
	ApplicationID      uuid.UUID
	PlacementRequestID uuid.UUID
	LostBedID          uuid.UUID
	EventID            uuid.UUID
	UserID             uuid.UUID
	ReasonID           uuid.UUID
	CategoryID         uuid.UUID
	ProviderID         uuid.UUID
)

func (id BookingID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id BedID) IsNil() bool              { return uuid.UUID(id) == uuid.Nil }
func (id PremisesID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id PlacementRequestID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id LostBedID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool             { return uuid.UUID(id) == uuid.Nil }
func (id ReasonID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id CategoryID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ProviderID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }

func (id BookingID) String() string          { return uuid.UUID(id).String() }
func (id BedID) String() string              { return uuid.UUID(id).String() }
func (id PremisesID) String() string         { return uuid.UUID(id).String() }
func (id ApplicationID) String() string      { return uuid.UUID(id).String() }
func (id PlacementRequestID) String() string { return uuid.UUID(id).String() }
func (id LostBedID) String() string          { return uuid.UUID(id).String() }
func (id EventID) String() string            { return uuid.UUID(id).String() }
func (id UserID) String() string             { return uuid.UUID(id).String() }
func (id ReasonID) String() string           { return uuid.UUID(id).String() }
func (id CategoryID) String() string         { return uuid.UUID(id).String() }
func (id ProviderID) String() string         { return uuid.UUID(id).String() }

// MarshalText renders the id as its canonical UUID string, so ids embedded
// in JSON payloads serialise as strings rather than byte arrays.
func (id BookingID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

// UnmarshalText parses the canonical UUID string form.
func (id *BookingID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = BookingID(u)
	return nil
}

func (id *EventID) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = EventID(u)
	return nil
}

// NewBookingID mints a random booking identifier.
func NewBookingID() BookingID { return BookingID(uuid.New()) }

// NewEventID mints a random domain event identifier.
func NewEventID() EventID { return EventID(uuid.New()) }

// NewPlacementRequestID mints a random placement request identifier.
func NewPlacementRequestID() PlacementRequestID { return PlacementRequestID(uuid.New()) }

// ParseBookingID validates and returns a BookingID from its string form.
func ParseBookingID(s string) (BookingID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return BookingID{}, fmt.Errorf("invalid booking id %q: %w", s, err)
	}
	return BookingID(u), nil
}

// ParseBedID validates and returns a BedID from its string form.
func ParseBedID(s string) (BedID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return BedID{}, fmt.Errorf("invalid bed id %q: %w", s, err)
	}
	return BedID(u), nil
}
