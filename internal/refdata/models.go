// Package refdata resolves reference-data identifiers (reasons, categories,
// providers) selected on booking sub-records. Each entry carries a service
// scope; factories reject selections scoped to the wrong service.
package refdata

import (
	id "placements/pkg/domain"
)

// DepartureReason explains why a person departed. LegacyCode is the code the
// downstream case-management system still keys on and is embedded in
// PersonDeparted events.
type DepartureReason struct {
	ID         id.ReasonID
	Name       string
	LegacyCode string
	Scope      id.ServiceScope
	IsActive   bool
}

// MoveOnCategory classifies where a person moved on to after departure.
type MoveOnCategory struct {
	ID       id.CategoryID
	Name     string
	Scope    id.ServiceScope
	IsActive bool
}

// NonArrivalReason explains why a person never arrived.
type NonArrivalReason struct {
	ID       id.ReasonID
	Name     string
	Scope    id.ServiceScope
	IsActive bool
}

// CancellationReason explains why a booking was cancelled before arrival.
type CancellationReason struct {
	ID       id.ReasonID
	Name     string
	Scope    id.ServiceScope
	IsActive bool
}

// DestinationProvider is the organisation receiving the person on departure.
type DestinationProvider struct {
	ID       id.ProviderID
	Name     string
	IsActive bool
}
