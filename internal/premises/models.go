// Package premises exposes read-only lookups into the premises/room/bed
// catalog. The catalog itself is managed elsewhere; the booking engine only
// resolves beds for validation and premises snapshots for domain events.
package premises

import (
	id "placements/pkg/domain"
)

// Premises is the snapshot of a supervised premises embedded in domain
// events and consulted for bed-move validation.
type Premises struct {
	ID                     id.PremisesID
	Name                   string
	Code                   string
	LegacyCode             string
	LocalAuthorityAreaName string
	Service                id.ServiceTag
}

// Bed is a physical bed within a room of a premises.
type Bed struct {
	ID         id.BedID
	Name       string
	RoomName   string
	PremisesID id.PremisesID
}
