package premises

import (
	"context"

	id "placements/pkg/domain"
)

// Store resolves catalog entities by id. Implementations return
// sentinel.ErrNotFound for unknown ids.
type Store interface {
	FindBed(ctx context.Context, bedID id.BedID) (*Bed, error)
	FindPremises(ctx context.Context, premisesID id.PremisesID) (*Premises, error)
}
