package refdata

import (
	"context"

	id "placements/pkg/domain"
)

// Store resolves reference data by id. Implementations return
// sentinel.ErrNotFound for unknown ids; scope checks belong to callers.
type Store interface {
	FindDepartureReason(ctx context.Context, reasonID id.ReasonID) (*DepartureReason, error)
	FindMoveOnCategory(ctx context.Context, categoryID id.CategoryID) (*MoveOnCategory, error)
	FindNonArrivalReason(ctx context.Context, reasonID id.ReasonID) (*NonArrivalReason, error)
	FindCancellationReason(ctx context.Context, reasonID id.ReasonID) (*CancellationReason, error)
	FindDestinationProvider(ctx context.Context, providerID id.ProviderID) (*DestinationProvider, error)
}
