package placementrequest

import (
	"context"

	id "placements/pkg/domain"
)

// Store persists placement requests. Implementations return
// sentinel.ErrNotFound for unknown ids.
type Store interface {
	FindByID(ctx context.Context, requestID id.PlacementRequestID) (*PlacementRequest, error)
	Create(ctx context.Context, request *PlacementRequest) error
	Update(ctx context.Context, request *PlacementRequest) error
}
