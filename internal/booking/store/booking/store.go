// Package booking persists the Booking aggregate, its one-to-one
// sub-records, and the append-only audit arenas (extensions, date changes,
// bed moves) keyed by booking id.
package booking

import (
	"context"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
)

// Store is the booking repository. Implementations return
// sentinel.ErrNotFound for unknown ids.
//
// Audit records are append-only: Append* never updates or removes, and the
// List* methods return records in insertion order.
type Store interface {
	FindByID(ctx context.Context, bookingID id.BookingID) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	// Update persists the aggregate and whichever one-to-one sub-records
	// are attached. Sub-records are immutable once written; Update only
	// ever adds them or replaces the turnaround.
	Update(ctx context.Context, booking *models.Booking) error

	// FindAllForBed returns every booking for the bed that still occupies
	// it (cancelled and not-arrived bookings release the bed), excluding
	// the given booking id. The conflict checker computes effective ranges
	// including turnaround buffers on top of this.
	FindAllForBed(ctx context.Context, bedID id.BedID, exclude id.BookingID) ([]*models.Booking, error)

	AppendExtension(ctx context.Context, ext *models.Extension) error
	ListExtensions(ctx context.Context, bookingID id.BookingID) ([]*models.Extension, error)

	AppendDateChange(ctx context.Context, dc *models.DateChange) error
	ListDateChanges(ctx context.Context, bookingID id.BookingID) ([]*models.DateChange, error)

	AppendBedMove(ctx context.Context, move *models.BedMove) error
	ListBedMoves(ctx context.Context, bookingID id.BookingID) ([]*models.BedMove, error)
}
