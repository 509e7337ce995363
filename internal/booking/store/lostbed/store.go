// Package lostbed queries out-of-service periods: date ranges during which a
// bed is unavailable independent of any booking. The periods are managed
// elsewhere; this core only reads them for conflict detection.
package lostbed

import (
	"context"
	"time"

	id "placements/pkg/domain"
)

// LostBed is an out-of-service period for a bed.
type LostBed struct {
	ID        id.LostBedID
	BedID     id.BedID
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Range returns the half-open out-of-service interval.
func (l *LostBed) Range() id.DateRange {
	return id.DateRange{Start: l.StartDate, End: l.EndDate}
}

// Store runs bed-scoped range queries over out-of-service periods.
type Store interface {
	// FindOverlapping returns periods on the bed whose range intersects
	// the candidate range, excluding the given period id.
	FindOverlapping(ctx context.Context, bedID id.BedID, candidate id.DateRange, exclude id.LostBedID) ([]*LostBed, error)
}
