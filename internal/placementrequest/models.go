// Package placementrequest manages the optional linkage between a booking
// and the placement request it fulfils. A qualifying cancellation spawns a
// replacement request so the case re-enters the matching queue.
package placementrequest

import (
	"time"

	id "placements/pkg/domain"
)

// Requirements captures what the requested placement must provide. Cloned
// verbatim onto replacement requests.
type Requirements struct {
	PostcodeDistrict  string
	RadiusMiles       int
	EssentialCriteria []string
	DesirableCriteria []string
}

// PlacementRequest asks for a placement for a case. BookingID is set when a
// booking fulfils it; AllocatedToUserID is the matcher working the request,
// zero while the request sits unallocated in the queue.
type PlacementRequest struct {
	ID                id.PlacementRequestID
	ApplicationID     id.ApplicationID
	Requirements      Requirements
	ExpectedArrival   time.Time
	DurationDays      int
	Notes             string
	BookingID         id.BookingID
	AllocatedToUserID id.UserID
	CreatedAt         time.Time
}

// IsFulfilled reports whether a booking has been made against this request.
func (p *PlacementRequest) IsFulfilled() bool {
	return !p.BookingID.IsNil()
}

// CloneUnallocated builds a replacement request carrying the same
// requirements, dates and notes, with no booking and no allocation.
func (p *PlacementRequest) CloneUnallocated(newID id.PlacementRequestID, now time.Time) *PlacementRequest {
	return &PlacementRequest{
		ID:              newID,
		ApplicationID:   p.ApplicationID,
		Requirements:    p.Requirements,
		ExpectedArrival: p.ExpectedArrival,
		DurationDays:    p.DurationDays,
		Notes:           p.Notes,
		CreatedAt:       now,
	}
}
