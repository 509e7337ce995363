package service

import (
	"context"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
)

// checkConflicts rejects the candidate range when the bed is already taken.
// A booking occupies its bed for its date range plus its turnaround buffer;
// out-of-service periods block the bed outright. Both checks use half-open
// overlap, so departing on the day another booking arrives is fine.
//
// Runs inside the caller's transaction so the check and the subsequent write
// are atomic with respect to concurrent requests for the same bed.
func (s *Service) checkConflicts(ctx context.Context, bedID id.BedID, candidate id.DateRange, exclude id.BookingID) error {
	others, err := s.bookings.FindAllForBed(ctx, bedID, exclude)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to query bookings for bed")
	}
	for _, other := range others {
		effective := s.effectiveRange(other)
		if effective.Overlaps(candidate) {
			if s.metrics != nil {
				s.metrics.IncConflict("booking")
			}
			return dErrors.Newf(dErrors.CodeConflict,
				"A Booking already exists for dates from %s which overlaps with the desired dates", effective)
		}
	}

	lostBeds, err := s.lostBeds.FindOverlapping(ctx, bedID, candidate, id.LostBedID{})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to query out-of-service periods for bed")
	}
	if len(lostBeds) > 0 {
		if s.metrics != nil {
			s.metrics.IncConflict("lost-bed")
		}
		return dErrors.Newf(dErrors.CodeConflict,
			"A Lost Bed already exists for dates from %s which overlaps with the desired dates", lostBeds[0].Range())
	}
	return nil
}

// effectiveRange is the booking's occupancy extended by its turnaround
// buffer, during which the bed stays out of service for cleaning.
func (s *Service) effectiveRange(b *models.Booking) id.DateRange {
	r := b.Range()
	if days := b.TurnaroundWorkingDays(); days > 0 {
		r.End = s.workingDays.AddWorkingDays(r.End, days)
	}
	return r
}
