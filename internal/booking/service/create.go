package service

import (
	"context"
	"errors"
	"time"

	"placements/internal/booking/models"
	"placements/internal/events"
	"placements/internal/premises"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/platform/sentinel"
	"placements/pkg/requestcontext"
)

// NewBookingParams carries the fields for booking creation. CaseRecord may be
// NoCaseRecord for record-free bookings; PlacementRequestID may be the zero
// id when the booking fulfils no request.
type NewBookingParams struct {
	BedID              id.BedID
	CRN                string
	Service            id.ServiceTag
	ArrivalDate        time.Time
	DepartureDate      time.Time
	CaseRecord         models.CaseRecord
	PlacementRequestID id.PlacementRequestID
}

// CreateBooking reserves a bed for a case over a date range. The conflict
// check and all writes run in one transaction; a BookingMade event is
// recorded after commit, and a linked placement request is marked fulfilled.
func (s *Service) CreateBooking(ctx context.Context, p NewBookingParams) (b *models.Booking, err error) {
	ctx, span := s.startSpan(ctx, "CreateBooking")
	defer span.End()
	defer func() { s.observe("create_booking", err) }()

	violations := dErrors.Violations{}
	if p.CRN == "" {
		violations.Add("$.crn", "empty")
	}

	bed, err := s.catalog.FindBed(ctx, p.BedID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bed")
		}
		violations.Add("$.bedId", "doesNotExist")
	}
	if err := violations.Err(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var booking *models.Booking
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		candidate, err := models.NewBooking(id.NewBookingID(), p.BedID, bed.PremisesID, p.CRN, p.Service, p.ArrivalDate, p.DepartureDate, now)
		if err != nil {
			return err
		}
		candidate.CaseRecord = p.CaseRecord
		candidate.PlacementRequestID = p.PlacementRequestID

		if err := s.checkConflicts(txCtx, candidate.BedID, candidate.Range(), candidate.ID); err != nil {
			return err
		}
		if err := s.bookings.Create(txCtx, candidate); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create booking")
		}

		if s.requests != nil && !p.PlacementRequestID.IsNil() {
			if err := s.requests.MarkFulfilled(txCtx, p.PlacementRequestID, candidate.ID); err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					return dErrors.NewFieldErrors(map[string]string{"$.placementRequestId": "doesNotExist"})
				}
				return err
			}
		}

		booking = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, booking, events.TypeBookingMade, func(prem *premises.Premises, person events.PersonReference) *events.Envelope {
		return s.composer.BookingMade(booking, prem, person, now)
	})
	return booking, nil
}
