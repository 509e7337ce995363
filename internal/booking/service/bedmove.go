package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/platform/sentinel"
	"placements/pkg/requestcontext"
)

// MoveBedParams carries the fields for reassigning a booking to another bed.
type MoveBedParams struct {
	NewBedID id.BedID
	Notes    string
}

// MoveBed reassigns the booking to another bed in the same premises. The
// operation is privileged; the authorization collaborator decides for the
// acting user. Only approved premises support assisted moves. The conflict
// check runs against the new bed with the booking's current dates.
func (s *Service) MoveBed(ctx context.Context, bookingID id.BookingID, p MoveBedParams) (m *models.BedMove, err error) {
	ctx, span := s.startSpan(ctx, "MoveBed")
	defer span.End()
	defer func() { s.observe("move_bed", err) }()

	if s.authorizer == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorised, "bed moves require an authorization collaborator")
	}
	allowed, err := s.authorizer.CanMoveBed(ctx, requestcontext.UserID(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "authorization check failed")
	}
	if !allowed {
		return nil, dErrors.New(dErrors.CodeUnauthorised, "user is not permitted to move beds")
	}

	now := requestcontext.Now(ctx)
	var move *models.BedMove
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.loadBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if b.Service != id.ServiceApprovedPremises {
			return dErrors.New(dErrors.CodeGeneralValidation, "Bed moves are only supported for approved premises Bookings")
		}
		if b.IsCancelled() {
			return b.CanRecordOutcome()
		}

		violations := dErrors.Violations{}
		newBed, err := s.catalog.FindBed(txCtx, p.NewBedID)
		if err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bed")
			}
			violations.Add("$.bedId", "doesNotExist")
		} else if newBed.PremisesID != b.PremisesID {
			violations.Add("$.bedId", "mustBelongToSamePremises")
		}
		if err := violations.Err(); err != nil {
			return err
		}

		if err := s.checkConflicts(txCtx, p.NewBedID, b.Range(), b.ID); err != nil {
			return err
		}

		move = &models.BedMove{
			ID:            uuid.New(),
			BookingID:     b.ID,
			PreviousBedID: b.BedID,
			NewBedID:      p.NewBedID,
			Notes:         p.Notes,
			CreatedAt:     now,
		}
		b.ApplyBed(p.NewBedID)
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist bed move")
		}
		if err := s.bookings.AppendBedMove(txCtx, move); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record bed move")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return move, nil
}
