package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"placements/internal/booking/models"
	"placements/internal/events"
	"placements/internal/premises"
	"placements/internal/refdata"
	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/platform/sentinel"
	"placements/pkg/requestcontext"
)

// DepartureParams carries the fields for recording a person moving out.
// DestinationProviderID is required for approved premises and optional for
// temporary accommodation.
type DepartureParams struct {
	DateTime              time.Time
	ReasonID              id.ReasonID
	MoveOnCategoryID      id.CategoryID
	DestinationProviderID id.ProviderID
	Notes                 string
}

// RecordDeparture records the person moving out. Approved premises require a
// prior arrival; temporary accommodation also permits departing a booking
// that never had its arrival recorded. A PersonDeparted event is recorded
// after commit.
func (s *Service) RecordDeparture(ctx context.Context, bookingID id.BookingID, p DepartureParams) (d *models.Departure, err error) {
	ctx, span := s.startSpan(ctx, "RecordDeparture")
	defer span.End()
	defer func() { s.observe("record_departure", err) }()

	now := requestcontext.Now(ctx)
	var (
		booking   *models.Booking
		departure *models.Departure
		reason    *refdata.DepartureReason
		category  *refdata.MoveOnCategory
		provider  *refdata.DestinationProvider
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.loadBooking(txCtx, bookingID)
		if err != nil {
			return err
		}
		if err := canDepart(b); err != nil {
			return err
		}

		violations := dErrors.Violations{}
		if id.TruncateToDate(p.DateTime).Before(b.ArrivalDate) {
			violations.Add("$.dateTime", "beforeBookingArrivalDate")
		}

		reason, err = s.findDepartureReason(txCtx, b, p.ReasonID, violations)
		if err != nil {
			return err
		}
		category, err = s.findMoveOnCategory(txCtx, b, p.MoveOnCategoryID, violations)
		if err != nil {
			return err
		}
		provider, err = s.findDestinationProvider(txCtx, b, p.DestinationProviderID, violations)
		if err != nil {
			return err
		}
		if err := violations.Err(); err != nil {
			return err
		}

		departure = &models.Departure{
			ID:                    uuid.New(),
			BookingID:             b.ID,
			DateTime:              p.DateTime,
			ReasonID:              p.ReasonID,
			MoveOnCategoryID:      p.MoveOnCategoryID,
			DestinationProviderID: p.DestinationProviderID,
			Notes:                 p.Notes,
			CreatedAt:             now,
		}
		if err := b.RecordDeparture(departure); err != nil {
			return err
		}
		if err := s.bookings.Update(txCtx, b); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist departure")
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, booking, events.TypePersonDeparted, func(prem *premises.Premises, person events.PersonReference) *events.Envelope {
		return s.composer.PersonDeparted(booking, departure, reason, category, provider, prem, person, now)
	})
	return departure, nil
}

func canDepart(b *models.Booking) error {
	switch b.Outcome.Kind() {
	case models.OutcomeArrived:
		return nil
	case models.OutcomeNone:
		if b.Service == id.ServiceApprovedPremises {
			return dErrors.New(dErrors.CodeGeneralValidation, "This Booking does not have an Arrival set")
		}
		return nil
	}
	return b.CanRecordOutcome()
}

func (s *Service) findDepartureReason(ctx context.Context, b *models.Booking, reasonID id.ReasonID, violations dErrors.Violations) (*refdata.DepartureReason, error) {
	reason, err := s.refData.FindDepartureReason(ctx, reasonID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load departure reason")
		}
		violations.Add("$.reasonId", "doesNotExist")
		return nil, nil
	}
	if !reason.IsActive {
		violations.Add("$.reasonId", "doesNotExist")
		return nil, nil
	}
	if !reason.Scope.Matches(b.Service) {
		violations.Add("$.reasonId", "incorrectDepartureReasonServiceScope")
	}
	return reason, nil
}

func (s *Service) findMoveOnCategory(ctx context.Context, b *models.Booking, categoryID id.CategoryID, violations dErrors.Violations) (*refdata.MoveOnCategory, error) {
	category, err := s.refData.FindMoveOnCategory(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load move-on category")
		}
		violations.Add("$.moveOnCategoryId", "doesNotExist")
		return nil, nil
	}
	if !category.IsActive {
		violations.Add("$.moveOnCategoryId", "doesNotExist")
		return nil, nil
	}
	if !category.Scope.Matches(b.Service) {
		violations.Add("$.moveOnCategoryId", "incorrectMoveOnCategoryServiceScope")
	}
	return category, nil
}

func (s *Service) findDestinationProvider(ctx context.Context, b *models.Booking, providerID id.ProviderID, violations dErrors.Violations) (*refdata.DestinationProvider, error) {
	if providerID.IsNil() {
		if b.Service != id.ServiceTemporaryAccommodation {
			violations.Add("$.destinationProviderId", "empty")
		}
		return nil, nil
	}
	provider, err := s.refData.FindDestinationProvider(ctx, providerID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load destination provider")
		}
		violations.Add("$.destinationProviderId", "doesNotExist")
		return nil, nil
	}
	if !provider.IsActive {
		violations.Add("$.destinationProviderId", "doesNotExist")
		return nil, nil
	}
	return provider, nil
}
