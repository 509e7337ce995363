package events

import (
	"strings"
	"time"

	"placements/internal/booking/models"
	"placements/internal/premises"
	"placements/internal/refdata"
	id "placements/pkg/domain"
)

// Composer builds typed envelopes from a booking, its outcome sub-record,
// and externally supplied reference data. It performs no I/O; the caller
// decides whether to build at all (ShouldEmit) and what to do with the
// result.
type Composer struct {
	applicationURLTemplate string
}

// NewComposer takes the detail-URL template; the literal "#id" is replaced
// with the application id.
func NewComposer(applicationURLTemplate string) *Composer {
	return &Composer{applicationURLTemplate: applicationURLTemplate}
}

func (c *Composer) envelope(eventType Type, b *models.Booking, prem *premises.Premises, person PersonReference, now time.Time) *Envelope {
	appID := b.CaseRecord.ApplicationID().String()
	return &Envelope{
		ID:         id.NewEventID(),
		Type:       eventType,
		OccurredAt: now,
		BookingID:  b.ID,
		Application: ApplicationRef{
			ID:          appID,
			DetailURL:   strings.ReplaceAll(c.applicationURLTemplate, "#id", appID),
			EventNumber: b.CaseRecord.EventNumber(),
		},
		Person: person,
		Premises: PremisesSnapshot{
			ID:                     prem.ID.String(),
			Name:                   prem.Name,
			Code:                   prem.Code,
			LegacyCode:             prem.LegacyCode,
			LocalAuthorityAreaName: prem.LocalAuthorityAreaName,
		},
	}
}

// BookingMade describes a newly created booking.
func (c *Composer) BookingMade(b *models.Booking, prem *premises.Premises, person PersonReference, now time.Time) *Envelope {
	env := c.envelope(TypeBookingMade, b, prem, person, now)
	env.BookingMade = &BookingMadeDetails{
		ArrivalDate:   b.ArrivalDate.Format(id.DateLayout),
		DepartureDate: b.DepartureDate.Format(id.DateLayout),
	}
	return env
}

// PersonArrived describes a recorded arrival.
func (c *Composer) PersonArrived(b *models.Booking, arrival *models.Arrival, prem *premises.Premises, person PersonReference, now time.Time) *Envelope {
	env := c.envelope(TypePersonArrived, b, prem, person, now)
	env.PersonArrived = &PersonArrivedDetails{
		ArrivalTime:           arrival.ArrivalTime,
		ExpectedDepartureDate: arrival.ExpectedDepartureDate.Format(id.DateLayout),
		KeyWorkerStaffCode:    arrival.KeyWorkerStaffCode,
		Notes:                 arrival.Notes,
	}
	return env
}

// PersonNotArrived describes a recorded non-arrival.
func (c *Composer) PersonNotArrived(b *models.Booking, nonArrival *models.NonArrival, reason *refdata.NonArrivalReason, prem *premises.Premises, person PersonReference, now time.Time) *Envelope {
	env := c.envelope(TypePersonNotArrived, b, prem, person, now)
	env.PersonNotArrived = &PersonNotArrivedDetails{
		Date:       id.TruncateToDate(nonArrival.Date).Format(id.DateLayout),
		ReasonName: reason.Name,
		Notes:      nonArrival.Notes,
	}
	return env
}

// PersonDeparted describes a recorded departure. The departure reason's
// legacy code rides along for downstream systems still keyed on it.
func (c *Composer) PersonDeparted(b *models.Booking, departure *models.Departure, reason *refdata.DepartureReason, category *refdata.MoveOnCategory, provider *refdata.DestinationProvider, prem *premises.Premises, person PersonReference, now time.Time) *Envelope {
	env := c.envelope(TypePersonDeparted, b, prem, person, now)
	details := &PersonDepartedDetails{
		DepartureTime:      departure.DateTime,
		ReasonName:         reason.Name,
		ReasonLegacyCode:   reason.LegacyCode,
		MoveOnCategoryName: category.Name,
	}
	if provider != nil {
		details.DestinationProviderName = provider.Name
	}
	env.PersonDeparted = details
	return env
}

// BookingCancelled describes a cancellation, naming the reason.
func (c *Composer) BookingCancelled(b *models.Booking, cancellation *models.Cancellation, reason *refdata.CancellationReason, prem *premises.Premises, person PersonReference, now time.Time) *Envelope {
	env := c.envelope(TypeBookingCancelled, b, prem, person, now)
	env.BookingCancelled = &BookingCancelledDetails{
		Date:       id.TruncateToDate(cancellation.Date).Format(id.DateLayout),
		ReasonName: reason.Name,
		Notes:      cancellation.Notes,
	}
	return env
}

// BookingChanged describes a date change or extension, carrying both the
// previous and new occupancy dates.
func (c *Composer) BookingChanged(b *models.Booking, previous id.DateRange, prem *premises.Premises, person PersonReference, now time.Time) *Envelope {
	env := c.envelope(TypeBookingChanged, b, prem, person, now)
	env.BookingChanged = &BookingChangedDetails{
		PreviousArrivalDate:   previous.Start.Format(id.DateLayout),
		PreviousDepartureDate: previous.End.Format(id.DateLayout),
		NewArrivalDate:        b.ArrivalDate.Format(id.DateLayout),
		NewDepartureDate:      b.DepartureDate.Format(id.DateLayout),
	}
	return env
}
