package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"placements/internal/booking/models"
	"placements/internal/premises"
	"placements/internal/refdata"
	id "placements/pkg/domain"
)

type ComposerSuite struct {
	suite.Suite
	composer *Composer
	booking  *models.Booking
	premises *premises.Premises
	person   PersonReference
	now      time.Time
}

func TestComposerSuite(t *testing.T) {
	suite.Run(t, new(ComposerSuite))
}

func (s *ComposerSuite) SetupTest() {
	s.composer = NewComposer("https://placements.example.org/applications/#id")
	s.now = time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)

	b, err := models.NewBooking(
		id.NewBookingID(),
		id.BedID(uuid.New()),
		id.PremisesID(uuid.New()),
		"X320741",
		id.ServiceApprovedPremises,
		time.Date(2022, 8, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 8, 26, 0, 0, 0, 0, time.UTC),
		s.now,
	)
	require.NoError(s.T(), err)
	b.CaseRecord = models.OnlineCaseRecord(&models.OnlineApplication{
		ID:          id.ApplicationID(uuid.New()),
		CRN:         "X320741",
		NomsNumber:  "A1234BC",
		EventNumber: "2",
		SubmittedAt: s.now,
	})
	s.booking = b

	s.premises = &premises.Premises{
		ID:                     b.PremisesID,
		Name:                   "Oak House",
		Code:                   "OAKHSE",
		LegacyCode:             "Q001",
		LocalAuthorityAreaName: "Leeds",
		Service:                id.ServiceApprovedPremises,
	}
	s.person = PersonReference{CRN: "X320741", NomsNumber: "A1234BC"}
}

func (s *ComposerSuite) TestSharedEnvelopeFields() {
	env := s.composer.BookingMade(s.booking, s.premises, s.person, s.now)

	s.False(env.ID.IsNil())
	s.Equal(TypeBookingMade, env.Type)
	s.Equal(s.now, env.OccurredAt)
	s.Equal(s.booking.ID, env.BookingID)

	appID := s.booking.CaseRecord.ApplicationID().String()
	s.Equal(appID, env.Application.ID)
	s.Equal("https://placements.example.org/applications/"+appID, env.Application.DetailURL)
	s.Equal("2", env.Application.EventNumber)

	s.Equal("X320741", env.Person.CRN)
	s.Equal("Oak House", env.Premises.Name)
	s.Equal("Q001", env.Premises.LegacyCode)
}

func (s *ComposerSuite) TestBookingMadeDetails() {
	env := s.composer.BookingMade(s.booking, s.premises, s.person, s.now)

	s.Require().NotNil(env.BookingMade)
	s.Equal("2022-08-10", env.BookingMade.ArrivalDate)
	s.Equal("2022-08-26", env.BookingMade.DepartureDate)
}

func (s *ComposerSuite) TestPersonArrivedDetails() {
	arrival := models.NewArrival(s.booking.ID,
		time.Date(2022, 8, 10, 14, 30, 0, 0, time.UTC),
		time.Date(2022, 8, 26, 0, 0, 0, 0, time.UTC),
		"arrived by train", "N54A999", s.now)

	env := s.composer.PersonArrived(s.booking, arrival, s.premises, s.person, s.now)

	s.Equal(TypePersonArrived, env.Type)
	s.Require().NotNil(env.PersonArrived)
	s.Equal(arrival.ArrivalTime, env.PersonArrived.ArrivalTime)
	s.Equal("2022-08-26", env.PersonArrived.ExpectedDepartureDate)
	s.Equal("N54A999", env.PersonArrived.KeyWorkerStaffCode)
}

func (s *ComposerSuite) TestPersonDepartedDetails() {
	departure := &models.Departure{
		ID:        uuid.New(),
		BookingID: s.booking.ID,
		DateTime:  time.Date(2022, 8, 24, 11, 0, 0, 0, time.UTC),
	}
	reason := &refdata.DepartureReason{ID: id.ReasonID(uuid.New()), Name: "Order expired", LegacyCode: "MC05"}
	category := &refdata.MoveOnCategory{ID: id.CategoryID(uuid.New()), Name: "Housing association"}

	s.Run("with a destination provider", func() {
		provider := &refdata.DestinationProvider{ID: id.ProviderID(uuid.New()), Name: "North East Region"}
		env := s.composer.PersonDeparted(s.booking, departure, reason, category, provider, s.premises, s.person, s.now)

		s.Require().NotNil(env.PersonDeparted)
		s.Equal("Order expired", env.PersonDeparted.ReasonName)
		s.Equal("MC05", env.PersonDeparted.ReasonLegacyCode)
		s.Equal("Housing association", env.PersonDeparted.MoveOnCategoryName)
		s.Equal("North East Region", env.PersonDeparted.DestinationProviderName)
	})

	s.Run("without a destination provider", func() {
		env := s.composer.PersonDeparted(s.booking, departure, reason, category, nil, s.premises, s.person, s.now)
		s.Empty(env.PersonDeparted.DestinationProviderName)
	})
}

func (s *ComposerSuite) TestBookingChangedDetails() {
	previous := id.DateRange{
		Start: time.Date(2022, 8, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, 8, 26, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.booking.ApplyDates(
		time.Date(2022, 8, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 8, 25, 0, 0, 0, 0, time.UTC),
	))

	env := s.composer.BookingChanged(s.booking, previous, s.premises, s.person, s.now)

	s.Require().NotNil(env.BookingChanged)
	s.Equal("2022-08-26", env.BookingChanged.PreviousDepartureDate)
	s.Equal("2022-08-25", env.BookingChanged.NewDepartureDate)
	s.Equal("2022-08-10", env.BookingChanged.PreviousArrivalDate)
	s.Equal("2022-08-10", env.BookingChanged.NewArrivalDate)
}
