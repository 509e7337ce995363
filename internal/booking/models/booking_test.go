package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
)

type BookingSuite struct {
	suite.Suite
	now time.Time
}

func TestBookingSuite(t *testing.T) {
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) SetupTest() {
	s.now = time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *BookingSuite) newBooking() *Booking {
	s.T().Helper()
	b, err := NewBooking(id.NewBookingID(), id.BedID(uuid.New()), id.PremisesID(uuid.New()),
		"X320741", id.ServiceApprovedPremises, day(2022, 8, 10), day(2022, 8, 26), s.now)
	s.Require().NoError(err)
	return b
}

func (s *BookingSuite) TestNewBooking() {
	s.Run("starts provisional with the original arrival pinned", func() {
		b := s.newBooking()
		s.Equal(StatusProvisional, b.Status())
		s.Equal(day(2022, 8, 10), b.OriginalArrivalDate)
		s.Equal(CaseRecordNone, b.CaseRecord.Kind())
	})

	s.Run("rejects a departure before the arrival", func() {
		_, err := NewBooking(id.NewBookingID(), id.BedID(uuid.New()), id.PremisesID(uuid.New()),
			"X320741", id.ServiceApprovedPremises, day(2022, 8, 26), day(2022, 8, 10), s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("rejects an empty crn", func() {
		_, err := NewBooking(id.NewBookingID(), id.BedID(uuid.New()), id.PremisesID(uuid.New()),
			"", id.ServiceApprovedPremises, day(2022, 8, 10), day(2022, 8, 26), s.now)
		s.Require().Error(err)
	})

	s.Run("truncates instants to calendar days", func() {
		b, err := NewBooking(id.NewBookingID(), id.BedID(uuid.New()), id.PremisesID(uuid.New()),
			"X320741", id.ServiceApprovedPremises,
			time.Date(2022, 8, 10, 15, 30, 0, 0, time.UTC),
			time.Date(2022, 8, 26, 9, 0, 0, 0, time.UTC),
			s.now)
		s.Require().NoError(err)
		s.Equal(day(2022, 8, 10), b.ArrivalDate)
		s.Equal(day(2022, 8, 26), b.DepartureDate)
	})
}

func (s *BookingSuite) TestOutcomeExclusion() {
	arrival := NewArrival(id.NewBookingID(), day(2022, 8, 10).Add(14*time.Hour), day(2022, 8, 26), "", "N54A999", s.now)

	s.Run("only one outcome may ever be recorded", func() {
		b := s.newBooking()
		s.Require().NoError(b.RecordArrival(arrival))

		err := b.RecordNonArrival(&NonArrival{ID: uuid.New(), BookingID: b.ID})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeGeneralValidation))
		s.Contains(err.Error(), "This Booking already has an Arrival set")

		err = b.RecordCancellation(&Cancellation{ID: uuid.New(), BookingID: b.ID})
		s.Require().Error(err)
		s.Contains(err.Error(), "This Booking already has an Arrival set")
	})

	s.Run("the occupied message names the record present", func() {
		b := s.newBooking()
		s.Require().NoError(b.RecordNonArrival(&NonArrival{ID: uuid.New(), BookingID: b.ID}))
		err := b.RecordArrival(arrival)
		s.Require().Error(err)
		s.Contains(err.Error(), "This Booking already has a Non Arrival set")

		b = s.newBooking()
		s.Require().NoError(b.RecordCancellation(&Cancellation{ID: uuid.New(), BookingID: b.ID}))
		err = b.RecordArrival(arrival)
		s.Require().Error(err)
		s.Contains(err.Error(), "This Booking already has a Cancellation set")
	})
}

func (s *BookingSuite) TestRecordArrival() {
	b := s.newBooking()
	arrival := NewArrival(b.ID, day(2022, 8, 12).Add(14*time.Hour), day(2022, 9, 2), "", "N54A999", s.now)

	s.Require().NoError(b.RecordArrival(arrival))

	s.Equal(StatusArrived, b.Status())
	s.Equal(day(2022, 8, 12), b.ArrivalDate, "arrival date rolls to the recorded day")
	s.Equal(day(2022, 9, 2), b.DepartureDate, "departure date rolls to the expected departure")
	s.Equal(day(2022, 8, 10), b.OriginalArrivalDate, "original arrival never moves")
}

func (s *BookingSuite) TestRecordDeparture() {
	b := s.newBooking()
	arrival := NewArrival(b.ID, day(2022, 8, 10).Add(14*time.Hour), day(2022, 8, 26), "", "N54A999", s.now)
	s.Require().NoError(b.RecordArrival(arrival))

	departure := &Departure{ID: uuid.New(), BookingID: b.ID, DateTime: day(2022, 8, 24).Add(11 * time.Hour)}
	s.Require().NoError(b.RecordDeparture(departure))

	s.Equal(StatusDeparted, b.Status())
	s.Equal(day(2022, 8, 24), b.DepartureDate, "departure date aligns with the departure day")

	err := b.RecordDeparture(&Departure{ID: uuid.New(), BookingID: b.ID, DateTime: day(2022, 8, 25)})
	s.Require().Error(err)
	s.Contains(err.Error(), "This Booking already has a Departure set")
}

func (s *BookingSuite) TestRecordConfirmation() {
	b := s.newBooking()
	s.Require().NoError(b.RecordConfirmation(&Confirmation{ID: uuid.New(), BookingID: b.ID, DateTime: s.now}))
	s.Equal(StatusConfirmed, b.Status())

	err := b.RecordConfirmation(&Confirmation{ID: uuid.New(), BookingID: b.ID, DateTime: s.now})
	s.Require().Error(err)
	s.Contains(err.Error(), "This Booking already has a Confirmation set")
}

func (s *BookingSuite) TestApplyTurnaround() {
	b := s.newBooking()
	s.Equal(0, b.TurnaroundWorkingDays())

	b.ApplyTurnaround(&Turnaround{ID: uuid.New(), BookingID: b.ID, WorkingDays: 2})
	s.Equal(2, b.TurnaroundWorkingDays())

	// recalculation replaces, it never stacks
	b.ApplyTurnaround(&Turnaround{ID: uuid.New(), BookingID: b.ID, WorkingDays: 5})
	s.Equal(5, b.TurnaroundWorkingDays())
}

func (s *BookingSuite) TestApplyDates() {
	b := s.newBooking()

	err := b.ApplyDates(day(2022, 8, 26), day(2022, 8, 10))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	s.Equal(day(2022, 8, 10), b.ArrivalDate, "a rejected change leaves the dates untouched")

	s.Require().NoError(b.ApplyDates(day(2022, 8, 12), day(2022, 8, 28)))
	s.Equal(day(2022, 8, 12), b.ArrivalDate)
	s.Equal(day(2022, 8, 28), b.DepartureDate)
}
