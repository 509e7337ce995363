//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"placements/internal/events"
	id "placements/pkg/domain"
	"placements/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	ctx   context.Context
	pg    *containers.PostgresContainer
	store *Store
}

func TestOutboxSuite(t *testing.T) {
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetPostgres(s.T())
	s.store = New(s.pg.DB)
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(s.ctx, "domain_events"))
}

func (s *OutboxSuite) appendEnvelope(eventType events.Type, occurredAt time.Time) *events.Envelope {
	s.T().Helper()
	env := &events.Envelope{
		ID:         id.NewEventID(),
		Type:       eventType,
		OccurredAt: occurredAt,
		BookingID:  id.BookingID(uuid.New()),
		Application: events.ApplicationRef{
			ID:          uuid.NewString(),
			DetailURL:   "https://placements.example.org/applications/abc",
			EventNumber: "2",
		},
		Person: events.PersonReference{CRN: "X320741"},
		BookingMade: &events.BookingMadeDetails{
			ArrivalDate:   "2022-08-10",
			DepartureDate: "2022-08-26",
		},
	}
	s.Require().NoError(s.store.Append(s.ctx, env))
	return env
}

func (s *OutboxSuite) TestAppendAndList() {
	occurred := time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)
	first := s.appendEnvelope(events.TypeBookingMade, occurred)
	second := s.appendEnvelope(events.TypePersonArrived, occurred.Add(time.Minute))

	pending, err := s.store.ListUndispatched(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)

	s.Equal(first.ID, pending[0].ID)
	s.Equal(events.TypeBookingMade, pending[0].Type)
	s.Equal("X320741", pending[0].Person.CRN)
	s.Require().NotNil(pending[0].BookingMade)
	s.Equal("2022-08-10", pending[0].BookingMade.ArrivalDate)
	s.Equal(second.ID, pending[1].ID)
}

func (s *OutboxSuite) TestMarkDispatched() {
	occurred := time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)
	first := s.appendEnvelope(events.TypeBookingMade, occurred)
	second := s.appendEnvelope(events.TypeBookingCancelled, occurred.Add(time.Minute))

	s.Require().NoError(s.store.MarkDispatched(s.ctx, first.ID, time.Now()))

	pending, err := s.store.ListUndispatched(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(second.ID, pending[0].ID)
}

func (s *OutboxSuite) TestListHonoursLimit() {
	occurred := time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.appendEnvelope(events.TypeBookingChanged, occurred.Add(time.Duration(i)*time.Second))
	}

	pending, err := s.store.ListUndispatched(s.ctx, 3)
	s.Require().NoError(err)
	s.Len(pending, 3)
}
