package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"placements/internal/events"
	"placements/internal/events/store/memory"
	id "placements/pkg/domain"
)

type published struct {
	key     string
	payload []byte
	headers map[string]string
}

type fakeSink struct {
	published []published
	failNext  bool
}

func (f *fakeSink) Publish(_ context.Context, key string, payload []byte, headers map[string]string) error {
	if f.failNext {
		f.failNext = false
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, published{key: key, payload: payload, headers: headers})
	return nil
}

type WorkerSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.InMemoryStore
	sink   *fakeSink
	worker *Worker
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewInMemoryStore()
	s.sink = &fakeSink{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.worker = New(s.store, s.sink, log, nil)
}

func (s *WorkerSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *WorkerSuite) appendEnvelope(eventType events.Type) *events.Envelope {
	s.T().Helper()
	env := &events.Envelope{
		ID:         id.NewEventID(),
		Type:       eventType,
		OccurredAt: time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC),
		BookingID:  id.BookingID(uuid.New()),
	}
	s.Require().NoError(s.store.Append(s.ctx, env))
	return env
}

func (s *WorkerSuite) TestDrain() {
	s.Run("dispatches undispatched events in order and marks them", func() {
		first := s.appendEnvelope(events.TypeBookingMade)
		second := s.appendEnvelope(events.TypePersonArrived)

		s.Require().NoError(s.worker.Drain(s.ctx))

		s.Require().Len(s.sink.published, 2)
		s.Equal(first.BookingID.String(), s.sink.published[0].key)
		s.Equal(string(events.TypeBookingMade), s.sink.published[0].headers["event-type"])
		s.Equal(first.ID.String(), s.sink.published[0].headers["event-id"])
		s.Equal(second.BookingID.String(), s.sink.published[1].key)

		var decoded events.Envelope
		s.Require().NoError(json.Unmarshal(s.sink.published[0].payload, &decoded))
		s.Equal(first.ID, decoded.ID)

		pending, err := s.store.ListUndispatched(s.ctx, 10)
		s.Require().NoError(err)
		s.Empty(pending)
	})

	s.Run("a dispatch failure leaves the event for the next tick", func() {
		env := s.appendEnvelope(events.TypeBookingCancelled)
		s.sink.failNext = true

		s.Require().NoError(s.worker.Drain(s.ctx))
		s.Empty(s.sink.published)

		pending, err := s.store.ListUndispatched(s.ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(pending, 1)
		s.Equal(env.ID, pending[0].ID)

		// the retry succeeds
		s.Require().NoError(s.worker.Drain(s.ctx))
		s.Require().Len(s.sink.published, 1)

		pending, err = s.store.ListUndispatched(s.ctx, 10)
		s.Require().NoError(err)
		s.Empty(pending)
	})

	s.Run("dispatched events are never re-delivered", func() {
		s.appendEnvelope(events.TypeBookingChanged)
		s.Require().NoError(s.worker.Drain(s.ctx))
		s.Require().NoError(s.worker.Drain(s.ctx))
		s.Len(s.sink.published, 1)
	})
}
