package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
	bedID id.BedID
	now   time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.bedID = id.BedID(uuid.New())
	s.now = time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) newBooking(bedID id.BedID, arrival, departure time.Time) *models.Booking {
	s.T().Helper()
	b, err := models.NewBooking(id.NewBookingID(), bedID, id.PremisesID(uuid.New()),
		"X320741", id.ServiceApprovedPremises, arrival, departure, s.now)
	s.Require().NoError(err)
	return b
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) TestCreateAndFind() {
	b := s.newBooking(s.bedID, day(2022, 8, 10), day(2022, 8, 26))
	s.Require().NoError(s.store.Create(s.ctx, b))

	s.Run("finds by id", func() {
		found, err := s.store.FindByID(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Equal(b.ID, found.ID)
		s.Equal(b.ArrivalDate, found.ArrivalDate)
	})

	s.Run("duplicate creation conflicts", func() {
		s.ErrorIs(s.store.Create(s.ctx, b), sentinel.ErrConflict)
	})

	s.Run("missing bookings report not found", func() {
		_, err := s.store.FindByID(s.ctx, id.NewBookingID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("updating a missing booking reports not found", func() {
		ghost := s.newBooking(s.bedID, day(2022, 9, 1), day(2022, 9, 10))
		s.ErrorIs(s.store.Update(s.ctx, ghost), sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestFindAllForBed() {
	active := s.newBooking(s.bedID, day(2022, 8, 10), day(2022, 8, 26))
	s.Require().NoError(s.store.Create(s.ctx, active))

	otherBed := s.newBooking(id.BedID(uuid.New()), day(2022, 8, 10), day(2022, 8, 26))
	s.Require().NoError(s.store.Create(s.ctx, otherBed))

	cancelled := s.newBooking(s.bedID, day(2022, 9, 1), day(2022, 9, 10))
	s.Require().NoError(cancelled.RecordCancellation(&models.Cancellation{ID: uuid.New(), BookingID: cancelled.ID, Date: s.now}))
	s.Require().NoError(s.store.Create(s.ctx, cancelled))

	notArrived := s.newBooking(s.bedID, day(2022, 9, 12), day(2022, 9, 20))
	s.Require().NoError(notArrived.RecordNonArrival(&models.NonArrival{ID: uuid.New(), BookingID: notArrived.ID, Date: s.now}))
	s.Require().NoError(s.store.Create(s.ctx, notArrived))

	s.Run("returns only live bookings for the bed", func() {
		found, err := s.store.FindAllForBed(s.ctx, s.bedID, id.BookingID{})
		s.Require().NoError(err)
		s.Require().Len(found, 1)
		s.Equal(active.ID, found[0].ID)
	})

	s.Run("excludes the requested booking", func() {
		found, err := s.store.FindAllForBed(s.ctx, s.bedID, active.ID)
		s.Require().NoError(err)
		s.Empty(found)
	})
}

func (s *MemoryStoreSuite) TestReturnsClones() {
	b := s.newBooking(s.bedID, day(2022, 8, 10), day(2022, 8, 26))
	b.ApplyTurnaround(&models.Turnaround{ID: uuid.New(), BookingID: b.ID, WorkingDays: 2})
	s.Require().NoError(s.store.Create(s.ctx, b))

	found, err := s.store.FindByID(s.ctx, b.ID)
	s.Require().NoError(err)
	found.ArrivalDate = day(2022, 1, 1)
	found.Turnaround.WorkingDays = 99

	again, err := s.store.FindByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(day(2022, 8, 10), again.ArrivalDate)
	s.Equal(2, again.Turnaround.WorkingDays)
}

func (s *MemoryStoreSuite) TestAuditArenas() {
	b := s.newBooking(s.bedID, day(2022, 8, 10), day(2022, 8, 26))
	s.Require().NoError(s.store.Create(s.ctx, b))

	s.Run("extensions append in order", func() {
		for _, d := range []time.Time{day(2022, 8, 28), day(2022, 9, 2)} {
			s.Require().NoError(s.store.AppendExtension(s.ctx, &models.Extension{
				ID:               uuid.New(),
				BookingID:        b.ID,
				NewDepartureDate: d,
				CreatedAt:        s.now,
			}))
		}
		exts, err := s.store.ListExtensions(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Require().Len(exts, 2)
		s.Equal(day(2022, 8, 28), exts[0].NewDepartureDate)
		s.Equal(day(2022, 9, 2), exts[1].NewDepartureDate)
	})

	s.Run("bed moves append", func() {
		s.Require().NoError(s.store.AppendBedMove(s.ctx, &models.BedMove{
			ID:            uuid.New(),
			BookingID:     b.ID,
			PreviousBedID: s.bedID,
			NewBedID:      id.BedID(uuid.New()),
			CreatedAt:     s.now,
		}))
		moves, err := s.store.ListBedMoves(s.ctx, b.ID)
		s.Require().NoError(err)
		s.Len(moves, 1)
	})

	s.Run("arenas are scoped per booking", func() {
		other := s.newBooking(s.bedID, day(2022, 10, 1), day(2022, 10, 10))
		s.Require().NoError(s.store.Create(s.ctx, other))
		exts, err := s.store.ListExtensions(s.ctx, other.ID)
		s.Require().NoError(err)
		s.Empty(exts)
	})
}
