package placementrequest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "placements/pkg/domain"
	dErrors "placements/pkg/domain-errors"
	"placements/pkg/requestcontext"
)

type LinkageSuite struct {
	suite.Suite
	ctx     context.Context
	store   *InMemoryStore
	linkage *Linkage
	now     time.Time
}

func TestLinkageSuite(t *testing.T) {
	suite.Run(t, new(LinkageSuite))
}

func (s *LinkageSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.linkage = NewLinkage(s.store, nil)
	s.now = time.Date(2022, 8, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *LinkageSuite) seedRequest() *PlacementRequest {
	s.T().Helper()
	request := &PlacementRequest{
		ID:            id.NewPlacementRequestID(),
		ApplicationID: id.ApplicationID(uuid.New()),
		Requirements: Requirements{
			PostcodeDistrict:  "LS1",
			RadiusMiles:       50,
			EssentialCriteria: []string{"groundFloor"},
			DesirableCriteria: []string{"enSuite"},
		},
		ExpectedArrival:   time.Date(2022, 8, 10, 0, 0, 0, 0, time.UTC),
		DurationDays:      16,
		Notes:             "needs ground floor access",
		AllocatedToUserID: id.UserID(uuid.New()),
		CreatedAt:         s.now.Add(-24 * time.Hour),
	}
	s.Require().NoError(s.store.Create(s.ctx, request))
	return request
}

func (s *LinkageSuite) TestMarkFulfilled() {
	s.Run("records the booking against the request", func() {
		request := s.seedRequest()
		bookingID := id.NewBookingID()

		s.Require().NoError(s.linkage.MarkFulfilled(s.ctx, request.ID, bookingID))

		stored, err := s.store.FindByID(s.ctx, request.ID)
		s.Require().NoError(err)
		s.True(stored.IsFulfilled())
		s.Equal(bookingID, stored.BookingID)
	})

	s.Run("unknown requests report not found", func() {
		err := s.linkage.MarkFulfilled(s.ctx, id.NewPlacementRequestID(), id.NewBookingID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LinkageSuite) TestSpawnReplacement() {
	s.Run("clones requirements into a fresh unallocated request", func() {
		original := s.seedRequest()
		original.BookingID = id.NewBookingID()
		s.Require().NoError(s.store.Update(s.ctx, original))

		replacement, err := s.linkage.SpawnReplacement(s.ctx, original.ID)
		s.Require().NoError(err)

		s.NotEqual(original.ID, replacement.ID)
		s.Equal(original.ApplicationID, replacement.ApplicationID)
		s.Equal(original.Requirements, replacement.Requirements)
		s.Equal(original.ExpectedArrival, replacement.ExpectedArrival)
		s.Equal(original.DurationDays, replacement.DurationDays)
		s.Equal(original.Notes, replacement.Notes)

		s.False(replacement.IsFulfilled())
		s.True(replacement.AllocatedToUserID.IsNil(), "replacements start unallocated")
		s.Equal(s.now, replacement.CreatedAt, "creation time comes from the request clock")

		s.Len(s.store.All(), 2)
	})

	s.Run("unknown requests report not found", func() {
		_, err := s.linkage.SpawnReplacement(s.ctx, id.NewPlacementRequestID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
