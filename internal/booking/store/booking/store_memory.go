package booking

import (
	"context"
	"sync"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
)

// InMemoryStore keeps bookings and their audit arenas in maps. It mirrors
// the postgres store's semantics closely enough that services are tested
// against it.
type InMemoryStore struct {
	mu          sync.RWMutex
	bookings    map[id.BookingID]*models.Booking
	extensions  map[id.BookingID][]*models.Extension
	dateChanges map[id.BookingID][]*models.DateChange
	bedMoves    map[id.BookingID][]*models.BedMove
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		bookings:    make(map[id.BookingID]*models.Booking),
		extensions:  make(map[id.BookingID][]*models.Extension),
		dateChanges: make(map[id.BookingID][]*models.DateChange),
		bedMoves:    make(map[id.BookingID][]*models.BedMove),
	}
}

func (s *InMemoryStore) FindByID(_ context.Context, bookingID id.BookingID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (s *InMemoryStore) Create(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[booking.ID]; exists {
		return sentinel.ErrConflict
	}
	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bookings[booking.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (s *InMemoryStore) FindAllForBed(_ context.Context, bedID id.BedID, exclude id.BookingID) ([]*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		if b.BedID != bedID || b.ID == exclude {
			continue
		}
		switch b.Status() {
		case models.StatusCancelled, models.StatusNotArrived:
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

func (s *InMemoryStore) AppendExtension(_ context.Context, ext *models.Extension) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *ext
	s.extensions[ext.BookingID] = append(s.extensions[ext.BookingID], &copy)
	return nil
}

func (s *InMemoryStore) ListExtensions(_ context.Context, bookingID id.BookingID) ([]*models.Extension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Extension, 0, len(s.extensions[bookingID]))
	for _, e := range s.extensions[bookingID] {
		copy := *e
		out = append(out, &copy)
	}
	return out, nil
}

func (s *InMemoryStore) AppendDateChange(_ context.Context, dc *models.DateChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *dc
	s.dateChanges[dc.BookingID] = append(s.dateChanges[dc.BookingID], &copy)
	return nil
}

func (s *InMemoryStore) ListDateChanges(_ context.Context, bookingID id.BookingID) ([]*models.DateChange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.DateChange, 0, len(s.dateChanges[bookingID]))
	for _, dc := range s.dateChanges[bookingID] {
		copy := *dc
		out = append(out, &copy)
	}
	return out, nil
}

func (s *InMemoryStore) AppendBedMove(_ context.Context, move *models.BedMove) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *move
	s.bedMoves[move.BookingID] = append(s.bedMoves[move.BookingID], &copy)
	return nil
}

func (s *InMemoryStore) ListBedMoves(_ context.Context, bookingID id.BookingID) ([]*models.BedMove, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.BedMove, 0, len(s.bedMoves[bookingID]))
	for _, m := range s.bedMoves[bookingID] {
		copy := *m
		out = append(out, &copy)
	}
	return out, nil
}

func cloneBooking(b *models.Booking) *models.Booking {
	clone := *b
	if b.Departure != nil {
		d := *b.Departure
		clone.Departure = &d
	}
	if b.Confirmation != nil {
		c := *b.Confirmation
		clone.Confirmation = &c
	}
	if b.Turnaround != nil {
		t := *b.Turnaround
		clone.Turnaround = &t
	}
	switch b.Outcome.Kind() {
	case models.OutcomeArrived:
		a := *b.Outcome.Arrival()
		clone.Outcome = models.ArrivedOutcome(&a)
	case models.OutcomeNotArrived:
		n := *b.Outcome.NonArrival()
		clone.Outcome = models.NotArrivedOutcome(&n)
	case models.OutcomeCancelled:
		c := *b.Outcome.Cancellation()
		clone.Outcome = models.CancelledOutcome(&c)
	}
	return &clone
}
