package lostbed

import (
	"context"
	"sync"

	id "placements/pkg/domain"
)

// InMemoryStore backs out-of-service lookups for unit tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	periods []*LostBed
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Seed registers an out-of-service period.
func (s *InMemoryStore) Seed(period *LostBed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *period
	s.periods = append(s.periods, &copy)
}

func (s *InMemoryStore) FindOverlapping(_ context.Context, bedID id.BedID, candidate id.DateRange, exclude id.LostBedID) ([]*LostBed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*LostBed
	for _, p := range s.periods {
		if p.BedID != bedID || p.ID == exclude {
			continue
		}
		if p.Range().Overlaps(candidate) {
			copy := *p
			out = append(out, &copy)
		}
	}
	return out, nil
}
