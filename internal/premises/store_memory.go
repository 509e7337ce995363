package premises

import (
	"context"
	"sync"

	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
)

// InMemoryStore backs the catalog lookups for unit tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	beds     map[id.BedID]*Bed
	premises map[id.PremisesID]*Premises
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		beds:     make(map[id.BedID]*Bed),
		premises: make(map[id.PremisesID]*Premises),
	}
}

// Seed registers a premises and its beds.
func (s *InMemoryStore) Seed(p *Premises, beds ...*Bed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.premises[p.ID] = p
	for _, b := range beds {
		s.beds[b.ID] = b
	}
}

func (s *InMemoryStore) FindBed(_ context.Context, bedID id.BedID) (*Bed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.beds[bedID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (s *InMemoryStore) FindPremises(_ context.Context, premisesID id.PremisesID) (*Premises, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.premises[premisesID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copy := *p
	return &copy, nil
}
