package refdata

import (
	"context"
	"sync"

	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
)

// InMemoryStore backs reference-data lookups for unit tests.
type InMemoryStore struct {
	mu                   sync.RWMutex
	departureReasons     map[id.ReasonID]*DepartureReason
	moveOnCategories     map[id.CategoryID]*MoveOnCategory
	nonArrivalReasons    map[id.ReasonID]*NonArrivalReason
	cancellationReasons  map[id.ReasonID]*CancellationReason
	destinationProviders map[id.ProviderID]*DestinationProvider
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		departureReasons:     make(map[id.ReasonID]*DepartureReason),
		moveOnCategories:     make(map[id.CategoryID]*MoveOnCategory),
		nonArrivalReasons:    make(map[id.ReasonID]*NonArrivalReason),
		cancellationReasons:  make(map[id.ReasonID]*CancellationReason),
		destinationProviders: make(map[id.ProviderID]*DestinationProvider),
	}
}

func (s *InMemoryStore) SeedDepartureReason(r *DepartureReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departureReasons[r.ID] = r
}

func (s *InMemoryStore) SeedMoveOnCategory(c *MoveOnCategory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveOnCategories[c.ID] = c
}

func (s *InMemoryStore) SeedNonArrivalReason(r *NonArrivalReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonArrivalReasons[r.ID] = r
}

func (s *InMemoryStore) SeedCancellationReason(r *CancellationReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancellationReasons[r.ID] = r
}

func (s *InMemoryStore) SeedDestinationProvider(p *DestinationProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destinationProviders[p.ID] = p
}

func (s *InMemoryStore) FindDepartureReason(_ context.Context, reasonID id.ReasonID) (*DepartureReason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.departureReasons[reasonID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r, nil
}

func (s *InMemoryStore) FindMoveOnCategory(_ context.Context, categoryID id.CategoryID) (*MoveOnCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.moveOnCategories[categoryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c, nil
}

func (s *InMemoryStore) FindNonArrivalReason(_ context.Context, reasonID id.ReasonID) (*NonArrivalReason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.nonArrivalReasons[reasonID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r, nil
}

func (s *InMemoryStore) FindCancellationReason(_ context.Context, reasonID id.ReasonID) (*CancellationReason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.cancellationReasons[reasonID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return r, nil
}

func (s *InMemoryStore) FindDestinationProvider(_ context.Context, providerID id.ProviderID) (*DestinationProvider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.destinationProviders[providerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p, nil
}
