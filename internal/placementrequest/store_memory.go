package placementrequest

import (
	"context"
	"sync"

	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
)

// InMemoryStore backs placement request persistence for unit tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[id.PlacementRequestID]*PlacementRequest
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requests: make(map[id.PlacementRequestID]*PlacementRequest)}
}

func (s *InMemoryStore) FindByID(_ context.Context, requestID id.PlacementRequestID) (*PlacementRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copy := *r
	return &copy, nil
}

func (s *InMemoryStore) Create(_ context.Context, request *PlacementRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[request.ID]; exists {
		return sentinel.ErrConflict
	}
	copy := *request
	s.requests[request.ID] = &copy
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, request *PlacementRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[request.ID]; !exists {
		return sentinel.ErrNotFound
	}
	copy := *request
	s.requests[request.ID] = &copy
	return nil
}

// All returns every stored request, for test assertions.
func (s *InMemoryStore) All() []*PlacementRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*PlacementRequest, 0, len(s.requests))
	for _, r := range s.requests {
		copy := *r
		out = append(out, &copy)
	}
	return out
}
