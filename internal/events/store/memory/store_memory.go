package memory

import (
	"context"
	"sync"
	"time"

	"placements/internal/events"
	id "placements/pkg/domain"
	"placements/pkg/platform/sentinel"
)

// InMemoryStore holds envelopes in insertion order, tracking dispatch state
// the same way the outbox table does.
type InMemoryStore struct {
	mu         sync.RWMutex
	entries    []*entry
	failAppend bool
}

type entry struct {
	env          *events.Envelope
	dispatchedAt *time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// FailAppends makes every Append return an error, for exercising the
// persistence-failure path.
func (s *InMemoryStore) FailAppends(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAppend = fail
}

func (s *InMemoryStore) Append(_ context.Context, env *events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend {
		return sentinel.ErrUnavailable
	}
	copy := *env
	s.entries = append(s.entries, &entry{env: &copy})
	return nil
}

func (s *InMemoryStore) ListUndispatched(_ context.Context, limit int) ([]*events.Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*events.Envelope
	for _, e := range s.entries {
		if e.dispatchedAt != nil {
			continue
		}
		copy := *e.env
		out = append(out, &copy)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkDispatched(_ context.Context, eventID id.EventID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.env.ID == eventID {
			e.dispatchedAt = &at
			return nil
		}
	}
	return sentinel.ErrNotFound
}

// All returns every recorded envelope in insertion order, for assertions.
func (s *InMemoryStore) All() []*events.Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*events.Envelope, 0, len(s.entries))
	for _, e := range s.entries {
		copy := *e.env
		out = append(out, &copy)
	}
	return out
}
