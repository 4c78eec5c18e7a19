package extraction

import (
	"context"
	"sync"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	mu     sync.Mutex
	events []ExtractedEvent

	StoreErr error
}

func (s *StubRepository) Store(_ context.Context, event ExtractedEvent) (ExtractedEvent, error) {
	if s.StoreErr != nil {
		return ExtractedEvent{}, s.StoreErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return event, nil
}

func (s *StubRepository) FindRecent(_ context.Context, limit int) ([]ExtractedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := make([]ExtractedEvent, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, s.events[i])
	}
	return recent, nil
}
