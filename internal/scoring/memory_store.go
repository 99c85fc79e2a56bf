package scoring

import (
	"context"
	"sync"

	"github.com/returnguard/returnguard/internal/pagination"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]*ScoreEvent // userID → events, oldest first
}

// NewMemoryStore creates an in-memory score event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string][]*ScoreEvent),
	}
}

func (s *MemoryStore) Record(ctx context.Context, event *ScoreEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *event
	s.events[event.UserID] = append(s.events[event.UserID], &e)
	return nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID string, before *pagination.Cursor, limit int) ([]*ScoreEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.events[userID]
	if len(all) == 0 {
		return nil, nil
	}

	// Most recent first, events strictly older than the cursor, up to limit
	result := make([]*ScoreEvent, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		if before != nil && !olderThan(all[i], before) {
			continue
		}
		e := *all[i]
		result = append(result, &e)
	}
	return result, nil
}

// olderThan reports whether the event sorts strictly after the cursor
// position in (scored_at DESC, id DESC) order.
func olderThan(e *ScoreEvent, c *pagination.Cursor) bool {
	if e.ScoredAt.Before(c.Timestamp) {
		return true
	}
	return e.ScoredAt.Equal(c.Timestamp) && e.ID < c.ID
}
