package history

import (
	"context"
	"sort"
	"sync"

	"passvault/internal/server/models"
)

// MemoryRepository is a thread-safe in-memory journal used by tests and the
// "memory" backend.
type MemoryRepository struct {
	mu      sync.RWMutex
	byOwner map[string][]*models.HistoryEvent
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byOwner: make(map[string][]*models.HistoryEvent)}
}

func (r *MemoryRepository) Append(ctx context.Context, e *models.HistoryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *e
	events := append(r.byOwner[e.OwnerID], &c)

	// Oldest first in storage; evict from the front on overflow.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	if len(events) > Limit {
		events = events[len(events)-Limit:]
	}
	r.byOwner[e.OwnerID] = events
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, ownerID string) ([]*models.HistoryEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.byOwner[ownerID]
	result := make([]*models.HistoryEvent, 0, len(events))
	// Newest first.
	for i := len(events) - 1; i >= 0; i-- {
		c := *events[i]
		result = append(result, &c)
	}
	return result, nil
}

func (r *MemoryRepository) Clear(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byOwner[ownerID]))
	delete(r.byOwner, ownerID)
	return n, nil
}
