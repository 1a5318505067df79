package records

import (
	"context"
	"sync"

	"passvault/internal/common"
	"passvault/internal/server/models"
)

// MemoryRepository is a thread-safe in-memory implementation used by tests
// and the "memory" backend. Listing preserves insertion order so view-level
// assertions about relative order are reproducible.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Record
	order []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Record)}
}

func (r *MemoryRepository) List(ctx context.Context, ownerID string) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Record
	for _, id := range r.order {
		rec, ok := r.byID[id]
		if !ok || rec.OwnerID != ownerID {
			continue
		}
		result = append(result, rec.Clone())
	}
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id, ownerID string) (*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return rec.Clone(), nil
}

func (r *MemoryRepository) Create(ctx context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rec.ID]; ok {
		return common.ErrorAlreadyExists
	}
	r.byID[rec.ID] = rec.Clone()
	r.order = append(r.order, rec.ID)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[rec.ID]
	if !ok || existing.OwnerID != rec.OwnerID {
		return common.ErrorNotFound
	}
	// Last write wins; there is no concurrency token.
	r.byID[rec.ID] = rec.Clone()
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok || existing.OwnerID != ownerID {
		return false, nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}
