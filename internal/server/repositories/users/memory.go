package users

import (
	"context"
	"sync"

	"passvault/internal/common"
	"passvault/internal/server/models"
)

// MemoryRepository is a thread-safe in-memory user store used by tests and
// the "memory" backend.
type MemoryRepository struct {
	mu      sync.RWMutex
	byLogin map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byLogin: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[u.UserName]; ok {
		return common.ErrorAlreadyExists
	}
	c := *u
	r.byLogin[u.UserName] = &c
	return nil
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byLogin[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}
