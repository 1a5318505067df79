package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passvault/internal/common"
	"passvault/internal/server/models"
)

func memRecord(id, owner string) *models.Record {
	now := time.Now()
	return &models.Record{
		ID:        id,
		OwnerID:   owner,
		Email:     id + "@example.com",
		Secret:    "Abcd123!",
		Category:  models.DefaultCategory,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemory_ListIsOwnerScopedAndOrdered(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, memRecord("a", "u1")))
	require.NoError(t, repo.Create(ctx, memRecord("b", "u2")))
	require.NoError(t, repo.Create(ctx, memRecord("c", "u1")))

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestMemory_GetEnforcesOwner(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, memRecord("a", "u1")))

	_, err := repo.Get(ctx, "a", "u2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_HandsOutCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, memRecord("a", "u1")))

	got, err := repo.Get(ctx, "a", "u1")
	require.NoError(t, err)
	got.Email = "tampered@example.com"

	again, err := repo.Get(ctx, "a", "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", again.Email)
}

func TestMemory_DeleteReportsRemoval(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, memRecord("a", "u1")))

	removed, err := repo.Delete(ctx, "a", "u1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "a", "u1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemory_UpdateUnknownRecord(t *testing.T) {
	repo := NewMemoryRepository()
	err := repo.Update(context.Background(), memRecord("ghost", "u1"))
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
