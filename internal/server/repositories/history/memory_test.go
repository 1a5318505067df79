package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passvault/internal/server/models"
)

func event(owner string, n int, ts time.Time) *models.HistoryEvent {
	return &models.HistoryEvent{
		ID:        fmt.Sprintf("e%04d", n),
		OwnerID:   owner,
		Type:      models.EventRecordCreate,
		Timestamp: ts,
		Summary:   fmt.Sprintf("event %d", n),
	}
}

func TestMemoryAppend_CapEvictsOldestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < Limit+1; i++ {
		require.NoError(t, repo.Append(ctx, event("u1", i, base.Add(time.Duration(i)*time.Second))))
	}

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, Limit)

	// Newest first; event 0 is gone.
	assert.Equal(t, fmt.Sprintf("event %d", Limit), got[0].Summary)
	assert.Equal(t, "event 1", got[len(got)-1].Summary)
}

func TestMemoryList_NewestFirstAndOwnerScoped(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, repo.Append(ctx, event("u1", 1, base)))
	require.NoError(t, repo.Append(ctx, event("u1", 2, base.Add(time.Minute))))
	require.NoError(t, repo.Append(ctx, event("u2", 3, base)))

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "event 2", got[0].Summary)
	assert.Equal(t, "event 1", got[1].Summary)
}

func TestMemoryClear_ReturnsCount(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, event("u1", 1, time.Now())))
	require.NoError(t, repo.Append(ctx, event("u1", 2, time.Now())))

	n, err := repo.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
