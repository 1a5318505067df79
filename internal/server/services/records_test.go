package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passvault/internal/common"
	"passvault/internal/dbx"
	"passvault/internal/logging"
	"passvault/internal/server/models"
	"passvault/internal/server/repositories/history"
	"passvault/internal/server/repositories/repomanager"
	"passvault/internal/validate"
)

const owner = "u1"

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newRecordService(t *testing.T) (*RecordService, *HistoryService) {
	t.Helper()
	repos := repomanager.NewMemoryRepositoryManager()
	logger := testLogger()
	hs := NewHistoryService(nil, repos, logger)
	rs := NewRecordService(nil, repos, hs, logger)
	return rs, hs
}

func validInput() CreateRecordInput {
	return CreateRecordInput{
		Email:  "a@gmail.com",
		Secret: "Abcd123!",
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, CreateRecordInput{
		Email:       "a@gmail.com",
		Secret:      "Abcd123!",
		Description: "personal mail",
		Starred:     true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, owner, rec.OwnerID)
	assert.Equal(t, "a@gmail.com", rec.Email)
	assert.Equal(t, "Abcd123!", rec.Secret)
	assert.Equal(t, "personal mail", rec.Description)
	assert.Equal(t, models.DefaultCategory, rec.Category)
	assert.True(t, rec.Starred)
	assert.False(t, rec.Deleted)
	assert.Nil(t, rec.DeletedAt)
	assert.True(t, rec.CreatedAt.Equal(rec.UpdatedAt))

	active, err := rs.ListActive(ctx, owner)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, rec.ID, active[0].ID)
}

func TestCreate_ValidationRejectedAndNotPersisted(t *testing.T) {
	rs, hs := newRecordService(t)
	ctx := context.Background()

	_, err := rs.Create(ctx, owner, CreateRecordInput{
		Email:  "a@gmail.com",
		Secret: "abcd1234", // no uppercase, no symbol
	})
	require.Error(t, err)

	var verr *validate.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Checks, validate.CheckUppercase)
	assert.Contains(t, verr.Checks, validate.CheckSpecial)

	active, err := rs.ListActive(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, active)

	events, err := hs.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, events, "failed create must not journal")
}

func TestSoftDeleteRestore_Inverse(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rs.now = func() time.Time { return t0 }

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)

	rs.now = func() time.Time { return t0.Add(time.Hour) }
	trashed, err := rs.SoftDelete(ctx, owner, rec.ID)
	require.NoError(t, err)
	assert.True(t, trashed.Deleted)
	require.NotNil(t, trashed.DeletedAt)
	assert.True(t, trashed.DeletedAt.Equal(t0.Add(time.Hour)))

	active, err := rs.ListActive(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, active)

	trash, err := rs.ListTrash(ctx, owner)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, 30, trash[0].DaysLeft)

	rs.now = func() time.Time { return t0.Add(2 * time.Hour) }
	restored, err := rs.Restore(ctx, owner, rec.ID)
	require.NoError(t, err)

	assert.False(t, restored.Deleted)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, rec.Email, restored.Email)
	assert.Equal(t, rec.Secret, restored.Secret)
	assert.True(t, restored.CreatedAt.Equal(rec.CreatedAt))
	assert.True(t, restored.UpdatedAt.After(rec.UpdatedAt))

	active, err = rs.ListActive(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	trash, err = rs.ListTrash(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, trash)
}

func TestPurge_Terminal(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)
	_, err = rs.SoftDelete(ctx, owner, rec.ID)
	require.NoError(t, err)

	removed, err := rs.Purge(ctx, owner, rec.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	// A second purge of the same id is "not found", not an error.
	removed, err = rs.Purge(ctx, owner, rec.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListTrash_AutoPurgeBoundary(t *testing.T) {
	rs, hs := newRecordService(t)
	ctx := context.Background()

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rs.now = func() time.Time { return t0 }
	expired, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)
	_, err = rs.SoftDelete(ctx, owner, expired.ID)
	require.NoError(t, err)

	rs.now = func() time.Time { return t0.Add(2 * time.Millisecond) }
	fresh, err := rs.Create(ctx, owner, CreateRecordInput{Email: "b@yahoo.com", Secret: "Abcd123!"})
	require.NoError(t, err)
	_, err = rs.SoftDelete(ctx, owner, fresh.ID)
	require.NoError(t, err)

	// expired: deletedAt = now − 30d − 1ms; fresh: deletedAt = now − 30d + 1ms
	rs.now = func() time.Time { return t0.Add(RetentionPeriod + time.Millisecond) }

	trash, err := rs.ListTrash(ctx, owner)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, fresh.ID, trash[0].Record.ID)
	assert.Equal(t, 1, trash[0].DaysLeft, "one millisecond short of the deadline is still 1 day")

	removed, err := rs.Purge(ctx, owner, expired.ID)
	require.NoError(t, err)
	assert.False(t, removed, "sweep already purged the expired record")

	events, err := hs.List(ctx, owner)
	require.NoError(t, err)
	var autoDelete *models.HistoryEvent
	for _, e := range events {
		if e.Type == models.EventTrashAutoDelete {
			autoDelete = e
		}
	}
	require.NotNil(t, autoDelete, "sweep must journal one trash:autoDelete event")
	assert.Equal(t, "1", autoDelete.Details["count"])

	// Idempotent: nothing eligible now, no new event.
	before := len(events)
	_, err = rs.ListTrash(ctx, owner)
	require.NoError(t, err)
	events, err = hs.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, events, before)
}

func TestDaysLeft(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		deletedAt time.Time
		want      int
	}{
		{"just deleted", now, 30},
		{"one ms before deadline", now.Add(-RetentionPeriod + time.Millisecond), 1},
		{"exactly at deadline", now.Add(-RetentionPeriod), 0},
		{"past deadline", now.Add(-RetentionPeriod - time.Millisecond), 0},
		{"half way", now.Add(-15 * 24 * time.Hour), 15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DaysLeft(tc.deletedAt, now))
		})
	}
}

func TestUpdate_MergesPatch(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)

	email := "new@proton.me"
	got, err := rs.Update(ctx, owner, rec.ID, UpdateRecordInput{Email: &email})
	require.NoError(t, err)

	assert.Equal(t, "new@proton.me", got.Email)
	assert.Equal(t, rec.Secret, got.Secret, "unpatched fields keep their value")
	assert.False(t, got.UpdatedAt.Before(rec.UpdatedAt))
}

func TestUpdate_InvalidPatchRejected(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)

	bad := "weak"
	_, err = rs.Update(ctx, owner, rec.ID, UpdateRecordInput{Secret: &bad})

	var verr *validate.ValidationError
	require.True(t, errors.As(err, &verr))

	got, err := rs.ListActive(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "Abcd123!", got[0].Secret, "stored record unchanged")
}

func TestUpdate_TrashedRecordNotFound(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)
	_, err = rs.SoftDelete(ctx, owner, rec.ID)
	require.NoError(t, err)

	email := "new@proton.me"
	_, err = rs.Update(ctx, owner, rec.ID, UpdateRecordInput{Email: &email})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestToggleStar(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)

	got, err := rs.ToggleStar(ctx, owner, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.Starred)

	got, err = rs.ToggleStar(ctx, owner, rec.ID)
	require.NoError(t, err)
	assert.False(t, got.Starred)
}

func TestEmptyTrash_CountsRemovals(t *testing.T) {
	rs, hs := newRecordService(t)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		rec, err := rs.Create(ctx, owner, CreateRecordInput{Email: email, Secret: "Abcd123!"})
		require.NoError(t, err)
		if email != "c@x.com" {
			_, err = rs.SoftDelete(ctx, owner, rec.ID)
			require.NoError(t, err)
		}
	}

	n, err := rs.EmptyTrash(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	trash, err := rs.ListTrash(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, trash)

	active, err := rs.ListActive(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, active, 1, "active records survive empty trash")

	events, err := hs.Search(ctx, owner, "trash:empty")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2", events[0].Details["count"])
}

func TestRestoreAll(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	var ids []string
	for _, email := range []string{"a@x.com", "b@x.com"} {
		rec, err := rs.Create(ctx, owner, CreateRecordInput{Email: email, Secret: "Abcd123!"})
		require.NoError(t, err)
		_, err = rs.SoftDelete(ctx, owner, rec.ID)
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	n, err := rs.RestoreAll(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	active, err := rs.ListActive(ctx, owner)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, rec := range active {
		assert.Contains(t, ids, rec.ID)
		assert.Nil(t, rec.DeletedAt)
	}
}

type brokenHistoryManager struct {
	repomanager.RepositoryManager
}

func (m *brokenHistoryManager) History(db dbx.DBTX) history.Repository {
	return brokenHistoryRepo{}
}

type brokenHistoryRepo struct{}

func (brokenHistoryRepo) Append(context.Context, *models.HistoryEvent) error {
	return errors.New("journal unavailable")
}

func (brokenHistoryRepo) List(context.Context, string) ([]*models.HistoryEvent, error) {
	return nil, errors.New("journal unavailable")
}

func (brokenHistoryRepo) Clear(context.Context, string) (int64, error) {
	return 0, errors.New("journal unavailable")
}

func TestCreate_HistoryFailureDoesNotFailMutation(t *testing.T) {
	repos := &brokenHistoryManager{RepositoryManager: repomanager.NewMemoryRepositoryManager()}
	logger := testLogger()
	hs := NewHistoryService(nil, repos, logger)
	rs := NewRecordService(nil, repos, hs, logger)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err, "record mutation must survive a journal failure")

	active, err := rs.ListActive(ctx, owner)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, rec.ID, active[0].ID)
}

func TestOwnerScoping(t *testing.T) {
	rs, _ := newRecordService(t)
	ctx := context.Background()

	rec, err := rs.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = rs.SoftDelete(ctx, "intruder", rec.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	removed, err := rs.Purge(ctx, "intruder", rec.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
