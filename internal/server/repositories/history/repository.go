// Package history persists the append-only activity journal. The journal is
// bounded: appending beyond Limit entries silently evicts the oldest ones.
package history

import (
	"context"

	"passvault/internal/server/models"
)

// Limit is the maximum number of journal entries kept per owner.
const Limit = 300

// Repository is the storage boundary for history events. Entries are never
// mutated after append; eviction happens inside Append and is itself not
// logged.
type Repository interface {
	// Append stores one event and trims the owner's journal to the most
	// recent Limit entries.
	Append(ctx context.Context, e *models.HistoryEvent) error

	// List returns the owner's events, newest first.
	List(ctx context.Context, ownerID string) ([]*models.HistoryEvent, error)

	// Clear removes every event for the owner and returns how many were
	// removed.
	Clear(ctx context.Context, ownerID string) (int64, error)
}
