package history

import (
	"context"
	"fmt"

	"passvault/internal/dbx"
	"passvault/internal/server/models"
)

// SQLiteRepository implements journal storage for the embedded backend.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, e *models.HistoryEvent) error {
	details, err := marshalDetails(e.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO history_events (id, owner_id, event_type, ts, summary, details)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		e.ID, e.OwnerID, string(e.Type), e.Timestamp, e.Summary, details); err != nil {
		return fmt.Errorf("failed to insert history event: %w", err)
	}

	trim := `
		DELETE FROM history_events
		WHERE owner_id=? AND id NOT IN (
			SELECT id FROM history_events
			WHERE owner_id=?
			ORDER BY ts DESC, id DESC
			LIMIT ?
		)
	`
	if _, err := r.db.ExecContext(ctx, trim, e.OwnerID, e.OwnerID, Limit); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]*models.HistoryEvent, error) {
	query := `
		SELECT id, owner_id, event_type, ts, summary, details
		FROM history_events
		WHERE owner_id=?
		ORDER BY ts DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []*models.HistoryEvent
	for rows.Next() {
		item, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_events WHERE owner_id=?`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
