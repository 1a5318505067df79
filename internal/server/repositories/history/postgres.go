package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"passvault/internal/dbx"
	"passvault/internal/server/models"
)

// PostgresRepository implements journal storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.HistoryEvent) error {
	details, err := marshalDetails(e.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO history_events (id, owner_id, event_type, ts, summary, details)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, query,
		e.ID, e.OwnerID, string(e.Type), e.Timestamp, e.Summary, details); err != nil {
		return fmt.Errorf("failed to insert history event: %w", err)
	}

	// Evict everything older than the newest Limit entries.
	trim := `
		DELETE FROM history_events
		WHERE owner_id=$1 AND id NOT IN (
			SELECT id FROM history_events
			WHERE owner_id=$1
			ORDER BY ts DESC, id DESC
			LIMIT $2
		)
	`
	if _, err := r.db.ExecContext(ctx, trim, e.OwnerID, Limit); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.HistoryEvent, error) {
	query := `
		SELECT id, owner_id, event_type, ts, summary, details
		FROM history_events
		WHERE owner_id=$1
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

func (r *PostgresRepository) Clear(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM history_events WHERE owner_id=$1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

func scanEvent(rows *sql.Rows) (*models.HistoryEvent, error) {
	var item models.HistoryEvent
	var eventType string
	var details []byte

	if err := rows.Scan(&item.ID, &item.OwnerID, &eventType, &item.Timestamp,
		&item.Summary, &details); err != nil {
		return nil, err
	}
	item.Type = models.EventType(eventType)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &item.Details); err != nil {
			return nil, fmt.Errorf("failed to decode event details: %w", err)
		}
	}
	return &item, nil
}

func marshalDetails(details map[string]string) (any, error) {
	if len(details) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event details: %w", err)
	}
	return b, nil
}
