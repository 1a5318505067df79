package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"passvault/internal/common"
	"passvault/internal/dbx"
	"passvault/internal/server/models"
)

// SQLiteRepository implements record storage for the embedded backend using
// a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const sqliteRecordColumns = `id, owner_id, email, secret, description, category, starred, deleted, deleted_at, created_at, updated_at`

func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]*models.Record, error) {
	query := `SELECT ` + sqliteRecordColumns + ` FROM records WHERE owner_id=? ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		item, err := scanRecord(rows.Scan)
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

func (r *SQLiteRepository) Get(ctx context.Context, id, ownerID string) (*models.Record, error) {
	query := `SELECT ` + sqliteRecordColumns + ` FROM records WHERE id=? AND owner_id=?`

	row := r.db.QueryRowContext(ctx, query, id, ownerID)
	item, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return item, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (id, owner_id, email, secret, description, category, starred, deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.Email, rec.Secret, rec.Description, rec.Category,
		rec.Starred, rec.Deleted, rec.DeletedAt, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *models.Record) error {
	query := `
		UPDATE records
		SET email=?, secret=?, description=?, category=?, starred=?, deleted=?, deleted_at=?, updated_at=?
		WHERE id=? AND owner_id=?
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.Email, rec.Secret, rec.Description, rec.Category,
		rec.Starred, rec.Deleted, rec.DeletedAt, rec.UpdatedAt,
		rec.ID, rec.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id=? AND owner_id=?`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
