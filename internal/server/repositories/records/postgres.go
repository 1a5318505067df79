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

// PostgresRepository implements record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pgRecordColumns = `id, owner_id, email, secret, description, category, starred, deleted, deleted_at, created_at, updated_at`

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Record, error) {
	query := `SELECT ` + pgRecordColumns + ` FROM records WHERE owner_id=$1 ORDER BY created_at, id`

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

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Record, error) {
	query := `SELECT ` + pgRecordColumns + ` FROM records WHERE id=$1 AND owner_id=$2`

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

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (id, owner_id, email, secret, description, category, starred, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.Email, rec.Secret, rec.Description, rec.Category,
		rec.Starred, rec.Deleted, rec.DeletedAt, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	query := `
		UPDATE records
		SET email=$3, secret=$4, description=$5, category=$6, starred=$7, deleted=$8, deleted_at=$9, updated_at=$10
		WHERE id=$1 AND owner_id=$2
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerID, rec.Email, rec.Secret, rec.Description, rec.Category,
		rec.Starred, rec.Deleted, rec.DeletedAt, rec.UpdatedAt)
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

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id=$1 AND owner_id=$2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

// scanRecord reads one row regardless of whether it came from Query or
// QueryRow.
func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	var item models.Record
	var deletedAt sql.NullTime

	if err := scan(
		&item.ID, &item.OwnerID, &item.Email, &item.Secret, &item.Description,
		&item.Category, &item.Starred, &item.Deleted, &deletedAt,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		item.DeletedAt = &t
	}
	return &item, nil
}
