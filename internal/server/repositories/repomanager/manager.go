// Package repomanager provides repository factories per storage backend, so
// services can obtain repositories bound to either the shared *sql.DB or a
// transaction handle.
package repomanager

import (
	"context"
	"database/sql"

	"passvault/internal/dbx"
	"passvault/internal/server/repositories/history"
	"passvault/internal/server/repositories/records"
	"passvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	History(db dbx.DBTX) history.Repository
	Users(db dbx.DBTX) users.Repository
}
