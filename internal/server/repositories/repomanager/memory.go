package repomanager

import (
	"context"
	"database/sql"

	"passvault/internal/dbx"
	"passvault/internal/server/repositories/history"
	"passvault/internal/server/repositories/records"
	"passvault/internal/server/repositories/users"
)

// MemoryRepositoryManager serves singleton in-memory repositories. The DBTX
// argument is ignored; there is no transaction support.
type MemoryRepositoryManager struct {
	records *records.MemoryRepository
	history *history.MemoryRepository
	users   *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		records: records.NewMemoryRepository(),
		history: history.NewMemoryRepository(),
		users:   users.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return m.records
}

func (m *MemoryRepositoryManager) History(db dbx.DBTX) history.Repository {
	return m.history
}

func (m *MemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
