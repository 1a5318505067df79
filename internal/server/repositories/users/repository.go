// Package users persists vault accounts.
package users

import (
	"context"

	"passvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *models.User) error

	// GetByLogin returns the user with the given username, or
	// common.ErrorNotFound.
	GetByLogin(ctx context.Context, username string) (*models.User, error)
}
