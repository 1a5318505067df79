// Package records persists credential records, scoped by owner. The
// lifecycle service is the only writer; readers get defensive copies.
package records

import (
	"context"

	"passvault/internal/server/models"
)

// Repository is the storage boundary for records. Implementations return
// common.ErrorNotFound when the id/owner pair does not match a row.
type Repository interface {
	// List returns every record owned by ownerID, active and trashed,
	// in stable creation order. No implicit filtering.
	List(ctx context.Context, ownerID string) ([]*models.Record, error)

	// Get returns a single record by id, scoped by owner.
	Get(ctx context.Context, id, ownerID string) (*models.Record, error)

	// Create inserts a fully populated record.
	Create(ctx context.Context, r *models.Record) error

	// Update rewrites every mutable column of the record identified by
	// r.ID and r.OwnerID. Merging partial input over the stored state is
	// the service's job.
	Update(ctx context.Context, r *models.Record) error

	// Delete physically removes the record and reports whether a row was
	// removed. A missing row is not an error.
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}
