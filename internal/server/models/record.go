package models

import "time"

// DefaultCategory is applied when a record is created or filtered without an
// explicit category label.
const DefaultCategory = "other"

// Record is a single stored credential, scoped to the owner that created it.
// A record is "active" while Deleted is false and "trashed" afterwards;
// trashed records keep all fields and can be restored until purged.
type Record struct {
	ID      string
	OwnerID string

	Email string
	// Secret is stored as provided, with no field-level encryption. This
	// mirrors the system passvault replaces; see README before deploying.
	Secret      string
	Description string
	Category    string
	Starred     bool

	Deleted   bool
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy, so repositories can hand out records without
// aliasing their internal state.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.DeletedAt != nil {
		t := *r.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}
