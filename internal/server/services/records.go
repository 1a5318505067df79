package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"passvault/internal/common"
	"passvault/internal/logging"
	"passvault/internal/server/models"
	"passvault/internal/server/repositories/repomanager"
	"passvault/internal/validate"
)

// RetentionPeriod is how long a trashed record survives before it becomes
// eligible for automatic purge.
const RetentionPeriod = 30 * 24 * time.Hour

// RecordService is the lifecycle engine for credential records. It is the
// only writer to the record store; every successful transition appends one
// history event, and a history failure never rolls back or fails the
// record mutation.
type RecordService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	history *HistoryService
	logger  logging.Logger
	now     func() time.Time
}

func NewRecordService(db *sql.DB, repos repomanager.RepositoryManager, history *HistoryService, logger logging.Logger) *RecordService {
	return &RecordService{
		db:      db,
		repos:   repos,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateRecordInput carries the caller-supplied fields of a new record.
type CreateRecordInput struct {
	Email       string
	Secret      string
	Description string
	Category    string
	Starred     bool
}

// UpdateRecordInput is a partial patch; nil fields keep their stored value.
type UpdateRecordInput struct {
	Email       *string
	Secret      *string
	Description *string
	Category    *string
}

// TrashedRecord pairs a trashed record with the whole days remaining before
// automatic purge.
type TrashedRecord struct {
	Record   *models.Record
	DaysLeft int
}

// DaysLeft computes ceil((RetentionPeriod − (now − deletedAt)) / 24h),
// floored at 0. A record one millisecond short of the deadline still
// reports one day left.
func DaysLeft(deletedAt, now time.Time) int {
	remaining := RetentionPeriod - now.Sub(deletedAt)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Create validates the input and stores a new active record owned by
// ownerID.
func (s *RecordService) Create(ctx context.Context, ownerID string, in CreateRecordInput) (*models.Record, error) {
	if err := validate.Record(in.Email, in.Secret, in.Description); err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = models.DefaultCategory
	}

	now := s.now()
	rec := &models.Record{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Email:       in.Email,
		Secret:      in.Secret,
		Description: in.Description,
		Category:    category,
		Starred:     in.Starred,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	repo := s.repos.Records(s.db)
	if err := repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}

	s.logEvent(ctx, ownerID, models.EventRecordCreate,
		"created record for "+rec.Email, map[string]string{"recordId": rec.ID})
	return rec, nil
}

// Get returns one active record. Trashed records are absent from the
// active view and report not found, same as Update.
func (s *RecordService) Get(ctx context.Context, ownerID, id string) (*models.Record, error) {
	rec, err := s.repos.Records(s.db).Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if rec.Deleted {
		return nil, common.ErrorNotFound
	}
	return rec, nil
}

// Update merges the patch over the stored record, re-validates the full
// field set, and persists. Trashed records are not editable and report not
// found, like the active view they are absent from.
func (s *RecordService) Update(ctx context.Context, ownerID, id string, in UpdateRecordInput) (*models.Record, error) {
	repo := s.repos.Records(s.db)

	rec, err := repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if rec.Deleted {
		// Trashed records are absent from the active view and not editable.
		return nil, common.ErrorNotFound
	}

	if in.Email != nil {
		rec.Email = *in.Email
	}
	if in.Secret != nil {
		rec.Secret = *in.Secret
	}
	if in.Description != nil {
		rec.Description = *in.Description
	}
	if in.Category != nil {
		rec.Category = *in.Category
		if rec.Category == "" {
			rec.Category = models.DefaultCategory
		}
	}

	if err := validate.Record(rec.Email, rec.Secret, rec.Description); err != nil {
		return nil, err
	}

	rec.UpdatedAt = s.now()
	if err := repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("error updating record: %w", err)
	}

	s.logEvent(ctx, ownerID, models.EventRecordUpdate,
		"updated record for "+rec.Email, map[string]string{"recordId": rec.ID})
	return rec, nil
}

// ToggleStar flips the starred flag. Allowed in any live state.
func (s *RecordService) ToggleStar(ctx context.Context, ownerID, id string) (*models.Record, error) {
	repo := s.repos.Records(s.db)

	rec, err := repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	rec.Starred = !rec.Starred
	rec.UpdatedAt = s.now()
	if err := repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("error updating record: %w", err)
	}

	s.logEvent(ctx, ownerID, models.EventRecordStar,
		fmt.Sprintf("set starred=%v on %s", rec.Starred, rec.Email),
		map[string]string{"recordId": rec.ID})
	return rec, nil
}

// SoftDelete moves an active record to the trash. Already-trashed records
// are returned unchanged.
func (s *RecordService) SoftDelete(ctx context.Context, ownerID, id string) (*models.Record, error) {
	repo := s.repos.Records(s.db)

	rec, err := repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if rec.Deleted {
		return rec, nil
	}

	now := s.now()
	rec.Deleted = true
	rec.DeletedAt = &now
	rec.UpdatedAt = now
	if err := repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("error trashing record: %w", err)
	}

	s.logEvent(ctx, ownerID, models.EventRecordDelete,
		"moved "+rec.Email+" to trash", map[string]string{"recordId": rec.ID})
	return rec, nil
}

// Restore returns a trashed record to the active set. Active records are
// returned unchanged.
func (s *RecordService) Restore(ctx context.Context, ownerID, id string) (*models.Record, error) {
	repo := s.repos.Records(s.db)

	rec, err := repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if !rec.Deleted {
		return rec, nil
	}

	rec.Deleted = false
	rec.DeletedAt = nil
	rec.UpdatedAt = s.now()
	if err := repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("error restoring record: %w", err)
	}

	s.logEvent(ctx, ownerID, models.EventRecordRestore,
		"restored "+rec.Email+" from trash", map[string]string{"recordId": rec.ID})
	return rec, nil
}

// Purge physically removes a record ("delete forever"). Purging an id that
// is already gone reports removed=false without error.
func (s *RecordService) Purge(ctx context.Context, ownerID, id string) (bool, error) {
	repo := s.repos.Records(s.db)

	removed, err := repo.Delete(ctx, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("error purging record: %w", err)
	}
	if removed {
		s.logEvent(ctx, ownerID, models.EventRecordDelete,
			"permanently deleted a record", map[string]string{"recordId": id})
	}
	return removed, nil
}

// ListActive returns the owner's active records in stable creation order,
// ready for the query pipeline.
func (s *RecordService) ListActive(ctx context.Context, ownerID string) ([]*models.Record, error) {
	all, err := s.repos.Records(s.db).List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	active := make([]*models.Record, 0, len(all))
	for _, rec := range all {
		if !rec.Deleted {
			active = append(active, rec)
		}
	}
	return active, nil
}

// ListTrash runs the retention sweep and returns the surviving trashed
// records with their remaining days. The sweep runs only here — there is no
// background timer, so expired records persist until someone opens the
// trash. Re-running the sweep with nothing eligible is a no-op, and a
// record already purged by a concurrent sweep is skipped silently.
func (s *RecordService) ListTrash(ctx context.Context, ownerID string) ([]*TrashedRecord, error) {
	repo := s.repos.Records(s.db)

	all, err := repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	now := s.now()
	var purged int
	var result []*TrashedRecord

	for _, rec := range all {
		if !rec.Deleted || rec.DeletedAt == nil {
			continue
		}
		if now.Sub(*rec.DeletedAt) >= RetentionPeriod {
			removed, err := repo.Delete(ctx, rec.ID, ownerID)
			if err != nil {
				s.logger.Warn(ctx, "auto-purge failed", "recordId", rec.ID, "error", err)
				continue
			}
			if removed {
				purged++
			}
			continue
		}
		result = append(result, &TrashedRecord{
			Record:   rec,
			DaysLeft: DaysLeft(*rec.DeletedAt, now),
		})
	}

	if purged > 0 {
		s.logEvent(ctx, ownerID, models.EventTrashAutoDelete,
			fmt.Sprintf("automatically deleted %d expired record(s)", purged),
			map[string]string{"count": fmt.Sprintf("%d", purged)})
	}
	return result, nil
}

// EmptyTrash purges every trashed record. Items are processed
// independently: one failure is skipped and the loop continues. Returns how
// many records were removed.
func (s *RecordService) EmptyTrash(ctx context.Context, ownerID string) (int, error) {
	repo := s.repos.Records(s.db)

	all, err := repo.List(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("error listing records: %w", err)
	}

	var removed int
	for _, rec := range all {
		if !rec.Deleted {
			continue
		}
		ok, err := repo.Delete(ctx, rec.ID, ownerID)
		if err != nil {
			s.logger.Warn(ctx, "empty trash: purge failed", "recordId", rec.ID, "error", err)
			continue
		}
		if ok {
			removed++
		}
	}

	if removed > 0 {
		s.logEvent(ctx, ownerID, models.EventTrashEmpty,
			fmt.Sprintf("emptied trash (%d record(s))", removed),
			map[string]string{"count": fmt.Sprintf("%d", removed)})
	}
	return removed, nil
}

// RestoreAll returns every trashed record to the active set, best-effort
// per item. Returns how many records were restored.
func (s *RecordService) RestoreAll(ctx context.Context, ownerID string) (int, error) {
	repo := s.repos.Records(s.db)

	all, err := repo.List(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("error listing records: %w", err)
	}

	now := s.now()
	var restored int
	for _, rec := range all {
		if !rec.Deleted {
			continue
		}
		rec.Deleted = false
		rec.DeletedAt = nil
		rec.UpdatedAt = now
		if err := repo.Update(ctx, rec); err != nil {
			s.logger.Warn(ctx, "restore all: restore failed", "recordId", rec.ID, "error", err)
			continue
		}
		restored++
	}

	if restored > 0 {
		s.logEvent(ctx, ownerID, models.EventRecordRestore,
			fmt.Sprintf("restored %d record(s) from trash", restored),
			map[string]string{"count": fmt.Sprintf("%d", restored)})
	}
	return restored, nil
}

// logEvent appends a history event best-effort. Logging is a side channel:
// failures are logged and swallowed so the primary operation never fails
// because of them.
func (s *RecordService) logEvent(ctx context.Context, ownerID string, t models.EventType, summary string, details map[string]string) {
	if s.history == nil {
		return
	}
	_, err := s.history.Append(ctx, &models.HistoryEvent{
		OwnerID: ownerID,
		Type:    t,
		Summary: summary,
		Details: details,
	})
	if err != nil {
		s.logger.Warn(ctx, "history append failed", "type", string(t), "error", err)
	}
}
