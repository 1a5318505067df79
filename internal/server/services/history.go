// Package services holds the domain services of the vault: the record
// lifecycle engine, the activity log, and the account service.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"passvault/internal/logging"
	"passvault/internal/server/models"
	"passvault/internal/server/repositories/repomanager"
)

// HistoryService is the activity log: an append-only journal of lifecycle
// events, capped per owner at the repository layer. Observers are notified
// after every append or clear so UIs can refresh; notification never blocks
// or fails the triggering write.
type HistoryService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	observers map[int]func()
	nextObs   int
}

func NewHistoryService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *HistoryService {
	return &HistoryService{
		db:        db,
		repos:     repos,
		logger:    logger,
		now:       time.Now,
		observers: make(map[int]func()),
	}
}

// Append assigns the event an id, defaults its timestamp to now, persists
// it (evicting the oldest entries beyond the cap), and notifies observers.
// The stored event is returned.
func (s *HistoryService) Append(ctx context.Context, e *models.HistoryEvent) (*models.HistoryEvent, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}

	repo := s.repos.History(s.db)
	if err := repo.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("error appending history event: %w", err)
	}

	s.notify()
	return e, nil
}

// List returns the owner's events, newest first.
func (s *HistoryService) List(ctx context.Context, ownerID string) ([]*models.HistoryEvent, error) {
	repo := s.repos.History(s.db)

	events, err := repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing history: %w", err)
	}
	return events, nil
}

// Search filters List output by a case-insensitive substring match against
// summary or event type.
func (s *HistoryService) Search(ctx context.Context, ownerID, text string) ([]*models.HistoryEvent, error) {
	events, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return events, nil
	}

	var result []*models.HistoryEvent
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Summary), needle) ||
			strings.Contains(strings.ToLower(string(e.Type)), needle) {
			result = append(result, e)
		}
	}
	return result, nil
}

// Clear removes the owner's whole journal and returns the removed count.
func (s *HistoryService) Clear(ctx context.Context, ownerID string) (int64, error) {
	repo := s.repos.History(s.db)

	n, err := repo.Clear(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("error clearing history: %w", err)
	}

	s.notify()
	return n, nil
}

// Subscribe registers fn to run after every journal change and returns a
// token for Unsubscribe.
func (s *HistoryService) Subscribe(fn func()) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return id
}

func (s *HistoryService) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers, id)
}

func (s *HistoryService) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
