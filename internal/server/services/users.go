package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"passvault/internal/common"
	"passvault/internal/dbx"
	"passvault/internal/logging"
	"passvault/internal/server/auth"
	"passvault/internal/server/config"
	"passvault/internal/server/models"
	"passvault/internal/server/repositories/repomanager"
	"passvault/internal/validate"
)

// UserService covers the thin account surface the vault needs: register,
// login, logout. Sessions are stateless JWTs; logout only journals the
// event.
type UserService struct {
	db                          *sql.DB
	repos                       repomanager.RepositoryManager
	history                     *HistoryService
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, history *HistoryService, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repos:                       repos,
		history:                     history,
		logger:                      logger,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Register creates an account. The master password is held to the same
// complexity policy as record secrets.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &validate.ValidationError{Checks: []string{"username"}}
	}
	if failed := validate.Secret(password); len(failed) > 0 {
		return nil, &validate.ValidationError{Checks: failed}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}

	// Uniqueness check and insert run in one transaction so two concurrent
	// registrations of the same name cannot both pass the check.
	create := func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		if _, err := repo.GetByLogin(ctx, username); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking username: %w", err)
		}

		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	}

	if s.db != nil {
		err = dbx.WithTx(ctx, s.db, nil, create)
	} else {
		err = create(ctx, nil)
	}
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, user.ID, models.EventRegister, "registered account "+username)
	return user, nil
}

// Login verifies credentials and returns a signed access token. Unknown
// usernames and wrong passwords both map to ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	repo := s.repos.Users(s.db)

	user, err := repo.GetByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, fmt.Errorf("error searching user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logEvent(ctx, user.ID, models.EventLogin, "logged in")
	return token, user, nil
}

// Logout journals the logout. There is no server-side session to tear down.
func (s *UserService) Logout(ctx context.Context, ownerID string) {
	s.logEvent(ctx, ownerID, models.EventLogout, "logged out")
}

func (s *UserService) logEvent(ctx context.Context, ownerID string, t models.EventType, summary string) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Append(ctx, &models.HistoryEvent{
		OwnerID: ownerID,
		Type:    t,
		Summary: summary,
	}); err != nil {
		s.logger.Warn(ctx, "history append failed", "type", string(t), "error", err)
	}
}
