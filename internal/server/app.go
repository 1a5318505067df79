// Package server initializes and runs the vault server: it picks the
// storage backend from the DSN, runs migrations, wires the services, and
// serves the HTTP API until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"passvault/internal/logging"
	"passvault/internal/server/config"
	"passvault/internal/server/httpapi"
	"passvault/internal/server/metrics"
	"passvault/internal/server/repositories/repomanager"
	"passvault/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *httpapi.Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, repos, err := openStorage(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	m := metrics.New()
	hs := services.NewHistoryService(db, repos, logger)
	rs := services.NewRecordService(db, repos, hs, logger)
	us := services.NewUserService(db, repos, hs, logger, cfg)

	handler := httpapi.NewHandler(rs, hs, us, m, logger, cfg)

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

// openStorage maps the DSN onto a backend: "memory" keeps everything
// in-process, "postgres://..." uses pgx, anything else is treated as a
// SQLite file path.
func openStorage(dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	switch {
	case dsn == "memory":
		return nil, repomanager.NewMemoryRepositoryManager(), nil
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, repomanager.NewPostgresRepositoryManager(), nil
	default:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, repomanager.NewSQLiteRepositoryManager(), nil
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	srv := httpapi.NewServer(app.config.EndpointAddr, httpapi.NewRouter(app.handler), app.logger)
	if err := srv.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
}
