// Package httpapi is the HTTP transport of the vault. Handlers stay thin:
// they decode, delegate to the services, and encode; all lifecycle and
// validation rules live below.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"passvault/internal/logging"
	"passvault/internal/server/config"
	"passvault/internal/server/metrics"
	"passvault/internal/server/services"
)

// Handler carries the dependencies of every route.
type Handler struct {
	records *services.RecordService
	history *services.HistoryService
	users   *services.UserService
	metrics *metrics.Metrics
	logger  logging.Logger
	secret  []byte
}

func NewHandler(records *services.RecordService, history *services.HistoryService,
	users *services.UserService, m *metrics.Metrics, logger logging.Logger, cfg *config.Config) *Handler {
	return &Handler{
		records: records,
		history: history,
		users:   users,
		metrics: m,
		logger:  logger,
		secret:  []byte(cfg.SecretKey),
	}
}

// NewRouter wires all endpoints. Everything under /api except the auth
// entry points requires a bearer token.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(Measure(h.metrics))

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.secret, h.logger))

			r.Post("/auth/logout", h.handleLogout)

			r.Get("/records", h.handleListRecords)
			r.Post("/records", h.handleCreateRecord)
			r.Get("/records/{id}", h.handleGetRecord)
			r.Put("/records/{id}", h.handleUpdateRecord)
			r.Patch("/records/{id}", h.handleUpdateRecord)
			r.Delete("/records/{id}", h.handleTrashRecord)
			r.Post("/records/{id}/star", h.handleToggleStar)

			r.Get("/trash", h.handleListTrash)
			r.Post("/trash/{id}/restore", h.handleRestoreRecord)
			r.Delete("/trash/{id}", h.handlePurgeRecord)
			r.Delete("/trash", h.handleEmptyTrash)
			r.Post("/trash/restore-all", h.handleRestoreAll)

			r.Get("/history", h.handleListHistory)
			r.Delete("/history", h.handleClearHistory)

			r.Post("/generate", h.handleGenerate)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
