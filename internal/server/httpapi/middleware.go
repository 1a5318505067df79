package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"passvault/internal/common"
	"passvault/internal/logging"
	"passvault/internal/server/auth"
	"passvault/internal/server/metrics"
)

type contextKeyUserID struct{}

// userID returns the authenticated owner id stored by RequireAuth, or "".
func userID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyUserID{}).(string)
	return id
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user id in the request context.
func RequireAuth(secret []byte, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AccessTokenHeaderName)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, common.ErrorUnauthorized)
				return
			}

			id, err := auth.GetUserIDFromToken(token, secret)
			if err != nil {
				logger.Warn(r.Context(), "rejected token", "error", err)
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Measure records per-route request latency. The route label is the chi
// pattern, not the raw path, to keep cardinality bounded.
func Measure(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RequestDuration.
				WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}
