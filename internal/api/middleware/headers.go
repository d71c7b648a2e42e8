package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"
)

type loggerKeyType struct{}

var loggerKey loggerKeyType = struct{}{}

// NoStore marks every response as uncacheable since all payloads are live readings
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// CORSMaxAge is how long browsers may cache a preflight answer, in seconds
const CORSMaxAge = 300

// CORS allows a single configured origin, or any origin for "*".
// An empty origin disables the middleware.
func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         CORSMaxAge,
	})
}

// WithLogger stores l in the request context for handlers
func WithLogger(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), loggerKey, l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFromContext returns the request logger, falling back to slog.Default()
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
