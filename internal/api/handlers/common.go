package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	api "hostpulse/internal/api/application"
	apimiddleware "hostpulse/internal/api/middleware"
	metricsdomain "hostpulse/internal/metrics/domain"
)

// getLogger extracts the logger from the request context
// Falls back to slog.Default() if not found
func getLogger(r *http.Request) *slog.Logger {
	return apimiddleware.LoggerFromContext(r.Context())
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError sends a JSON error response
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}

// respondServiceError maps query errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger := getLogger(r)

	switch {
	case errors.Is(err, api.ErrInvalidLimit), errors.Is(err, api.ErrInvalidKey):
		respondJSONError(w, http.StatusBadRequest, err.Error())
	case metricsdomain.IsFatal(err):
		logger.Error("Sampler unavailable", "op", op, "err", err)
		respondJSONError(w, http.StatusServiceUnavailable, "Sampler unavailable: "+err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Request cancelled", "op", op, "err", err)
		respondJSONError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		logger.Error("Query failed", "op", op, "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to "+op+": "+err.Error())
	}
}
