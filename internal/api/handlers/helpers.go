package handlers

import (
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/exp/slog"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps routing errors to client-facing statuses.
// Unknown errors are logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNodeNotFound), errors.Is(err, ports.ErrPlanNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNoPath):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrCancelled):
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
	default:
		slog.ErrorContext(r.Context(), op+" failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
