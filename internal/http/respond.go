package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	"spendlog/internal/services"
	"spendlog/internal/storage"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps service and domain errors onto HTTP statuses. Internal
// detail never leaks into 5xx bodies.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: services.ErrInvalidCredentials.Error()})
	case errors.Is(err, auth.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: auth.ErrInvalidToken.Error()})
	case errors.Is(err, services.ErrDuplicateUser):
		writeJSON(w, http.StatusConflict, errorBody{Error: services.ErrDuplicateUser.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: storage.ErrNotFound.Error()})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
