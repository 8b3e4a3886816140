package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/storyplaces/pkg/conditions"
	"github.com/jwebster45206/storyplaces/pkg/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Error: message})
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	var (
		validation *conditions.ValidationError
		missingVar *conditions.MissingVariableError
		missing    *conditions.ConditionNotFoundError
	)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidName),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &missingVar),
		errors.As(err, &missing),
		errors.Is(err, conditions.ErrMaxDepthExceeded):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
