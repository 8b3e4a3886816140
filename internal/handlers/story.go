package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/storyplaces/internal/logger"
	"github.com/jwebster45206/storyplaces/pkg/storage"
)

type StoryHandler struct {
	logger  *slog.Logger
	storage storage.Storage
}

func NewStoryHandler(logger *slog.Logger, storage storage.Storage) *StoryHandler {
	return &StoryHandler{
		logger:  logger,
		storage: storage,
	}
}

// ServeHTTP handles story lookups
// Routes:
// GET /v1/stories         - List stories as {name: filename}
// GET /v1/stories/{file}  - Get one story document
func (h *StoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	filename := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/stories"), "/")
	if filename == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, filename)
}

func (h *StoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storage.ListStories(r.Context())
	if err != nil {
		logger.WithError(h.logger, err).Error("Failed to list stories")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list stories")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, stories)
}

func (h *StoryHandler) handleGet(w http.ResponseWriter, r *http.Request, filename string) {
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid filename")
		return
	}

	s, err := h.storage.GetStory(r.Context(), filename)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, h.logger, http.StatusNotFound, "Story not found")
			return
		case errors.Is(err, storage.ErrInvalidName):
			writeError(w, h.logger, http.StatusBadRequest, "Invalid filename")
			return
		}
		logger.WithError(logger.WithStory(h.logger, filename), err).Error("Failed to get story")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve story")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}
