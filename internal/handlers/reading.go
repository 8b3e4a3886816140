package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/internal/logger"
	"github.com/jwebster45206/storyplaces/internal/services/events"
	"github.com/jwebster45206/storyplaces/pkg/conditions"
	"github.com/jwebster45206/storyplaces/pkg/state"
	"github.com/jwebster45206/storyplaces/pkg/storage"
	"github.com/jwebster45206/storyplaces/pkg/story"
)

// CreateReadingRequest defines the request body for starting a reading
type CreateReadingRequest struct {
	Story string `json:"story"` // Required: story filename
}

// PageResult reports the gate outcome for one page.
type PageResult struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Visible bool   `json:"visible"`
	Error   string `json:"error,omitempty"`
}

type PagesResponse struct {
	ReadingID    uuid.UUID    `json:"reading_id"`
	VisiblePages []string     `json:"visible_pages"`
	Pages        []PageResult `json:"pages"`
}

type ConditionResponse struct {
	ID     string          `json:"id"`
	Type   conditions.Type `json:"type"`
	Result bool            `json:"result"`
}

type ReadingHandler struct {
	storage  storage.Storage
	events   events.Publisher
	logger   *slog.Logger
	timeZone *time.Location
	now      func() time.Time
}

// NewReadingHandler builds the handler. publisher may be nil, in which case
// no events are sent.
func NewReadingHandler(logger *slog.Logger, storage storage.Storage, publisher events.Publisher, timeZone *time.Location) *ReadingHandler {
	if timeZone == nil {
		timeZone = time.Local
	}
	return &ReadingHandler{
		storage:  storage,
		events:   publisher,
		logger:   logger,
		timeZone: timeZone,
		now:      time.Now,
	}
}

// ServeHTTP handles HTTP requests for readings
// Routes:
// POST   /v1/readings                      - Start a reading of a story
// GET    /v1/readings/{id}                 - Read a reading
// DELETE /v1/readings/{id}                 - Delete a reading
// PUT    /v1/readings/{id}/location        - Report a position fix
// DELETE /v1/readings/{id}/location        - Forget the position fix
// PUT    /v1/readings/{id}/variables       - Set or delete variables
// GET    /v1/readings/{id}/pages           - Gate every page
// GET    /v1/readings/{id}/conditions/{cid} - Evaluate one condition
func (h *ReadingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/readings"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		logger.WithError(h.logger, err).Warn("Invalid reading ID", "id", parts[0])
		writeError(w, h.logger, http.StatusBadRequest, "Invalid reading ID format")
		return
	}

	route := strings.Join(parts[1:], "/")
	switch {
	case route == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case route == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case route == "location" && r.Method == http.MethodPut:
		h.handleLocation(w, r, id)
	case route == "location" && r.Method == http.MethodDelete:
		h.handleClearLocation(w, r, id)
	case route == "variables" && r.Method == http.MethodPut:
		h.handleVariables(w, r, id)
	case route == "pages" && r.Method == http.MethodGet:
		h.handlePages(w, r, id)
	case len(parts) == 3 && parts[1] == "conditions" && r.Method == http.MethodGet:
		h.handleCondition(w, r, id, parts[2])
	case route == "" || route == "location" || route == "variables" || route == "pages" ||
		(len(parts) == 3 && parts[1] == "conditions"):
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *ReadingHandler) env(s *story.Story, reading *state.Reading) conditions.Env {
	env := reading.Env(s)
	env.Now = h.now
	env.TimeZone = h.timeZone
	return env
}

func (h *ReadingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Story == "" {
		writeError(w, h.logger, http.StatusBadRequest, "story is required")
		return
	}

	s, ok := h.loadStory(r.Context(), w, req.Story)
	if !ok {
		return
	}

	reading := state.NewReading(req.Story)
	reading.Refresh(s, h.env(s, reading))

	if err := h.storage.SaveReading(r.Context(), reading); err != nil {
		logger.WithError(logger.WithStory(h.logger, req.Story), err).Error("Failed to save reading")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save reading")
		return
	}

	logger.WithStory(logger.WithReadingID(h.logger, reading.ID), req.Story).Info("Reading created")
	writeJSON(w, h.logger, http.StatusCreated, reading)
}

func (h *ReadingHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	reading, ok := h.loadReading(r.Context(), w, id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, reading)
}

func (h *ReadingHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteReading(r.Context(), id); err != nil {
		logger.WithError(logger.WithReadingID(h.logger, id), err).Error("Failed to delete reading")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete reading")
		return
	}
	if h.events != nil {
		if err := h.events.PublishReadingDeleted(r.Context(), id); err != nil {
			logger.WithError(logger.WithReadingID(h.logger, id), err).Warn("Failed to publish reading deleted")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReadingHandler) handleLocation(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var loc conditions.LocationInformation
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		writeError(w, h.logger, http.StatusBadRequest, "latitude or longitude out of range")
		return
	}

	h.update(w, r, id, "location", func(reading *state.Reading, _ time.Time) {
		reading.SetPosition(loc)
	})
}

func (h *ReadingHandler) handleClearLocation(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	h.update(w, r, id, "location", func(reading *state.Reading, _ time.Time) {
		reading.ClearPosition()
	})
}

func (h *ReadingHandler) handleVariables(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := make(map[string]string, len(body))
	var unset []string
	for name, raw := range body {
		if name == "" {
			writeError(w, h.logger, http.StatusBadRequest, "variable name cannot be empty")
			return
		}
		value, ok, err := variableValue(raw)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, fmt.Sprintf("variable %s: %v", name, err))
			return
		}
		if ok {
			set[name] = value
		} else {
			unset = append(unset, name)
		}
	}

	h.update(w, r, id, "variables", func(reading *state.Reading, now time.Time) {
		for name, value := range set {
			reading.SetVariable(conditions.ParseReference(name), value, now)
		}
		for _, name := range unset {
			reading.DeleteVariable(conditions.ParseReference(name))
		}
	})
}

// variableValue stringifies a JSON scalar. ok is false for null, which deletes.
func variableValue(raw any) (string, bool, error) {
	switch v := raw.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	default:
		return "", false, errors.New("value must be a string, number, boolean or null")
	}
}

// update applies mutate to a stored reading, re-gates its pages, saves it and
// publishes the resulting events.
func (h *ReadingHandler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID, reason string, mutate func(*state.Reading, time.Time)) {
	ctx := r.Context()
	reading, ok := h.loadReading(ctx, w, id)
	if !ok {
		return
	}
	s, ok := h.loadStory(ctx, w, reading.StoryID)
	if !ok {
		return
	}

	mutate(reading, h.now())
	changed := reading.Refresh(s, h.env(s, reading))
	log := logger.WithReadingID(h.logger, id)

	if err := h.storage.SaveReading(ctx, reading); err != nil {
		logger.WithError(log, err).Error("Failed to save reading")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save reading")
		return
	}

	if h.events != nil {
		if err := h.events.PublishReadingUpdated(ctx, id, reason); err != nil {
			logger.WithError(log, err).Warn("Failed to publish reading update")
		}
		if changed {
			if err := h.events.PublishPagesChanged(ctx, id, reading.VisiblePages); err != nil {
				logger.WithError(log, err).Warn("Failed to publish page change")
			}
		}
	}

	writeJSON(w, h.logger, http.StatusOK, reading)
}

func (h *ReadingHandler) handlePages(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	reading, ok := h.loadReading(r.Context(), w, id)
	if !ok {
		return
	}
	s, ok := h.loadStory(r.Context(), w, reading.StoryID)
	if !ok {
		return
	}

	resp := PagesResponse{ReadingID: id, VisiblePages: []string{}, Pages: []PageResult{}}
	for _, status := range s.EvaluatePages(h.env(s, reading)) {
		result := PageResult{ID: status.Page.ID, Name: status.Page.Name, Visible: status.Visible}
		if status.Err != nil {
			result.Error = status.Err.Error()
			logger.WithError(logger.WithReadingID(h.logger, id), status.Err).Debug("Page gate failed", "page", status.Page.ID)
		}
		if status.Visible {
			resp.VisiblePages = append(resp.VisiblePages, status.Page.ID)
		}
		resp.Pages = append(resp.Pages, result)
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *ReadingHandler) handleCondition(w http.ResponseWriter, r *http.Request, id uuid.UUID, conditionID string) {
	reading, ok := h.loadReading(r.Context(), w, id)
	if !ok {
		return
	}
	s, ok := h.loadStory(r.Context(), w, reading.StoryID)
	if !ok {
		return
	}

	cond, found := s.Conditions.Get(conditionID)
	if !found {
		writeError(w, h.logger, http.StatusNotFound, "Condition not found")
		return
	}

	result, err := cond.Evaluate(h.env(s, reading))
	if err != nil {
		logger.WithError(logger.WithReadingID(h.logger, id), err).Debug("Condition evaluation failed", "condition", conditionID)
		writeError(w, h.logger, statusForError(err), err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusOK, ConditionResponse{ID: cond.ID(), Type: cond.Type(), Result: result})
}

func (h *ReadingHandler) loadReading(ctx context.Context, w http.ResponseWriter, id uuid.UUID) (*state.Reading, bool) {
	reading, err := h.storage.LoadReading(ctx, id)
	if err != nil {
		logger.WithError(logger.WithReadingID(h.logger, id), err).Error("Failed to load reading")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load reading")
		return nil, false
	}
	if reading == nil {
		writeError(w, h.logger, http.StatusNotFound, "Reading not found")
		return nil, false
	}
	return reading, true
}

func (h *ReadingHandler) loadStory(ctx context.Context, w http.ResponseWriter, filename string) (*story.Story, bool) {
	s, err := h.storage.GetStory(ctx, filename)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, h.logger, http.StatusNotFound, "Story not found")
			return nil, false
		case errors.Is(err, storage.ErrInvalidName):
			writeError(w, h.logger, http.StatusBadRequest, "Invalid story name")
			return nil, false
		}
		logger.WithError(logger.WithStory(h.logger, filename), err).Error("Failed to load story")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load story")
		return nil, false
	}
	return s, true
}
