package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/internal/logger"
	"github.com/jwebster45206/storyplaces/internal/services/events"
	"github.com/redis/go-redis/v9"
)

// EventsHandler streams reading events to clients as Server-Sent Events
type EventsHandler struct {
	redisClient *redis.Client
	logger      *slog.Logger
	keepalive   time.Duration
}

func NewEventsHandler(redisClient *redis.Client, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		redisClient: redisClient,
		logger:      logger,
		keepalive:   30 * time.Second,
	}
}

// ServeHTTP handles SSE requests for reading events
// GET /v1/events/readings/{readingID}
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for events endpoint",
			"method", r.Method,
			"path", r.URL.Path)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) != 4 || pathParts[0] != "v1" || pathParts[1] != "events" || pathParts[2] != "readings" {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid path. Expected /v1/events/readings/{readingID}")
		return
	}

	readingID, err := uuid.Parse(pathParts[3])
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid reading ID format.")
		return
	}
	log := logger.WithReadingID(h.logger, readingID)

	// Subscribe before writing headers so no event published after the
	// connected message can be missed.
	channel := events.Channel(readingID)
	pubsub := h.redisClient.Subscribe(r.Context(), channel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			logger.WithError(log, err).Error("Failed to close pubsub")
		}
	}()
	if _, err := pubsub.Receive(r.Context()); err != nil {
		logger.WithError(log, err).Error("Failed to subscribe", "channel", channel)
		writeError(w, h.logger, http.StatusServiceUnavailable, "Event stream unavailable")
		return
	}

	log.Info("SSE connection established", "remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)

	msgChan := pubsub.Channel()

	keepaliveTicker := time.NewTicker(h.keepalive)
	defer keepaliveTicker.Stop()

	h.sendSSE(w, log, "connected", map[string]any{
		"reading_id": readingID.String(),
		"message":    "Connected to event stream",
	})

	for {
		select {
		case <-r.Context().Done():
			log.Info("SSE client disconnected")
			return

		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.WithError(log, err).Error("Failed to unmarshal event", "payload", msg.Payload)
				continue
			}
			h.sendSSE(w, log, string(event.Type), event.Data)
			if event.Type == events.EventTypeReadingDeleted {
				return
			}

		case <-keepaliveTicker.C:
			if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
				logger.WithError(log, err).Error("Failed to write keepalive")
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

// sendSSE sends a Server-Sent Event to the client
func (h *EventsHandler) sendSSE(w http.ResponseWriter, log *slog.Logger, eventType string, data any) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		logger.WithError(log, err).Error("Failed to marshal SSE data")
		return
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, dataJSON); err != nil {
		logger.WithError(log, err).Error("Failed to write event", "event", eventType)
		return
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
