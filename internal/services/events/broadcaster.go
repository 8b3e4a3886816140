package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/internal/logger"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeReadingUpdated EventType = "reading.updated"
	EventTypePagesChanged   EventType = "pages.changed"
	EventTypeReadingDeleted EventType = "reading.deleted"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	ReadingID string         `json:"reading_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Channel is the pub/sub channel carrying events for one reading.
func Channel(readingID uuid.UUID) string {
	return fmt.Sprintf("reading-events:%s", readingID.String())
}

// Publisher is what handlers need from a Broadcaster.
type Publisher interface {
	PublishReadingUpdated(ctx context.Context, readingID uuid.UUID, reason string) error
	PublishPagesChanged(ctx context.Context, readingID uuid.UUID, visible []string) error
	PublishReadingDeleted(ctx context.Context, readingID uuid.UUID) error
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ Publisher = (*Broadcaster)(nil)

func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishReadingUpdated announces a change to a reading's variables or position.
func (b *Broadcaster) PublishReadingUpdated(ctx context.Context, readingID uuid.UUID, reason string) error {
	return b.publish(ctx, readingID, Event{
		Type: EventTypeReadingUpdated,
		Data: map[string]any{"reason": reason},
	})
}

// PublishPagesChanged carries the full visible page list after a refresh.
func (b *Broadcaster) PublishPagesChanged(ctx context.Context, readingID uuid.UUID, visible []string) error {
	if visible == nil {
		visible = []string{}
	}
	return b.publish(ctx, readingID, Event{
		Type: EventTypePagesChanged,
		Data: map[string]any{"visible_pages": visible},
	})
}

func (b *Broadcaster) PublishReadingDeleted(ctx context.Context, readingID uuid.UUID) error {
	return b.publish(ctx, readingID, Event{Type: EventTypeReadingDeleted})
}

func (b *Broadcaster) publish(ctx context.Context, readingID uuid.UUID, event Event) error {
	event.ReadingID = readingID.String()
	channel := Channel(readingID)
	log := logger.WithReadingID(b.logger, readingID)

	data, err := json.Marshal(event)
	if err != nil {
		logger.WithError(log, err).Error("Failed to marshal event", "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		logger.WithError(log, err).Error("Failed to publish event", "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug("Event published",
		"channel", channel,
		"event_type", event.Type)

	return nil
}
