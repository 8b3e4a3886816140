package handlers

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/internal/services/events"
	"github.com/jwebster45206/storyplaces/pkg/storage"
	"github.com/jwebster45206/storyplaces/pkg/story"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func harbourWalk(t *testing.T) *story.Story {
	t.Helper()
	data, err := os.ReadFile("../../data/stories/harbour_walk.json")
	require.NoError(t, err)
	s, err := story.Parse(data)
	require.NoError(t, err)
	return s
}

func newTestStorage(t *testing.T) *storage.MockStorage {
	t.Helper()
	m := storage.NewMockStorage()
	m.AddStory("harbour_walk.json", harbourWalk(t))
	return m
}

type published struct {
	Type    events.EventType
	Reading uuid.UUID
	Reason  string
	Pages   []string
}

// recordingPublisher captures events in publish order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

var _ events.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) record(e published) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) PublishReadingUpdated(ctx context.Context, id uuid.UUID, reason string) error {
	return p.record(published{Type: events.EventTypeReadingUpdated, Reading: id, Reason: reason})
}

func (p *recordingPublisher) PublishPagesChanged(ctx context.Context, id uuid.UUID, visible []string) error {
	return p.record(published{Type: events.EventTypePagesChanged, Reading: id, Pages: visible})
}

func (p *recordingPublisher) PublishReadingDeleted(ctx context.Context, id uuid.UUID) error {
	return p.record(published{Type: events.EventTypeReadingDeleted, Reading: id})
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
