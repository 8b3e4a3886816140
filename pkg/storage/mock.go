package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/pkg/state"
	"github.com/jwebster45206/storyplaces/pkg/story"
)

// MockStorage is an in-memory Storage for tests
type MockStorage struct {
	mu        sync.RWMutex
	readings  map[uuid.UUID]*state.Reading
	stories   map[string]*story.Story
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		readings: make(map[uuid.UUID]*state.Reading),
		stories:  make(map[string]*story.Story),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// AddStory registers a story under filename.
func (m *MockStorage) AddStory(filename string, s *story.Story) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stories[filename] = s
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveReading(ctx context.Context, reading *state.Reading) error {
	if reading == nil {
		return errors.New("reading cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings[reading.ID] = reading
	return nil
}

func (m *MockStorage) LoadReading(ctx context.Context, id uuid.UUID) (*state.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readings[id], nil
}

func (m *MockStorage) DeleteReading(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.readings, id)
	return nil
}

func (m *MockStorage) ListStories(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.stories))
	for filename, s := range m.stories {
		out[s.Name] = filename
	}
	return out, nil
}

func (m *MockStorage) GetStory(ctx context.Context, filename string) (*story.Story, error) {
	if filename == "" || strings.Contains(filename, "..") || !story.SupportedFile(filename) {
		return nil, fmt.Errorf("story %q: %w", filename, ErrInvalidName)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stories[filename]
	if !ok {
		return nil, fmt.Errorf("story %s: %w", filename, ErrNotFound)
	}
	return s, nil
}
