package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/pkg/state"
	"github.com/jwebster45206/storyplaces/pkg/story"
)

var (
	// ErrNotFound is returned when a story file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidName rejects story filenames that are empty, absolute,
	// escape the stories directory or lack a story extension.
	ErrInvalidName = errors.New("invalid story name")
)

// Storage defines the interface for all storage operations
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Reading operations (runtime state, Redis-backed)
	SaveReading(ctx context.Context, reading *state.Reading) error
	// LoadReading returns nil, nil when the reading does not exist or has expired.
	LoadReading(ctx context.Context, id uuid.UUID) (*state.Reading, error)
	DeleteReading(ctx context.Context, id uuid.UUID) error

	// Story operations (static, filesystem-backed)
	ListStories(ctx context.Context) (map[string]string, error)
	GetStory(ctx context.Context, filename string) (*story.Story, error)
}
