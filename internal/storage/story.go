package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/storyplaces/internal/logger"
	"github.com/jwebster45206/storyplaces/pkg/storage"
	"github.com/jwebster45206/storyplaces/pkg/story"
)

// Story operations (filesystem-backed)

func (r *RedisStorage) storiesDir() string {
	return filepath.Join(r.dataDir, "stories")
}

// ListStories maps story names to their filenames. Files that fail to parse
// are logged and skipped.
func (r *RedisStorage) ListStories(ctx context.Context) (map[string]string, error) {
	stories := make(map[string]string)

	err := filepath.WalkDir(r.storiesDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !story.SupportedFile(path) {
			return nil
		}

		s, err := story.Load(path)
		if err != nil {
			logger.WithError(r.logger, err).Warn("Failed to load story file", "path", path)
			return nil
		}

		filename, _ := filepath.Rel(r.storiesDir(), path)
		name := s.Name
		if name == "" {
			name = filename
		}
		stories[name] = filepath.ToSlash(filename)
		return nil
	})
	if err != nil {
		logger.WithError(r.logger, err).Error("Failed to walk stories directory")
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	return stories, nil
}

// GetStory loads one story by its path under the stories directory. Names
// that are empty, absolute, climb out with "..", or lack a story extension
// fail with storage.ErrInvalidName.
func (r *RedisStorage) GetStory(ctx context.Context, filename string) (*story.Story, error) {
	if filename == "" || strings.Contains(filename, "..") || filepath.IsAbs(filename) || !story.SupportedFile(filename) {
		return nil, fmt.Errorf("story %q: %w", filename, storage.ErrInvalidName)
	}

	s, err := story.Load(filepath.Join(r.storiesDir(), filepath.FromSlash(filename)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("story %s: %w", filename, storage.ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}
