package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/internal/logger"
	"github.com/jwebster45206/storyplaces/pkg/state"
	"github.com/jwebster45206/storyplaces/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const readingKeyPrefix = "reading:"

// RedisStorage implements the Storage interface using Redis for readings
// and the filesystem for stories
type RedisStorage struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
	ttl     time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage accepts either a bare host:port or a redis:// URL.
func NewRedisStorage(redisURL, dataDir string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opts := &redis.Options{Addr: redisURL}
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}

	if dataDir == "" {
		dataDir = "./data"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisStorage{
		client:  redis.NewClient(opts),
		logger:  logger,
		dataDir: dataDir,
		ttl:     ttl,
	}, nil
}

// Client exposes the underlying connection for pub/sub.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		logger.WithError(r.logger, err).Error("Failed to close Redis connection")
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			logger.WithError(r.logger, err).Debug("Redis not ready yet", "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func readingKey(id uuid.UUID) string {
	return readingKeyPrefix + id.String()
}

// SaveReading stamps UpdatedAt and refreshes the key's TTL.
func (r *RedisStorage) SaveReading(ctx context.Context, reading *state.Reading) error {
	if reading == nil {
		return errors.New("reading cannot be nil")
	}
	reading.UpdatedAt = time.Now()

	data, err := json.Marshal(reading)
	if err != nil {
		logger.WithError(logger.WithReadingID(r.logger, reading.ID), err).Error("Failed to marshal reading")
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	if err := r.client.Set(ctx, readingKey(reading.ID), data, r.ttl).Err(); err != nil {
		logger.WithError(logger.WithReadingID(r.logger, reading.ID), err).Error("Failed to save reading")
		return fmt.Errorf("failed to save reading: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadReading(ctx context.Context, id uuid.UUID) (*state.Reading, error) {
	data, err := r.client.Get(ctx, readingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logger.WithReadingID(r.logger, id).Debug("Reading not found")
			return nil, nil
		}
		logger.WithError(logger.WithReadingID(r.logger, id), err).Error("Failed to load reading")
		return nil, fmt.Errorf("failed to load reading: %w", err)
	}

	var reading state.Reading
	if err := json.Unmarshal(data, &reading); err != nil {
		logger.WithError(logger.WithReadingID(r.logger, id), err).Error("Failed to unmarshal reading")
		return nil, fmt.Errorf("failed to unmarshal reading: %w", err)
	}
	return &reading, nil
}

func (r *RedisStorage) DeleteReading(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, readingKey(id)).Err(); err != nil {
		logger.WithError(logger.WithReadingID(r.logger, id), err).Error("Failed to delete reading")
		return fmt.Errorf("failed to delete reading: %w", err)
	}
	return nil
}
