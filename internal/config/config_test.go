package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 24*time.Hour, cfg.ReadingTTL)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLoad_FromEnvironment(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PORT":        "9090",
		"ENVIRONMENT": "production",
		"LOG_LEVEL":   "WARNING",
		"REDIS_URL":   "redis://cache:6379/1",
		"READING_TTL": "90m",
		"TIME_ZONE":   "UTC",
	})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 90*time.Minute, cfg.ReadingTTL)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad duration":     {"READING_TTL": "soon"},
		"bad zone":         {"TIME_ZONE": "Mars/Olympus"},
		"non-positive ttl": {"READING_TTL": "0s"},
	}
	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(environ)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, parseLogLevel(input), input)
	}
}
