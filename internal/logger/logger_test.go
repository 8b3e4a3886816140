package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	id := uuid.MustParse("6f1c2a8e-0b7d-4a4e-9d8f-3c2b1a0e9f7d")
	WithError(WithStory(WithReadingID(log, id), "harbour_walk.json"), errors.New("boom")).Info("Reading saved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Reading saved", entry["msg"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, id.String(), entry["reading_id"])
	assert.Equal(t, "harbour_walk.json", entry["story"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNew_DevelopmentWritesTextAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	WithRequestID(log, "abc").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "request_id=abc")
}

func TestWithError_NilLeavesLoggerUntouched(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	assert.Same(t, log, WithError(log, nil))
	WithError(log, nil).Info("ok")
	assert.NotContains(t, buf.String(), "error=")
}
