package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyplaces/internal/config"
)

// Setup installs the service logger on stdout as the slog default.
func Setup(cfg *config.Config) *slog.Logger {
	return New(cfg, os.Stdout)
}

// New writes JSON lines in production and key=value text everywhere else.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(w, opts)
	}

	log := slog.New(handler).With("env", cfg.Environment)
	slog.SetDefault(log)
	return log
}

// WithRequestID tags entries with the X-Request-ID of the HTTP request.
func WithRequestID(log *slog.Logger, requestID string) *slog.Logger {
	return log.With("request_id", requestID)
}

// WithReadingID tags entries with the reading they concern.
func WithReadingID(log *slog.Logger, readingID uuid.UUID) *slog.Logger {
	return log.With("reading_id", readingID.String())
}

// WithStory tags entries with a story filename.
func WithStory(log *slog.Logger, filename string) *slog.Logger {
	return log.With("story", filename)
}

// WithError attaches err's message. A nil err leaves log as is.
func WithError(log *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return log
	}
	return log.With("error", err.Error())
}
