package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/storyplaces/internal/config"
	"github.com/jwebster45206/storyplaces/internal/handlers"
	"github.com/jwebster45206/storyplaces/internal/logger"
	"github.com/jwebster45206/storyplaces/internal/middleware"
	"github.com/jwebster45206/storyplaces/internal/services/events"
	"github.com/jwebster45206/storyplaces/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting StoryPlaces API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"time_zone", cfg.Location.String())

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.ReadingTTL, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to configure storage")
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx, 30, 2*time.Second); err != nil {
		logger.WithError(log, err).Error("Failed to connect to storage")
		os.Exit(1)
	}

	broadcaster := events.NewBroadcaster(store.Client(), log)

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(store, log))

	storyHandler := handlers.NewStoryHandler(log, store)
	mux.Handle("/v1/stories", storyHandler)
	mux.Handle("/v1/stories/", storyHandler)

	readingHandler := handlers.NewReadingHandler(log, store, broadcaster, cfg.Location)
	mux.Handle("/v1/readings", readingHandler)
	mux.Handle("/v1/readings/", readingHandler)

	mux.Handle("/v1/events/readings/", handlers.NewEventsHandler(store.Client(), log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.LoggerWith(log, mux),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the SSE endpoint holds connections open
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(log, err).Error("Server failed to start")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(log, err).Error("Server forced to shutdown")
	}

	if err := store.Close(); err != nil {
		logger.WithError(log, err).Error("Error closing storage connection")
	}

	log.Info("Server exited")
}
