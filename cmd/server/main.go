package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/noodle-factory/config"
	"github.com/user/noodle-factory/internal/game"
	"github.com/user/noodle-factory/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file (.json or .yaml)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	// Open progress store
	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		logger.Error("Failed to open progress store, progress will not persist",
			zap.String("driver", cfg.Store.Driver),
			zap.Error(err))
		store, closeStore = game.NewMemoryStore(), func() {}
	}
	defer closeStore()

	// Initialize game manager
	gameManager := game.NewGameManager(cfg, store, logger)

	// Load catalog overrides
	if err := loadGameData(gameManager, cfg.Game.DataDir, logger); err != nil {
		logger.Fatal("Failed to load game data", zap.Error(err))
	}

	// Wire the chaos feed for audio and visual collaborators
	hub := server.NewChaosHub(logger)
	defer hub.Close()
	gameManager.SetChaosListener(hub)

	srv := server.New(cfg, gameManager, hub, logger).HTTPServer()

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func openStore(cfg config.StoreConfig) (game.KeyValueStore, func(), error) {
	switch cfg.Driver {
	case "memory":
		return game.NewMemoryStore(), func() {}, nil
	case "sqlite":
		store, err := game.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "file", "":
		return game.NewFileStore(cfg.Path), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

func loadGameData(gameManager *game.GameManager, dataDir string, logger *zap.Logger) error {
	if dataDir == "" {
		return nil
	}

	// Create data loader
	dataLoader := game.NewDataLoader(dataDir)

	// Load cards
	cards, err := dataLoader.LoadCards()
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("No card overrides found, using built-in catalog", zap.String("data_dir", dataDir))
		cards = nil
	} else if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	} else {
		logger.Info("Loaded cards", zap.Int("count", cards.Len()))
	}

	// Load events
	events, err := dataLoader.LoadEvents()
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("No event overrides found, using built-in catalog", zap.String("data_dir", dataDir))
		events = nil
	} else if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	} else {
		logger.Info("Loaded events", zap.Int("count", events.Len()))
	}

	gameManager.SetCatalogs(cards, events)
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform cleanup
	logger.Info("Shutting down")
}
