package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/hsk-life/config"
	"github.com/user/hsk-life/internal/ai"
	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/game"
	"github.com/user/hsk-life/internal/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Secrets may live in a local .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("Failed to load .env file", zap.Error(envErr))
	}

	// Load game content
	catalog, err := loadContent(cfg.Game.AssetsDir, logger)
	if err != nil {
		logger.Fatal("Failed to load game content", zap.Error(err))
	}

	// Open save storage
	kv, err := game.OpenKeyValueStore(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to open save storage", zap.Error(err))
	}
	defer kv.Close()
	logger.Info("Save storage ready",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dsn", cfg.Database.DSN))

	// Initialize dialogue service
	ctx := context.Background()
	gemini, err := ai.NewGeminiService(ctx, cfg.Gemini, os.Getenv(cfg.Gemini.APIKeyEnv), logger.Named("gemini"))
	if err != nil {
		logger.Fatal("Failed to initialize dialogue service", zap.Error(err))
	}
	defer gemini.Close()

	// Initialize session manager
	hub := web.NewHub(logger.Named("hub"))
	manager := game.NewManager(cfg, game.ManagerOptions{
		Catalog:  catalog,
		Saves:    game.NewSaveStore(kv),
		Dialogue: gemini,
		Exam:     gemini,
		Effects:  hub,
		Logger:   logger.Named("game"),
	})

	// Set up HTTP server
	server := web.NewServer(cfg.Server, manager, hub, logger.Named("http")).HTTPServer()

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(logger)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	hub.CloseAll()
	manager.Shutdown()
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(parsed)
	}
	logger, _ := config.Build()
	return logger
}

func loadContent(assetsDir string, logger *zap.Logger) (*content.Catalog, error) {
	// Create data loader
	dataLoader := content.NewDataLoader(assetsDir)
	dataLoader.Logger = logger

	catalog, err := dataLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load content from %s: %w", assetsDir, err)
	}

	logger.Info("Loaded content",
		zap.Int("zones", len(catalog.Zones())),
		zap.Int("npcs", len(catalog.AllNPCs())),
		zap.Int("items", len(catalog.Items())),
		zap.Int("jobs", len(catalog.Jobs())))
	return catalog, nil
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
