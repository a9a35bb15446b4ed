package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/satriahrh/voicesync/adapters"
	"github.com/satriahrh/voicesync/adapters/agentapi"
	"github.com/satriahrh/voicesync/adapters/mongo"
	"github.com/satriahrh/voicesync/domain/repositories"
	"github.com/satriahrh/voicesync/internal/api"
	"github.com/satriahrh/voicesync/internal/auth"
	"github.com/satriahrh/voicesync/internal/config"
	"github.com/satriahrh/voicesync/internal/observe"
	"github.com/satriahrh/voicesync/internal/websocket"
	"github.com/satriahrh/voicesync/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger, _ := zap.NewProduction()
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Development() {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize stores
	var (
		settingsStore  repositories.SettingsStore
		workspaceStore repositories.WorkspaceStore
	)
	switch cfg.StoreBackend {
	case config.StoreMemory:
		store := adapters.NewMemoryStore()
		if cfg.SeedFile != "" {
			if err := seedMemoryStore(ctx, store, cfg.SeedFile); err != nil {
				logger.Fatal("Failed to seed memory store", zap.Error(err))
			}
			logger.Info("Memory store seeded", zap.String("file", cfg.SeedFile))
		}
		settingsStore, workspaceStore = store, store
	default:
		client, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			client.Close(closeCtx)
		}()
		settingsStore = mongo.NewSettingsRepository(client.Database)
		workspaceStore = mongo.NewWorkspaceRepository(client.Database)
	}

	agents, err := agentapi.NewClient(agentapi.Config{
		BaseURL: cfg.AgentAPIBaseURL,
		APIKey:  cfg.AgentAPIKey,
		Timeout: cfg.AgentAPITimeout,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create agent API client", zap.Error(err))
	}

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, 0)
	if err != nil {
		logger.Fatal("Failed to create token issuer", zap.Error(err))
	}

	// Initialize WebSocket hub for sync events
	hub := websocket.NewHub(logger)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	// Initialize usecase services
	synchronizer := usecase.NewSynchronizer(
		agents,
		usecase.NewResolver(cfg.MatchStrategy),
		observe.DefaultMetrics(),
		cfg.AgentAPITimeout,
		logger,
	)
	service := usecase.NewVoiceProfileService(settingsStore, workspaceStore, synchronizer, hub, cfg.ServiceConfig(), logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize API routes
	api.InitRoutes(e, hub, service, issuer, cfg.AdminAPIKey, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.StoreBackend),
		zap.String("matchStrategy", string(cfg.MatchStrategy)))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Let in-flight syncs finish so their outcome is still published
	service.Wait()
	stop()
	<-hubDone

	logger.Info("Server exited")
}

func seedMemoryStore(ctx context.Context, store *adapters.MemoryStore, path string) error {
	seed, err := config.LoadSeed(path)
	if err != nil {
		return err
	}
	for _, w := range seed.Workspaces {
		if err := store.PutWorkspace(w); err != nil {
			return err
		}
	}
	settings, err := store.Load(ctx)
	if err != nil {
		return err
	}
	settings.VoiceProfiles = seed.VoiceProfiles
	settings.UpdatedAt = time.Now().UTC()
	return store.Save(ctx, settings)
}
