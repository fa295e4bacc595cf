package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/siamcare/doctrackgo/internal/buildinfo"
	"github.com/siamcare/doctrackgo/internal/config"
	"github.com/siamcare/doctrackgo/internal/database"
	"github.com/siamcare/doctrackgo/internal/handlers"
	"github.com/siamcare/doctrackgo/internal/logging"
	"github.com/siamcare/doctrackgo/internal/models"
	"github.com/siamcare/doctrackgo/internal/repository"
	"github.com/siamcare/doctrackgo/internal/service"
	"github.com/siamcare/doctrackgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Set up logging (ring buffer feeds the admin logs endpoint)
	logger, ring := logging.New(cfg.LogLevel, 1000)
	ctx := context.Background()

	// 3. Select the storage backend
	var (
		docs  repository.DocumentRepository
		staff repository.StaffRepository
		db    *database.DB
	)
	switch cfg.Storage.Backend {
	case "file":
		logger.Info(ctx, "storage backend: file", "path", cfg.Storage.FilePath)
		cache := repository.NewTTLCache(cfg.Storage.CacheTTL)
		fileRepo, err := repository.NewFileRepository(cfg.Storage.FilePath, cache, logger)
		if err != nil {
			log.Fatalf("Failed to open file store: %v", err)
		}
		docs = fileRepo
		staff = repository.NewMemoryStaffRepository()

	default:
		logger.Info(ctx, "storage backend: postgres")
		db, err = database.Connect(cfg.Database, logger)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.Document{}, &models.StaffAuth{}); err != nil {
			logger.Warn(ctx, "schema migration warning", "error", err)
		}
		docs = repository.NewGormRepository(db, logger)
		staff = repository.NewGormStaffRepository(db)
	}

	// 4. Live dashboard hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. Application service and router
	svc := service.New(docs, cfg.Rosters, logger, hub)
	router := handlers.NewRouter(svc, staff, hub, ring, logger, cfg)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.Handler(),
	}

	// 6. Start server with graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		logger.Info(ctx, "server starting",
			"port", cfg.Port, "env", cfg.Env,
			"version", buildinfo.Version, "commit", buildinfo.CommitHash)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	logger.Info(ctx, "shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "http server shutdown error", "error", err)
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error(ctx, "database close error", "error", err)
		}
	}

	logger.Info(ctx, "shutdown complete")
}
