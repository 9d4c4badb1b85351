package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/xenzys-api/internal/api"
	"github.com/xenzys-api/internal/config"
	"github.com/xenzys-api/internal/database"
	"github.com/xenzys-api/internal/idgen"
	"github.com/xenzys-api/internal/repository"
	"github.com/xenzys-api/internal/service"
	"github.com/xenzys-api/internal/storage"
	"github.com/xenzys-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Xenzys API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize video record store
	var repos *repository.Repositories
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		migrationsPath := os.Getenv("MIGRATIONS_PATH")
		if migrationsPath == "" {
			migrationsPath = "./migrations"
		}
		if err := db.RunMigrations(migrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}

		repos = repository.New(db)
	default:
		log.Warn().Msg("Using in-memory store, records are lost on restart")
		repos = repository.NewMemory()
	}

	// Initialize object storage
	var store storage.ObjectStorage
	switch cfg.Storage.Backend {
	case config.StorageB2:
		store, err = storage.NewB2(context.Background(), cfg.Storage.B2, cfg.Storage.PublicBaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize B2 storage")
		}
	default:
		store, err = storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize local storage")
		}
	}

	// Initialize services
	services := service.NewServices(repos, store, idgen.NewClock(), cfg, log)

	// Initialize router
	router := api.NewRouter(services, store, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("store", cfg.Store.Backend).
			Str("storage", cfg.Storage.Backend).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
