package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	"ms-directory/internal/config"
	"ms-directory/internal/database"
	"ms-directory/internal/database/migrations"
	"ms-directory/internal/directory"
	directory_db "ms-directory/internal/directory/db"
	"ms-directory/internal/directory/directory_api"
	"ms-directory/internal/directory/service"
	"ms-directory/internal/kafka"
	"ms-directory/internal/logger"
)

// prepareSchema applies migrations on postgres and creates the tables
// directly on sqlite, then seeds the sample data when asked to.
func prepareSchema(ctx context.Context, cfg *config.Config, bunDB *bun.DB, log *logger.Logger) error {
	directoryDB := directory_db.New(bunDB)

	switch cfg.Database.Driver {
	case database.DriverPostgres:
		if !cfg.Database.AutoMigrate {
			log.Info("MIGRATION", "AUTO_MIGRATE disabled, skipping migrations")
			break
		}
		runner := migrations.NewRunner(bunDB, migrations.MigrateOptions{
			MigrationsDir: cfg.Database.MigrationsDir,
			AutoMigrate:   cfg.Database.AutoMigrate,
			SeedData:      cfg.Database.SeedData,
		}, log)
		err := runner.RunMigrations()
		if closeErr := runner.Close(); closeErr != nil {
			log.Warn("MIGRATION", fmt.Sprintf("Failed to close migrator: %v", closeErr))
		}
		if err != nil {
			return err
		}
	default:
		if err := directoryDB.CreateSchema(ctx); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		log.LogDatabase("CREATE", "venues, artists, shows", "Directory schema ready")
	}

	if !cfg.Database.SeedData {
		return nil
	}
	count, err := directoryDB.CountShows(ctx)
	if err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		log.LogDatabase("SEED", "shows", "Database already holds shows, skipping seed")
		return nil
	}
	if err := directoryDB.Seed(ctx, directory.SystemClock{}.Now()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	log.LogDatabase("SEED", "venues, artists, shows", "✅ Sample data seeded")
	return nil
}

// newPublisher returns the kafka producer, or a no-op when kafka is off.
func newPublisher(cfg config.KafkaConfig, log *logger.Logger) (kafka.Publisher, func()) {
	if !cfg.Enabled {
		log.Info("KAFKA", "Kafka disabled, change events will not be published")
		return kafka.NopPublisher{}, func() {}
	}

	log.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Brokers))
	if err := kafka.EnsureTopicsExist(cfg.Brokers, kafka.DirectoryTopics(cfg.TopicPrefix), log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		log.Info("KAFKA", "Required topics ensured successfully")
	}

	producer := kafka.NewProducer(cfg.Brokers, cfg.TopicPrefix, log)
	log.Info("KAFKA", "Kafka producer initialized successfully")
	return producer, func() {
		if err := producer.Close(); err != nil {
			log.Error("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
}

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(logger.Options{Dir: cfg.Log.Dir, Service: cfg.Log.Service})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("APP", "Starting Directory Service initialization")
	if envErr != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()

	bunDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open database: %v", err))
	}
	defer bunDB.Close()

	if err := prepareSchema(ctx, cfg, bunDB, log); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to prepare schema: %v", err))
	}

	publisher, closePublisher := newPublisher(cfg.Kafka, log)
	defer closePublisher()

	directoryDB := directory_db.New(bunDB)
	clock := directory.SystemClock{}
	queries := service.NewQueryService(directoryDB, clock, cfg.Directory.ListLimit)
	mutations := service.NewMutationService(directoryDB, publisher, log, clock)
	handler := directory_api.NewHandler(queries, mutations, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	handler.RegisterRoutes(r)
	log.Info("ROUTER", "Venue, artist and show routes registered")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Directory Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ Directory Service shutdown complete")
	}
}
