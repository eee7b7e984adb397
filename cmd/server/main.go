package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/marketgraph/marketgraph-backend/config"
	"github.com/marketgraph/marketgraph-backend/internal/app/controller"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/marketgraph/marketgraph-backend/internal/router"
	"github.com/marketgraph/marketgraph-backend/internal/scheduler"
	"github.com/marketgraph/marketgraph-backend/internal/storage"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"github.com/marketgraph/marketgraph-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting MARKETGRAPH Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (includes baseline taxonomy seed)
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; the taxonomy cache degrades to DB reads without it
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, taxonomy cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	taxonomyRepo := repository.NewTaxonomyRepository(db.GetDB())
	linkRepo := repository.NewEntityLinkRepository(db.GetDB())
	recordRepo := repository.NewRecordRepository(db.GetDB())
	relationRepo := repository.NewRelationRepository(db.GetDB())
	sourceRepo := repository.NewIngestSourceRepository(db.GetDB())

	// Initialize object storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize services
	businessService := service.NewBusinessService(businessRepo, recordRepo, linkRepo)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo)
	linkService := service.NewLinkService(linkRepo, taxonomyRepo, businessRepo, recordRepo)
	graphService := service.NewGraphService(relationRepo)
	ingestService := service.NewIngestService(recordRepo, businessRepo, sourceRepo, linkService, s3Storage)
	syncService := service.NewSyncService(recordRepo, linkService, taxonomyService)

	// Initialize controllers
	businessController := controller.NewBusinessController(businessService)
	taxonomyController := controller.NewTaxonomyController(taxonomyService)
	linkController := controller.NewLinkController(linkService)
	graphController := controller.NewGraphController(graphService)
	ingestController := controller.NewIngestController(ingestService, s3Storage)
	syncController := controller.NewSyncController(syncService, cfg.Sync.TaxonomyExportPath)

	// Start the scheduled reconciliation
	syncScheduler := scheduler.NewSyncScheduler(syncService, cfg.Sync.Schedule, cfg.Sync.TaxonomyExportPath)
	if err := syncScheduler.Start(); err != nil {
		logger.Fatal("Failed to start sync scheduler", err)
	}
	defer syncScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		businessController,
		taxonomyController,
		linkController,
		graphController,
		ingestController,
		syncController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
