package main

import (
	"os"

	"github.com/marketgraph/marketgraph-backend/config"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
)

// One-shot reconciliation for cron or CI use. Exit code 0 means every record
// reconciled, 1 means the run could not start or complete, 2 means the run
// finished but some records failed.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:  "info",
		Format: "json",
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())
	taxonomyRepo := repository.NewTaxonomyRepository(db.GetDB())
	linkRepo := repository.NewEntityLinkRepository(db.GetDB())
	recordRepo := repository.NewRecordRepository(db.GetDB())

	taxonomyService := service.NewTaxonomyService(taxonomyRepo)
	linkService := service.NewLinkService(linkRepo, taxonomyRepo, businessRepo, recordRepo)
	syncService := service.NewSyncService(recordRepo, linkService, taxonomyService)

	stats, err := syncService.Reconcile()
	if err != nil {
		logger.Error("Reconciliation run failed", err)
		os.Exit(1)
	}

	if err := syncService.ExportTaxonomy(cfg.Sync.TaxonomyExportPath); err != nil {
		logger.Error("Taxonomy export failed", err, map[string]interface{}{
			"path": cfg.Sync.TaxonomyExportPath,
		})
		os.Exit(1)
	}

	logger.Info("Reconciliation finished", map[string]interface{}{
		"processed": stats.Processed,
		"linked":    stats.Linked,
		"unchanged": stats.Unchanged,
		"failed":    stats.Failed,
	})

	if stats.Failed > 0 {
		os.Exit(2)
	}
}
