package scheduler

import (
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// SyncScheduler runs the periodic reconciliation pass and publishes the
// taxonomy export afterwards.
type SyncScheduler struct {
	cron        *cron.Cron
	syncService service.SyncService
	schedule    string
	exportPath  string
}

func NewSyncScheduler(syncService service.SyncService, schedule, exportPath string) *SyncScheduler {
	return &SyncScheduler{
		cron:        cron.New(),
		syncService: syncService,
		schedule:    schedule,
		exportPath:  exportPath,
	}
}

func (s *SyncScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled reconciliation run", nil)

		stats, err := s.syncService.Reconcile()
		if err != nil {
			logger.Error("Scheduled reconciliation run failed", err)
			return
		}

		if err := s.syncService.ExportTaxonomy(s.exportPath); err != nil {
			logger.Error("Taxonomy export failed after scheduled run", err, map[string]interface{}{
				"path": s.exportPath,
			})
		}

		logger.Info("Scheduled reconciliation run finished", map[string]interface{}{
			"processed": stats.Processed,
			"linked":    stats.Linked,
			"unchanged": stats.Unchanged,
			"failed":    stats.Failed,
		})
	})
	if err != nil {
		logger.Error("Failed to register reconciliation cron job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Sync scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})

	return nil
}

func (s *SyncScheduler) Stop() {
	logger.Info("Stopping sync scheduler...", nil)
	s.cron.Stop()
	logger.Info("Sync scheduler stopped", nil)
}
