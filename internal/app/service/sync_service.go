package service

import (
	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
)

// SyncStats summarizes one reconciliation run
type SyncStats struct {
	Processed int `json:"processed"`
	Linked    int `json:"linked"`    // new links created this run
	Unchanged int `json:"unchanged"` // links that already existed
	Failed    int `json:"failed"`    // records that errored (logged, not fatal)
}

type SyncService interface {
	// Reconcile re-derives the entity link for every classified record. Each
	// attach goes through the idempotent upsert path, so re-running over
	// unchanged data produces zero new rows and zero errors. A failing record
	// is logged and skipped; it never aborts the batch.
	Reconcile() (*SyncStats, error)
	// ExportTaxonomy publishes the current taxonomy to the given path after a run
	ExportTaxonomy(path string) error
}

type syncService struct {
	recordRepo      repository.RecordRepository
	linkService     LinkService
	taxonomyService TaxonomyService
}

func NewSyncService(
	recordRepo repository.RecordRepository,
	linkService LinkService,
	taxonomyService TaxonomyService,
) SyncService {
	return &syncService{
		recordRepo:      recordRepo,
		linkService:     linkService,
		taxonomyService: taxonomyService,
	}
}

func (s *syncService) Reconcile() (*SyncStats, error) {
	stats := &SyncStats{}

	for _, kind := range model.KnownEntityKinds {
		records, err := s.recordRepo.ListClassified(kind)
		if err != nil {
			// Listing failure is a storage problem, not a bad record: surface
			// it so the next scheduled run retries the whole kind.
			logger.Error("Failed to list records for reconciliation", err, map[string]interface{}{
				"entity_kind": kind,
			})
			return stats, err
		}

		for _, record := range records {
			stats.Processed++

			_, created, err := s.linkService.Attach(AttachInput{
				BusinessID:      record.BusinessID,
				EntityKind:      record.Kind,
				EntityID:        record.ID,
				CategoryName:    record.Category,
				SubcategoryName: record.SubCategory,
				Metadata: model.JSONMap{
					"source": record.Source,
					"sync":   true,
				},
			})
			if err != nil {
				stats.Failed++
				logger.Error("Failed to reconcile record, continuing", err, map[string]interface{}{
					"entity_kind": record.Kind,
					"entity_id":   record.ID,
					"category":    record.Category,
				})
				continue
			}

			if created {
				stats.Linked++
			} else {
				stats.Unchanged++
			}
		}
	}

	logger.Info("Reconciliation run complete", map[string]interface{}{
		"processed": stats.Processed,
		"linked":    stats.Linked,
		"unchanged": stats.Unchanged,
		"failed":    stats.Failed,
	})
	return stats, nil
}

func (s *syncService) ExportTaxonomy(path string) error {
	_, err := s.taxonomyService.Export(path)
	return err
}
