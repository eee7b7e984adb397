package service

import (
	"testing"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSyncServiceTest(t *testing.T) (SyncService, *model.Business, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	linkRepo := repository.NewEntityLinkRepository(testDB)
	taxonomyRepo := repository.NewTaxonomyRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	recordRepo := repository.NewRecordRepository(testDB)

	linkService := NewLinkService(linkRepo, taxonomyRepo, businessRepo, recordRepo)
	taxonomyService := NewTaxonomyService(taxonomyRepo)
	syncService := NewSyncService(recordRepo, linkService, taxonomyService)

	business := &model.Business{Name: "Glow Labs", Region: "EU"}
	require.NoError(t, testDB.Create(business).Error)

	return syncService, business, testDB
}

func TestSyncService_Reconcile_LinksClassifiedRecords(t *testing.T) {
	syncService, business, testDB := setupSyncServiceTest(t)

	require.NoError(t, testDB.Create(&model.Content{
		BusinessID:  business.ID,
		Title:       "Launch post",
		Text:        "body",
		Category:    "Marketing",
		SubCategory: "Social",
		Source:      "editor",
		Fingerprint: "fp-c1",
	}).Error)
	require.NoError(t, testDB.Create(&model.Strategy{
		BusinessID:  business.ID,
		Title:       "Q3 plan",
		Category:    "Strategy",
		Fingerprint: "fp-s1",
	}).Error)
	// Unclassified record stays out of the run
	require.NoError(t, testDB.Create(&model.Content{
		BusinessID:  business.ID,
		Title:       "Draft",
		Text:        "body",
		Fingerprint: "fp-c2",
	}).Error)

	stats, err := syncService.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Linked)
	assert.Equal(t, 0, stats.Unchanged)
	assert.Equal(t, 0, stats.Failed)

	var linkCount int64
	testDB.Model(&model.EntityLink{}).Count(&linkCount)
	assert.Equal(t, int64(2), linkCount)
}

func TestSyncService_Reconcile_RerunProducesNoNewRows(t *testing.T) {
	syncService, business, testDB := setupSyncServiceTest(t)

	require.NoError(t, testDB.Create(&model.Content{
		BusinessID:  business.ID,
		Title:       "Launch post",
		Text:        "body",
		Category:    "Marketing",
		Fingerprint: "fp-c1",
	}).Error)

	first, err := syncService.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 1, first.Linked)

	second, err := syncService.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 1, second.Processed)
	assert.Equal(t, 0, second.Linked)
	assert.Equal(t, 1, second.Unchanged)

	var linkCount int64
	testDB.Model(&model.EntityLink{}).Count(&linkCount)
	assert.Equal(t, int64(1), linkCount)
}

func TestSyncService_Reconcile_BadRecordSkipped(t *testing.T) {
	syncService, business, testDB := setupSyncServiceTest(t)

	require.NoError(t, testDB.Create(&model.Content{
		BusinessID:  business.ID,
		Title:       "Launch post",
		Text:        "body",
		Category:    "Marketing",
		Fingerprint: "fp-c1",
	}).Error)
	// Record whose business was removed out of band; attach fails on the
	// business check but must not abort the batch.
	require.NoError(t, testDB.Create(&model.Trend{
		BusinessID:  business.ID,
		Title:       "Orphan trend",
		Category:    "Trends",
		Fingerprint: "fp-t1",
	}).Error)
	require.NoError(t, testDB.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, testDB.Exec("UPDATE trends SET business_id = 'gone'").Error)
	require.NoError(t, testDB.Exec("PRAGMA foreign_keys = ON").Error)

	stats, err := syncService.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Linked)
	assert.Equal(t, 1, stats.Failed)
}
