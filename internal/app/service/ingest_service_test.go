package service

import (
	"context"
	"errors"
	"testing"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeObjectStore struct {
	objects map[string][]byte
}

func (f *fakeObjectStore) Fetch(_ context.Context, key string) ([]byte, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return body, nil
}

func setupIngestServiceTest(t *testing.T, store ObjectStore) (IngestService, *model.Business, *gorm.DB) {
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
	sourceRepo := repository.NewIngestSourceRepository(testDB)
	ingestService := NewIngestService(recordRepo, businessRepo, sourceRepo, linkService, store)

	business := &model.Business{Name: "Glow Labs", Region: "EU"}
	require.NoError(t, testDB.Create(business).Error)

	return ingestService, business, testDB
}

func TestIngestService_IngestContent_CreatesAndLinks(t *testing.T) {
	ingestService, business, testDB := setupIngestServiceTest(t, nil)

	result, err := ingestService.IngestContent(IngestInput{
		BusinessID:  business.ID,
		Title:       "Vegan skincare guide",
		Text:        "How to build a vegan skincare routine.",
		ContentType: "blog",
		Source:      "editor",
		Category:    "Skincare",
		Subcategory: "Vegan",
	})
	require.NoError(t, err)
	assert.Equal(t, IngestStatusCreated, result.Status)
	assert.NotEmpty(t, result.ContentID)
	assert.NotEmpty(t, result.Fingerprint)
	assert.NotEmpty(t, result.LinkID)

	var content model.Content
	require.NoError(t, testDB.First(&content, "id = ?", result.ContentID).Error)
	assert.Equal(t, result.Fingerprint, content.Fingerprint)
}

func TestIngestService_IngestContent_DuplicateUpdatesInPlace(t *testing.T) {
	ingestService, business, testDB := setupIngestServiceTest(t, nil)

	input := IngestInput{
		BusinessID:  business.ID,
		Title:       "Vegan skincare guide",
		Text:        "How to build a vegan skincare routine.",
		ContentType: "blog",
		Source:      "editor",
	}

	first, err := ingestService.IngestContent(input)
	require.NoError(t, err)
	assert.Equal(t, IngestStatusCreated, first.Status)

	input.Source = "crawler"
	second, err := ingestService.IngestContent(input)
	require.NoError(t, err)
	assert.Equal(t, IngestStatusUpdated, second.Status)
	assert.Equal(t, first.ContentID, second.ContentID)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	var count int64
	testDB.Model(&model.Content{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var content model.Content
	require.NoError(t, testDB.First(&content, "id = ?", first.ContentID).Error)
	assert.Equal(t, "crawler", content.Source)
}

func TestIngestService_IngestContent_CaseAndWhitespaceInsensitiveDedup(t *testing.T) {
	ingestService, business, _ := setupIngestServiceTest(t, nil)

	first, err := ingestService.IngestContent(IngestInput{
		BusinessID: business.ID,
		Title:      "Launch Post",
		Text:       "Big announcement.",
	})
	require.NoError(t, err)

	second, err := ingestService.IngestContent(IngestInput{
		BusinessID: business.ID,
		Title:      "  launch post  ",
		Text:       "BIG ANNOUNCEMENT.",
	})
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, IngestStatusUpdated, second.Status)
}

func TestIngestService_IngestContent_EmptyTextRejected(t *testing.T) {
	ingestService, business, _ := setupIngestServiceTest(t, nil)

	_, err := ingestService.IngestContent(IngestInput{
		BusinessID: business.ID,
		Title:      "Empty",
		Text:       "   \x00  ",
	})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestIngestService_IngestContent_StripsControlCharacters(t *testing.T) {
	ingestService, business, testDB := setupIngestServiceTest(t, nil)

	result, err := ingestService.IngestContent(IngestInput{
		BusinessID: business.ID,
		Title:      "Raw export",
		Text:       "line one\x00\x01\nline two\t end",
	})
	require.NoError(t, err)

	var content model.Content
	require.NoError(t, testDB.First(&content, "id = ?", result.ContentID).Error)
	assert.Equal(t, "line one\nline two\t end", content.Text)
}

func TestIngestService_IngestContent_UnknownBusiness(t *testing.T) {
	ingestService, _, _ := setupIngestServiceTest(t, nil)

	_, err := ingestService.IngestContent(IngestInput{
		BusinessID: "no-such-business",
		Title:      "Post",
		Text:       "body",
	})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestIngestService_IngestObject(t *testing.T) {
	store := &fakeObjectStore{objects: map[string][]byte{
		"docs/guide.txt": []byte("Object store body."),
	}}
	ingestService, business, _ := setupIngestServiceTest(t, store)

	result, err := ingestService.IngestObject(context.Background(), "docs/guide.txt", IngestInput{
		BusinessID: business.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, IngestStatusCreated, result.Status)

	_, err = ingestService.IngestObject(context.Background(), "docs/missing.txt", IngestInput{
		BusinessID: business.ID,
	})
	assert.Error(t, err)
}

func TestIngestService_IngestBatch(t *testing.T) {
	ingestService, business, testDB := setupIngestServiceTest(t, nil)

	batch, err := ingestService.IngestBatch("Trends", "https://feeds.example.com/beauty", []IngestInput{
		{BusinessID: business.ID, Title: "Post one", Text: "first body"},
		{BusinessID: business.ID, Title: "Post two", Text: "second body"},
		{BusinessID: business.ID, Title: "Broken", Text: "   "},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Created)
	assert.Equal(t, 0, batch.Updated)
	assert.Equal(t, 1, batch.Failed)

	sources, err := ingestService.ListSources()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "https://feeds.example.com/beauty", sources[0].FeedURL)
	assert.Equal(t, 2, sources[0].ArticlesAdded)
	assert.Equal(t, 1, sources[0].Failures)
	assert.Equal(t, model.SourceStatusPartial, sources[0].Status)
	require.NotNil(t, sources[0].LastFetched)

	// Re-running the same feed dedups every document and keeps one source row
	again, err := ingestService.IngestBatch("Trends", "https://feeds.example.com/beauty", []IngestInput{
		{BusinessID: business.ID, Title: "Post one", Text: "first body"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 1, again.Updated)

	var sourceCount int64
	testDB.Model(&model.IngestSource{}).Count(&sourceCount)
	assert.Equal(t, int64(1), sourceCount)
}
