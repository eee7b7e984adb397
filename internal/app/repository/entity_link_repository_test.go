package repository

import (
	"sync"
	"testing"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/marketgraph/marketgraph-backend/pkg/fingerprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLinkRepoTest(t *testing.T) (EntityLinkRepository, *model.Business, *model.TaxonomyNode, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	business := &model.Business{Name: "Glow Labs", Region: "EU"}
	require.NoError(t, testDB.Create(business).Error)

	node := &model.TaxonomyNode{Name: "Skincare", Group: "Beauty"}
	require.NoError(t, testDB.Create(node).Error)

	return NewEntityLinkRepository(testDB), business, node, testDB
}

func newLink(business *model.Business, node *model.TaxonomyNode, entityID string) *model.EntityLink {
	return &model.EntityLink{
		CategoryID: &node.ID,
		BusinessID: business.ID,
		EntityKind: model.EntityKindContent,
		EntityID:   entityID,
		Fingerprint: fingerprint.Link(
			&node.ID, nil, business.ID, model.EntityKindContent, entityID,
		),
		Metadata: model.JSONMap{"source": "test"},
	}
}

func TestEntityLinkRepository_Upsert_Creates(t *testing.T) {
	repo, business, node, _ := setupLinkRepoTest(t)

	link, err := repo.Upsert(newLink(business, node, "c1"))
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
	assert.Equal(t, model.EntityKindContent, link.EntityKind)
}

func TestEntityLinkRepository_Upsert_Idempotent(t *testing.T) {
	repo, business, node, testDB := setupLinkRepoTest(t)

	first, err := repo.Upsert(newLink(business, node, "c1"))
	require.NoError(t, err)

	second, err := repo.Upsert(newLink(business, node, "c1"))
	require.NoError(t, err)

	// Same identifier both times, exactly one stored row
	assert.Equal(t, first.ID, second.ID)

	var count int64
	testDB.Model(&model.EntityLink{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEntityLinkRepository_Upsert_MetadataLastWriteWins(t *testing.T) {
	repo, business, node, _ := setupLinkRepoTest(t)

	_, err := repo.Upsert(newLink(business, node, "c1"))
	require.NoError(t, err)

	updated := newLink(business, node, "c1")
	updated.Metadata = model.JSONMap{"source": "resync", "run": float64(2)}
	link, err := repo.Upsert(updated)
	require.NoError(t, err)

	assert.Equal(t, "resync", link.Metadata["source"])
}

func TestEntityLinkRepository_Upsert_Concurrent(t *testing.T) {
	repo, business, node, testDB := setupLinkRepoTest(t)

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link, err := repo.Upsert(newLink(business, node, "c1"))
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = link.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	testDB.Model(&model.EntityLink{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEntityLinkRepository_Delete(t *testing.T) {
	repo, business, node, testDB := setupLinkRepoTest(t)

	link, err := repo.Upsert(newLink(business, node, "c1"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(link.ID))

	_, err = repo.FindByID(link.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Taxonomy node survives detach
	var nodeCount int64
	testDB.Model(&model.TaxonomyNode{}).Count(&nodeCount)
	assert.Equal(t, int64(1), nodeCount)
}

func TestEntityLinkRepository_Delete_NotFound(t *testing.T) {
	repo, _, _, _ := setupLinkRepoTest(t)

	err := repo.Delete("missing-id")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEntityLinkRepository_ListForEntity(t *testing.T) {
	repo, business, node, testDB := setupLinkRepoTest(t)

	other := &model.TaxonomyNode{Name: "Haircare", Group: "Beauty"}
	require.NoError(t, testDB.Create(other).Error)

	_, err := repo.Upsert(newLink(business, node, "c1"))
	require.NoError(t, err)
	_, err = repo.Upsert(newLink(business, other, "c1"))
	require.NoError(t, err)
	_, err = repo.Upsert(newLink(business, node, "c2"))
	require.NoError(t, err)

	links, err := repo.ListForEntity(model.EntityKindContent, "c1")
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestEntityLinkRepository_ListForTaxonomy(t *testing.T) {
	repo, business, node, testDB := setupLinkRepoTest(t)

	otherBusiness := &model.Business{Name: "Shine Co", Region: "US"}
	require.NoError(t, testDB.Create(otherBusiness).Error)

	_, err := repo.Upsert(newLink(business, node, "c1"))
	require.NoError(t, err)
	_, err = repo.Upsert(newLink(otherBusiness, node, "c9"))
	require.NoError(t, err)

	all, err := repo.ListForTaxonomy(node.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := repo.ListForTaxonomy(node.ID, nil, &business.ID)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
	assert.Equal(t, "c1", scoped[0].EntityID)
}
