package repository

import (
	"sync"
	"testing"

	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTaxonomyRepoTest(t *testing.T) (TaxonomyRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewTaxonomyRepository(testDB), testDB
}

func TestTaxonomyRepository_ResolveOrCreate_CreatesNode(t *testing.T) {
	repo, _ := setupTaxonomyRepoTest(t)

	node, err := repo.ResolveOrCreate("Skincare", "Beauty", "auto")
	require.NoError(t, err)
	assert.NotEmpty(t, node.ID)
	assert.Equal(t, "Skincare", node.Name)
	assert.Equal(t, "Beauty", node.Group)
}

func TestTaxonomyRepository_ResolveOrCreate_CaseInsensitiveDedup(t *testing.T) {
	repo, _ := setupTaxonomyRepoTest(t)

	first, err := repo.ResolveOrCreate("Skincare", "Beauty", "")
	require.NoError(t, err)

	second, err := repo.ResolveOrCreate("skincare", "BEAUTY", "")
	require.NoError(t, err)

	// Same node, original casing preserved
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Skincare", second.Name)

	nodes, err := repo.ListByGroup("beauty")
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestTaxonomyRepository_ResolveOrCreate_TrimsWhitespace(t *testing.T) {
	repo, _ := setupTaxonomyRepoTest(t)

	first, err := repo.ResolveOrCreate("Skincare", "Beauty", "")
	require.NoError(t, err)

	second, err := repo.ResolveOrCreate("  Skincare ", " Beauty ", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestTaxonomyRepository_ResolveOrCreate_DistinctGroups(t *testing.T) {
	repo, _ := setupTaxonomyRepoTest(t)

	beauty, err := repo.ResolveOrCreate("Skincare", "Beauty", "")
	require.NoError(t, err)

	health, err := repo.ResolveOrCreate("Skincare", "Health", "")
	require.NoError(t, err)

	assert.NotEqual(t, beauty.ID, health.ID)
}

func TestTaxonomyRepository_ResolveOrCreate_Concurrent(t *testing.T) {
	repo, _ := setupTaxonomyRepoTest(t)

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			node, err := repo.ResolveOrCreate("Vegan", "Beauty", "")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = node.ID
		}(i)
	}
	wg.Wait()

	// All callers converge on exactly one stored node
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func TestTaxonomyRepository_FindByNameAndGroup_NotFound(t *testing.T) {
	repo, _ := setupTaxonomyRepoTest(t)

	_, err := repo.FindByNameAndGroup("Nope", "Nowhere")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
