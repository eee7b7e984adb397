package db

import (
	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueIndexes are expression-based constraints AutoMigrate cannot express.
// They back the atomic insert-on-conflict paths, so they must exist on every
// database the service runs against (the same statements are valid on
// PostgreSQL and on the SQLite test database).
var uniqueIndexes = []string{
	// Case-insensitive taxonomy identity: "Skincare"/"skincare" under the
	// same group are one node.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_taxonomy_nodes_name_group
		ON taxonomy_nodes (LOWER(name), LOWER(group_name))`,
	// Case-insensitive tenant identity.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_businesses_name_region
		ON businesses (LOWER(name), LOWER(region))`,
	// The link 5-tuple. NULL taxonomy refs are folded to '' so two links that
	// differ only in "no subcategory" vs NULL subcategory still collide.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_entity_links_tuple
		ON entity_links (COALESCE(category_id, ''), COALESCE(subcategory_id, ''), business_id, entity_kind, entity_id)`,
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Business{},
		&model.TaxonomyNode{},
		&model.Content{},
		&model.Strategy{},
		&model.KPI{},
		&model.Trend{},
		&model.EntityLink{},
		&model.Relation{},
		&model.IngestSource{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := CreateUniqueIndexes(DB); err != nil {
		logger.Error("Failed to create unique indexes", err)
		return err
	}

	if err := seedTaxonomy(DB); err != nil {
		logger.Error("Failed to seed taxonomy during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// CreateUniqueIndexes applies the expression-based unique indexes
func CreateUniqueIndexes(db *gorm.DB) error {
	for _, stmt := range uniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedTaxonomy inserts the baseline category set. Safe to re-run: conflicts
// with already-seeded (or user-created) nodes are skipped.
func seedTaxonomy(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.TaxonomyNode{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Taxonomy already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding baseline taxonomy...")

	nodes := []model.TaxonomyNode{
		{Name: "Content", Description: "Editorial and creative output"},
		{Name: "Strategy", Description: "Tactical and planning knowledge"},
		{Name: "Technology", Description: "Tooling, platforms and automation"},
		{Name: "Business", Description: "Commercial and financial topics"},
		{Name: "Industry", Description: "Vertical-specific topics"},
		{Name: "General", Description: "Fallback for unclassified records"},

		{Name: "Marketing", Group: "Content", Description: "Content -> Marketing"},
		{Name: "SEO", Group: "Content", Description: "Content -> SEO"},
		{Name: "AI & Automation", Group: "Technology", Description: "Technology -> AI & Automation"},
		{Name: "Finance", Group: "Business", Description: "Business -> Finance"},
		{Name: "Manufacturing", Group: "Industry", Description: "Industry -> Manufacturing"},
		{Name: "Miscellaneous", Group: "General", Description: "General -> Miscellaneous"},
	}

	inserted := 0
	for i := range nodes {
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&nodes[i])
		if res.Error != nil {
			logger.Error("Failed to seed taxonomy node", res.Error, map[string]interface{}{
				"name":  nodes[i].Name,
				"group": nodes[i].Group,
			})
			return res.Error
		}
		inserted += int(res.RowsAffected)
	}

	logger.Info("Taxonomy seeded successfully", map[string]interface{}{
		"inserted": inserted,
	})
	return nil
}
