package db

import (
	"fmt"
	"log"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// A single connection keeps every caller on the same in-memory database
	// (each new SQLite :memory: connection is a fresh, empty one) and
	// serializes concurrent test writers the way SQLite expects.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&model.Business{},
		&model.TaxonomyNode{},
		&model.Content{},
		&model.Strategy{},
		&model.KPI{},
		&model.Trend{},
		&model.EntityLink{},
		&model.Relation{},
		&model.IngestSource{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	// The conflict-resolution paths depend on these, so tests need them too
	if err := CreateUniqueIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to create unique indexes: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}
