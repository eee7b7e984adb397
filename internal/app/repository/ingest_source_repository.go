package repository

import (
	"time"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngestSourceRepository interface {
	// Register inserts the feed if unseen; an existing feed_url is returned
	// unchanged.
	Register(source *model.IngestSource) (*model.IngestSource, error)
	FindByFeedURL(feedURL string) (*model.IngestSource, error)
	List() ([]model.IngestSource, error)
	// RecordRun rolls run results into the source's counters and status.
	RecordRun(feedURL string, added, updated, failures int, avgConfidence float64, runErr error) error
}

type ingestSourceRepository struct {
	db *gorm.DB
}

func NewIngestSourceRepository(db *gorm.DB) IngestSourceRepository {
	return &ingestSourceRepository{db: db}
}

func (r *ingestSourceRepository) Register(source *model.IngestSource) (*model.IngestSource, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(source)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return source, nil
	}
	return r.FindByFeedURL(source.FeedURL)
}

func (r *ingestSourceRepository) FindByFeedURL(feedURL string) (*model.IngestSource, error) {
	var source model.IngestSource
	if err := r.db.First(&source, "feed_url = ?", feedURL).Error; err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *ingestSourceRepository) List() ([]model.IngestSource, error) {
	var sources []model.IngestSource
	if err := r.db.Order("category ASC, feed_url ASC").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *ingestSourceRepository) RecordRun(feedURL string, added, updated, failures int, avgConfidence float64, runErr error) error {
	status := model.SourceStatusActive
	errorMessage := ""
	switch {
	case runErr != nil:
		status = model.SourceStatusFailed
		errorMessage = runErr.Error()
	case failures > 0:
		status = model.SourceStatusPartial
	}

	now := time.Now()
	return r.db.Model(&model.IngestSource{}).
		Where("feed_url = ?", feedURL).
		Updates(map[string]interface{}{
			"articles_added": gorm.Expr("articles_added + ?", added),
			"updated_docs":   gorm.Expr("updated_docs + ?", updated),
			"failures":       gorm.Expr("failures + ?", failures),
			"avg_confidence": avgConfidence,
			"status":         status,
			"error_message":  errorMessage,
			"last_fetched":   now,
		}).Error
}
