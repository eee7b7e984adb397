package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngestSource status values
const (
	SourceStatusIdle    = "idle"
	SourceStatusActive  = "active"
	SourceStatusPartial = "partial"
	SourceStatusFailed  = "failed"
)

// IngestSource tracks per-feed ingestion metrics maintained by the reconciler
type IngestSource struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Category      string     `gorm:"type:varchar(255);not null" json:"category"`
	FeedURL       string     `gorm:"type:varchar(500);uniqueIndex;not null" json:"feed_url"`
	ArticlesAdded int        `gorm:"default:0" json:"articles_added"`
	UpdatedDocs   int        `gorm:"default:0" json:"updated_docs"`
	Failures      int        `gorm:"default:0" json:"failures"`
	LastFetched   *time.Time `json:"last_fetched,omitempty"`
	Status        string     `gorm:"type:varchar(20);default:'idle'" json:"status"`
	ErrorMessage  string     `gorm:"type:text" json:"error_message"`
	AvgConfidence float64    `gorm:"default:0" json:"avg_confidence"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (IngestSource) TableName() string {
	return "ingest_sources"
}

func (s *IngestSource) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
