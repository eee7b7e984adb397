package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trend is a trending topic observed for (or independent of) a business
type Trend struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID  string      `gorm:"type:varchar(36);index;not null" json:"business_id"`
	Business    Business    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title       string      `gorm:"type:varchar(500);not null" json:"title"`
	Category    string      `gorm:"type:varchar(255)" json:"category"`
	SubCategory string      `gorm:"type:varchar(255)" json:"sub_category"`
	Summary     string      `gorm:"type:text" json:"summary"`
	Source      string      `gorm:"type:varchar(255)" json:"source"`
	TrendScore  float64     `gorm:"default:0.5" json:"trend_score"`
	Sentiment   string      `gorm:"type:varchar(20)" json:"sentiment"`
	Region      string      `gorm:"type:varchar(100)" json:"region"`
	Tags        StringArray `json:"tags"`
	Fingerprint string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"fingerprint"`
	Confidence  float64     `gorm:"default:0.9" json:"confidence"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Trend) TableName() string {
	return "trends"
}

func (t *Trend) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
