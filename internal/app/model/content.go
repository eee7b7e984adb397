package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content is an ingested marketing document (blog, video, post, ad, script).
// Fingerprint is the dedup key: re-ingesting identical canonical text updates
// the existing row instead of inserting a second one.
type Content struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID  string      `gorm:"type:varchar(36);index;not null" json:"business_id"`
	Business    Business    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title       string      `gorm:"type:varchar(500);not null" json:"title"`
	ContentType string      `gorm:"type:varchar(50)" json:"content_type"` // blog, video, post, ad, script
	Text        string      `gorm:"type:text" json:"text"`
	Summary     string      `gorm:"type:text" json:"summary"`
	Category    string      `gorm:"type:varchar(255)" json:"category"`
	SubCategory string      `gorm:"type:varchar(255)" json:"sub_category"`
	Tags        StringArray `json:"tags"`
	Metadata    JSONMap     `json:"metadata"`
	Source      string      `gorm:"type:varchar(255)" json:"source"`
	Fingerprint string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"fingerprint"`
	Confidence  float64     `gorm:"default:0.9" json:"confidence"`
	ChunkIndex  int         `gorm:"default:0" json:"chunk_index"`
	Version     string      `gorm:"type:varchar(20);default:'1.0'" json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Content) TableName() string {
	return "contents"
}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
