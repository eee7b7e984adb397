package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Strategy is a piece of tactical marketing knowledge scoped to a business
type Strategy struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID  string      `gorm:"type:varchar(36);index;not null" json:"business_id"`
	Business    Business    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title       string      `gorm:"type:varchar(500);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Category    string      `gorm:"type:varchar(255)" json:"category"`
	SubCategory string      `gorm:"type:varchar(255)" json:"sub_category"`
	Goal        string      `gorm:"type:text" json:"goal"`
	Tags        StringArray `json:"tags"`
	Source      string      `gorm:"type:varchar(255)" json:"source"`
	Fingerprint string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"fingerprint"`
	Confidence  float64     `gorm:"default:0.9" json:"confidence"`
	Version     string      `gorm:"type:varchar(20);default:'1.0'" json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Strategy) TableName() string {
	return "strategies"
}

func (s *Strategy) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
