package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KPI is a tracked performance indicator for a business
type KPI struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BusinessID     string    `gorm:"type:varchar(36);index;not null" json:"business_id"`
	Business       Business  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	MetricType     string    `gorm:"type:varchar(50)" json:"metric_type"` // engagement, revenue, retention
	Value          float64   `json:"value"`
	Target         float64   `json:"target"`
	TrendDirection string    `gorm:"type:varchar(10)" json:"trend_direction"` // up, down, flat
	Period         string    `gorm:"type:varchar(20);default:'monthly'" json:"period"`
	Source         string    `gorm:"type:varchar(255)" json:"source"`
	Fingerprint    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"fingerprint"`
	Confidence     float64   `gorm:"default:0.8" json:"confidence"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (KPI) TableName() string {
	return "kpis"
}

func (k *KPI) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}
