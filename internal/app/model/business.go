package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is the tenant scope every record and entity link hangs off.
// No two businesses may share the same name and region case-insensitively;
// the expression index behind that lives in db.Migrate.
type Business struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Industry    string    `gorm:"type:varchar(100)" json:"industry"`
	Description string    `gorm:"type:text" json:"description"`
	Stage       string    `gorm:"type:varchar(50)" json:"stage"` // startup, growth, enterprise
	Website     string    `gorm:"type:varchar(255)" json:"website"`
	Goal        string    `gorm:"type:text" json:"goal"`
	Region      string    `gorm:"type:varchar(100)" json:"region"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
