package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Relation is a typed, weighted, directed edge between any two identifiers.
// There is deliberately no uniqueness constraint and no referential check:
// the graph may hold several relation types between the same pair, and ids
// are never validated against entity tables (graph-store semantics).
type Relation struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SourceID     string    `gorm:"type:varchar(36);index;not null" json:"source_id"`
	TargetID     string    `gorm:"type:varchar(36);index;not null" json:"target_id"`
	RelationType string    `gorm:"type:varchar(100);index" json:"relation_type"` // influences, supports, competes_with, ...
	Weight       float64   `gorm:"default:1" json:"weight"`
	Context      string    `gorm:"type:text" json:"context"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Relation) TableName() string {
	return "relations"
}

func (r *Relation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
