package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxonomyNode is a category or subcategory in the shared classification
// hierarchy. Group holds the parent category name for subcategories and is
// empty for top-level categories. (name, group) is unique case-insensitively;
// the expression index lives in db.Migrate. Nodes are never hard-deleted so
// historical links stay valid.
type TaxonomyNode struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Group       string    `gorm:"column:group_name;type:varchar(255);not null;default:''" json:"group"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TaxonomyNode) TableName() string {
	return "taxonomy_nodes"
}

func (n *TaxonomyNode) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
