package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity kinds an EntityLink may reference. Each names the table the
// (entity_kind, entity_id) pair resolves against.
const (
	EntityKindContent  = "content"
	EntityKindStrategy = "strategy"
	EntityKindKPI      = "kpi"
	EntityKindTrend    = "trend"
)

// KnownEntityKinds lists every entity kind the link mapper accepts
var KnownEntityKinds = []string{
	EntityKindContent,
	EntityKindStrategy,
	EntityKindKPI,
	EntityKindTrend,
}

// EntityLink attaches a business-scoped record to a taxonomy pair. The
// association is polymorphic: (entity_kind, entity_id) names a row in a
// heterogeneous table, so no structural foreign key exists for it and the
// service layer validates the reference instead. Fingerprint hashes the
// (category, subcategory, business, entity_kind, entity_id) tuple and is the
// idempotency token for upserts; the COALESCE-composite unique index on the
// tuple itself lives in db.Migrate. Taxonomy references are nulled out, never
// cascaded, when a node is removed; the link is cascade-deleted with its
// owning business.
type EntityLink struct {
	ID            string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	CategoryID    *string       `gorm:"type:varchar(36);index" json:"category_id"`
	Category      *TaxonomyNode `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	SubcategoryID *string       `gorm:"type:varchar(36);index" json:"subcategory_id"`
	Subcategory   *TaxonomyNode `gorm:"foreignKey:SubcategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"subcategory,omitempty"`
	BusinessID    string        `gorm:"type:varchar(36);index;not null" json:"business_id"`
	Business      Business      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	EntityKind    string        `gorm:"type:varchar(50);index;not null" json:"entity_kind"`
	EntityID      string        `gorm:"type:varchar(36);index;not null" json:"entity_id"`
	Fingerprint   string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"fingerprint"`
	Metadata      JSONMap       `json:"metadata"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (EntityLink) TableName() string {
	return "entity_links"
}

func (l *EntityLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
