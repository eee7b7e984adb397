package repository

import (
	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntityLinkRepository interface {
	// Upsert stores the link keyed by its fingerprint. If an identical link
	// already exists its metadata is refreshed (last write wins) and the
	// pre-existing row is returned, so concurrent attaches of the same
	// 5-tuple observe one link identifier.
	Upsert(link *model.EntityLink) (*model.EntityLink, error)
	FindByID(id string) (*model.EntityLink, error)
	FindByFingerprint(fingerprint string) (*model.EntityLink, error)
	Delete(id string) error
	ListForEntity(entityKind, entityID string) ([]model.EntityLink, error)
	ListForTaxonomy(categoryID string, subcategoryID, businessID *string) ([]model.EntityLink, error)
	CountForBusiness(businessID string) (int64, error)
}

type entityLinkRepository struct {
	db *gorm.DB
}

func NewEntityLinkRepository(db *gorm.DB) EntityLinkRepository {
	return &entityLinkRepository{db: db}
}

func (r *entityLinkRepository) Upsert(link *model.EntityLink) (*model.EntityLink, error) {
	// One atomic statement; the fingerprint unique index is the arbiter under
	// concurrency. Metadata merge is last-write-wins per the attach contract.
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{"metadata", "updated_at"}),
	}).Create(link)
	if res.Error != nil {
		logger.Error("Failed to upsert entity link", res.Error, map[string]interface{}{
			"fingerprint": link.Fingerprint,
			"entity_kind": link.EntityKind,
			"entity_id":   link.EntityID,
		})
		return nil, res.Error
	}

	// Re-read by fingerprint: on conflict the stored row keeps its original
	// identifier, which is what both racing callers must observe.
	stored, err := r.FindByFingerprint(link.Fingerprint)
	if err != nil {
		return nil, err
	}

	logger.Debug("Entity link upserted", map[string]interface{}{
		"link_id":     stored.ID,
		"entity_kind": stored.EntityKind,
		"entity_id":   stored.EntityID,
	})
	return stored, nil
}

func (r *entityLinkRepository) FindByID(id string) (*model.EntityLink, error) {
	var link model.EntityLink
	if err := r.db.First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *entityLinkRepository) FindByFingerprint(fingerprint string) (*model.EntityLink, error) {
	var link model.EntityLink
	if err := r.db.First(&link, "fingerprint = ?", fingerprint).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *entityLinkRepository) Delete(id string) error {
	// Removes only the link row; taxonomy nodes and the entity stay untouched
	res := r.db.Delete(&model.EntityLink{}, "id = ?", id)
	if res.Error != nil {
		logger.Error("Failed to delete entity link", res.Error, map[string]interface{}{
			"link_id": id,
		})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *entityLinkRepository) ListForEntity(entityKind, entityID string) ([]model.EntityLink, error) {
	var links []model.EntityLink
	err := r.db.
		Where("entity_kind = ? AND entity_id = ?", entityKind, entityID).
		Preload("Category").
		Preload("Subcategory").
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *entityLinkRepository) ListForTaxonomy(categoryID string, subcategoryID, businessID *string) ([]model.EntityLink, error) {
	query := r.db.Where("category_id = ?", categoryID)
	if subcategoryID != nil {
		query = query.Where("subcategory_id = ?", *subcategoryID)
	}
	if businessID != nil {
		query = query.Where("business_id = ?", *businessID)
	}

	var links []model.EntityLink
	if err := query.Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *entityLinkRepository) CountForBusiness(businessID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.EntityLink{}).
		Where("business_id = ?", businessID).
		Count(&count).Error
	return count, err
}
