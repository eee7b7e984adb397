package repository

import (
	"fmt"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
)

// ClassifiedRecord is the kind-neutral projection the reconciler works from:
// just enough of a record to recompute its fingerprint and re-derive its link.
type ClassifiedRecord struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	BusinessID  string `json:"business_id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Source      string `json:"source"`
}

// RecordRepository resolves polymorphic (entityKind, entityID) references and
// gives the reconciler a uniform view over the per-kind record tables.
type RecordRepository interface {
	// Exists reports whether entityID names a row in the table entityKind maps
	// to. An unrecognized kind is an error, not "false".
	Exists(entityKind, entityID string) (bool, error)
	// ListClassified returns every record of the kind that carries a category,
	// i.e. everything the reconciler has to re-derive links for.
	ListClassified(entityKind string) ([]ClassifiedRecord, error)

	FindContentByFingerprint(fingerprint string) (*model.Content, error)
	CreateContent(content *model.Content) error
	UpdateContent(content *model.Content) error
	DeleteByBusiness(tx *gorm.DB, businessID string) error
}

type recordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

// kindModel maps an entity kind tag to an instance of its gorm model.
// The tagged union of the polymorphic association lives here: adding a record
// kind means adding a case (and a table) in exactly one place.
func kindModel(entityKind string) (interface{}, error) {
	switch entityKind {
	case model.EntityKindContent:
		return &model.Content{}, nil
	case model.EntityKindStrategy:
		return &model.Strategy{}, nil
	case model.EntityKindKPI:
		return &model.KPI{}, nil
	case model.EntityKindTrend:
		return &model.Trend{}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind: %q", entityKind)
	}
}

func (r *recordRepository) Exists(entityKind, entityID string) (bool, error) {
	m, err := kindModel(entityKind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.Model(m).Where("id = ?", entityID).Count(&count).Error; err != nil {
		logger.Error("Failed to resolve entity reference", err, map[string]interface{}{
			"entity_kind": entityKind,
			"entity_id":   entityID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *recordRepository) ListClassified(entityKind string) ([]ClassifiedRecord, error) {
	m, err := kindModel(entityKind)
	if err != nil {
		return nil, err
	}

	// KPIs carry no taxonomy fields of their own; they only enter the graph
	// through explicit attach calls.
	if entityKind == model.EntityKindKPI {
		return nil, nil
	}

	var records []ClassifiedRecord
	err = r.db.Model(m).
		Select("id", "business_id", "title", "category", "sub_category", "source").
		Where("category <> ''").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Kind = entityKind
	}
	return records, nil
}

func (r *recordRepository) FindContentByFingerprint(fingerprint string) (*model.Content, error) {
	var content model.Content
	if err := r.db.First(&content, "fingerprint = ?", fingerprint).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *recordRepository) CreateContent(content *model.Content) error {
	if err := r.db.Create(content).Error; err != nil {
		logger.Error("Failed to create content record", err, map[string]interface{}{
			"title":       content.Title,
			"business_id": content.BusinessID,
		})
		return err
	}
	return nil
}

func (r *recordRepository) UpdateContent(content *model.Content) error {
	return r.db.Save(content).Error
}

// DeleteByBusiness removes every record of every kind owned by the business.
// Runs inside the business-deletion transaction so a failed cascade rolls
// back whole.
func (r *recordRepository) DeleteByBusiness(tx *gorm.DB, businessID string) error {
	for _, kind := range model.KnownEntityKinds {
		m, err := kindModel(kind)
		if err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", businessID).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
