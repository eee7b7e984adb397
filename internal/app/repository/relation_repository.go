package repository

import (
	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
)

// Traversal / query directions
const (
	DirectionOut  = "out"
	DirectionIn   = "in"
	DirectionBoth = "both"
)

type RelationRepository interface {
	// Create always inserts a new edge; the graph intentionally allows
	// duplicate and dangling edges.
	Create(relation *model.Relation) error
	Query(id, direction string, relationType *string) ([]model.Relation, error)
	// OutgoingFrom returns all edges whose source is in ids, optionally
	// filtered by type. Used to expand one BFS frontier in a single query.
	OutgoingFrom(ids []string, relationType *string) ([]model.Relation, error)
}

type relationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func (r *relationRepository) Create(relation *model.Relation) error {
	if err := r.db.Create(relation).Error; err != nil {
		logger.Error("Failed to create relation", err, map[string]interface{}{
			"source_id":     relation.SourceID,
			"target_id":     relation.TargetID,
			"relation_type": relation.RelationType,
		})
		return err
	}

	logger.Debug("Relation created", map[string]interface{}{
		"relation_id":   relation.ID,
		"source_id":     relation.SourceID,
		"target_id":     relation.TargetID,
		"relation_type": relation.RelationType,
	})
	return nil
}

func (r *relationRepository) Query(id, direction string, relationType *string) ([]model.Relation, error) {
	query := r.db.Order("created_at DESC")

	switch direction {
	case DirectionOut:
		query = query.Where("source_id = ?", id)
	case DirectionIn:
		query = query.Where("target_id = ?", id)
	default:
		query = query.Where("source_id = ? OR target_id = ?", id, id)
	}

	if relationType != nil {
		query = query.Where("relation_type = ?", *relationType)
	}

	var relations []model.Relation
	if err := query.Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *relationRepository) OutgoingFrom(ids []string, relationType *string) ([]model.Relation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := r.db.Where("source_id IN ?", ids)
	if relationType != nil {
		query = query.Where("relation_type = ?", *relationType)
	}

	var relations []model.Relation
	if err := query.Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}
