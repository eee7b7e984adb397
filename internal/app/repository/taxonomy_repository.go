package repository

import (
	"strings"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaxonomyRepository interface {
	// ResolveOrCreate returns the node matching (name, group) case-insensitively,
	// creating it with the given casing if absent. Concurrent callers with the
	// same pair converge on one stored node.
	ResolveOrCreate(name, group, description string) (*model.TaxonomyNode, error)
	FindByID(id string) (*model.TaxonomyNode, error)
	FindByNameAndGroup(name, group string) (*model.TaxonomyNode, error)
	List() ([]model.TaxonomyNode, error)
	ListByGroup(group string) ([]model.TaxonomyNode, error)
	UpdateDescription(id, description string) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) ResolveOrCreate(name, group, description string) (*model.TaxonomyNode, error) {
	name = strings.TrimSpace(name)
	group = strings.TrimSpace(group)

	node := &model.TaxonomyNode{
		Name:        name,
		Group:       group,
		Description: description,
	}

	// Single atomic insert: losing a race on the case-insensitive index is the
	// expected concurrent-creation path, not an error. Never check-then-insert.
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(node)
	if res.Error != nil {
		logger.Error("Failed to resolve taxonomy node", res.Error, map[string]interface{}{
			"name":  name,
			"group": group,
		})
		return nil, res.Error
	}

	if res.RowsAffected > 0 {
		logger.Debug("Taxonomy node created", map[string]interface{}{
			"taxonomy_node_id": node.ID,
			"name":             name,
			"group":            group,
		})
		return node, nil
	}

	// Conflict: someone else holds this identity, return their row.
	return r.FindByNameAndGroup(name, group)
}

func (r *taxonomyRepository) FindByID(id string) (*model.TaxonomyNode, error) {
	var node model.TaxonomyNode
	if err := r.db.First(&node, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *taxonomyRepository) FindByNameAndGroup(name, group string) (*model.TaxonomyNode, error) {
	var node model.TaxonomyNode
	err := r.db.
		Where("LOWER(name) = LOWER(?) AND LOWER(group_name) = LOWER(?)",
			strings.TrimSpace(name), strings.TrimSpace(group)).
		First(&node).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *taxonomyRepository) List() ([]model.TaxonomyNode, error) {
	var nodes []model.TaxonomyNode
	if err := r.db.Order("group_name ASC, name ASC").Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *taxonomyRepository) ListByGroup(group string) ([]model.TaxonomyNode, error) {
	var nodes []model.TaxonomyNode
	err := r.db.
		Where("LOWER(group_name) = LOWER(?)", strings.TrimSpace(group)).
		Order("name ASC").
		Find(&nodes).Error
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *taxonomyRepository) UpdateDescription(id, description string) error {
	return r.db.Model(&model.TaxonomyNode{}).
		Where("id = ?", id).
		Update("description", description).Error
}
