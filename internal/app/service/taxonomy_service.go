package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"github.com/marketgraph/marketgraph-backend/pkg/redis"
)

var ErrEmptyCategoryName = errors.New("category name must not be empty")

// SeedNode is one taxonomy entry in a seed file or workbook
type SeedNode struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

// ImportStats reports the outcome of an idempotent taxonomy import
type ImportStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// taxonomyExport is the shape written by Export (and read back by clients)
type taxonomyExport struct {
	UpdatedAt  time.Time            `json:"updated_at"`
	Categories []model.TaxonomyNode `json:"categories"`
}

type TaxonomyService interface {
	// ResolveOrCreate trims and case-folds (name, group) against the stored
	// nodes; on a miss it creates the node with the caller's casing.
	ResolveOrCreate(name, group, description string) (*model.TaxonomyNode, error)
	Get(id string) (*model.TaxonomyNode, error)
	List() ([]model.TaxonomyNode, error)
	ListByGroup(group string) ([]model.TaxonomyNode, error)
	// Import applies seed entries idempotently: new identities are inserted,
	// changed descriptions updated, everything else skipped. Safe to re-run.
	Import(nodes []SeedNode) (*ImportStats, error)
	// Export writes the full taxonomy as JSON to path (DB is the source of truth)
	Export(path string) (int, error)
}

type taxonomyService struct {
	taxonomyRepo repository.TaxonomyRepository
}

func NewTaxonomyService(taxonomyRepo repository.TaxonomyRepository) TaxonomyService {
	return &taxonomyService{taxonomyRepo: taxonomyRepo}
}

func (s *taxonomyService) ResolveOrCreate(name, group, description string) (*model.TaxonomyNode, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyCategoryName
	}

	node, err := s.taxonomyRepo.ResolveOrCreate(name, group, description)
	if err != nil {
		return nil, err
	}

	redis.InvalidateTaxonomyList(context.Background())
	return node, nil
}

func (s *taxonomyService) Get(id string) (*model.TaxonomyNode, error) {
	return s.taxonomyRepo.FindByID(id)
}

func (s *taxonomyService) List() ([]model.TaxonomyNode, error) {
	var cached []model.TaxonomyNode
	hit, err := redis.GetCachedTaxonomyList(context.Background(), &cached)
	if err != nil {
		logger.Warn("Taxonomy cache read failed, falling back to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if hit {
		return cached, nil
	}

	nodes, err := s.taxonomyRepo.List()
	if err != nil {
		return nil, err
	}

	if err := redis.CacheTaxonomyList(context.Background(), nodes); err != nil {
		logger.Warn("Taxonomy cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nodes, nil
}

func (s *taxonomyService) ListByGroup(group string) ([]model.TaxonomyNode, error) {
	return s.taxonomyRepo.ListByGroup(group)
}

func (s *taxonomyService) Import(nodes []SeedNode) (*ImportStats, error) {
	stats := &ImportStats{}

	for _, seed := range nodes {
		if strings.TrimSpace(seed.Name) == "" {
			stats.Skipped++
			continue
		}

		existing, err := s.taxonomyRepo.FindByNameAndGroup(seed.Name, seed.Group)
		if err == nil {
			if seed.Description != "" && existing.Description != seed.Description {
				if err := s.taxonomyRepo.UpdateDescription(existing.ID, seed.Description); err != nil {
					return nil, err
				}
				stats.Updated++
			} else {
				stats.Skipped++
			}
			continue
		}

		if _, err := s.taxonomyRepo.ResolveOrCreate(seed.Name, seed.Group, seed.Description); err != nil {
			return nil, err
		}
		stats.Inserted++
	}

	redis.InvalidateTaxonomyList(context.Background())

	logger.Info("Taxonomy import complete", map[string]interface{}{
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"skipped":  stats.Skipped,
	})
	return stats, nil
}

func (s *taxonomyService) Export(path string) (int, error) {
	nodes, err := s.taxonomyRepo.List()
	if err != nil {
		return 0, err
	}

	export := taxonomyExport{
		UpdatedAt:  time.Now().UTC(),
		Categories: nodes,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, err
	}

	logger.Info("Taxonomy exported", map[string]interface{}{
		"path":  path,
		"count": len(nodes),
	})
	return len(nodes), nil
}
