package service

import (
	"errors"
	"strings"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
)

var (
	ErrInvalidDirection = errors.New("direction must be one of in, out, both")
	ErrInvalidDepth     = errors.New("traversal depth must be positive")
)

type GraphService interface {
	// AddRelation always inserts a new edge. Ids are deliberately not
	// validated against entity tables and duplicates are allowed: the graph
	// keeps loose store semantics. A nil weight defaults to 1.0; an explicit
	// zero is stored as given.
	AddRelation(sourceID, targetID, relationType string, weight *float64, context string) (*model.Relation, error)
	QueryRelations(id, direction string, relationType *string) ([]model.Relation, error)
	// Traverse returns the ids reachable from startID within maxDepth hops,
	// breadth-first, excluding startID itself. Visited tracking makes it
	// terminate on cyclic graphs; every call restarts from startID.
	Traverse(startID string, maxDepth int, relationType *string) ([]string, error)
}

type graphService struct {
	relationRepo repository.RelationRepository
}

func NewGraphService(relationRepo repository.RelationRepository) GraphService {
	return &graphService{relationRepo: relationRepo}
}

func (s *graphService) AddRelation(sourceID, targetID, relationType string, weight *float64, context string) (*model.Relation, error) {
	if strings.TrimSpace(sourceID) == "" || strings.TrimSpace(targetID) == "" {
		return nil, errors.New("source and target ids are required")
	}

	w := 1.0
	if weight != nil {
		w = *weight
	}

	relation := &model.Relation{
		SourceID:     sourceID,
		TargetID:     targetID,
		RelationType: relationType,
		Weight:       w,
		Context:      context,
	}
	if err := s.relationRepo.Create(relation); err != nil {
		return nil, err
	}
	return relation, nil
}

func (s *graphService) QueryRelations(id, direction string, relationType *string) ([]model.Relation, error) {
	switch direction {
	case repository.DirectionIn, repository.DirectionOut, repository.DirectionBoth:
	case "":
		direction = repository.DirectionBoth
	default:
		return nil, ErrInvalidDirection
	}
	return s.relationRepo.Query(id, direction, relationType)
}

func (s *graphService) Traverse(startID string, maxDepth int, relationType *string) ([]string, error) {
	if maxDepth <= 0 {
		return nil, ErrInvalidDepth
	}

	visited := map[string]bool{startID: true}
	frontier := []string{startID}
	var reachable []string

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		edges, err := s.relationRepo.OutgoingFrom(frontier, relationType)
		if err != nil {
			return nil, err
		}

		var next []string
		for _, edge := range edges {
			if visited[edge.TargetID] {
				continue
			}
			visited[edge.TargetID] = true
			reachable = append(reachable, edge.TargetID)
			next = append(next, edge.TargetID)
		}
		frontier = next
	}

	return reachable, nil
}
