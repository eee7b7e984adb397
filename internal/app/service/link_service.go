package service

import (
	"errors"
	"strings"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/pkg/fingerprint"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound  = errors.New("business not found")
	ErrEntityNotFound    = errors.New("referenced entity does not exist")
	ErrUnknownEntityKind = errors.New("unknown entity kind")
	ErrLinkNotFound      = errors.New("entity link not found")
)

// AttachInput carries one classification request
type AttachInput struct {
	BusinessID      string        `json:"business_id"`
	EntityKind      string        `json:"entity_kind"`
	EntityID        string        `json:"entity_id"`
	CategoryName    string        `json:"category"`
	SubcategoryName string        `json:"subcategory,omitempty"`
	Metadata        model.JSONMap `json:"metadata,omitempty"`
}

type LinkService interface {
	// Attach classifies an entity under a taxonomy pair. It resolves (or
	// creates) the taxonomy nodes, validates the polymorphic entity reference
	// and upserts the link keyed by the 5-tuple fingerprint. Re-attaching an
	// identical tuple returns the existing link (created=false) with metadata
	// refreshed, never a duplicate and never an error.
	Attach(input AttachInput) (link *model.EntityLink, created bool, err error)
	// Detach removes the link only; the taxonomy nodes and the entity remain.
	Detach(linkID string) error
	ListLinksForEntity(entityKind, entityID string) ([]model.EntityLink, error)
	ListEntitiesForTaxonomy(categoryID string, subcategoryID, businessID *string) ([]model.EntityLink, error)
}

type linkService struct {
	linkRepo     repository.EntityLinkRepository
	taxonomyRepo repository.TaxonomyRepository
	businessRepo repository.BusinessRepository
	recordRepo   repository.RecordRepository
}

func NewLinkService(
	linkRepo repository.EntityLinkRepository,
	taxonomyRepo repository.TaxonomyRepository,
	businessRepo repository.BusinessRepository,
	recordRepo repository.RecordRepository,
) LinkService {
	return &linkService{
		linkRepo:     linkRepo,
		taxonomyRepo: taxonomyRepo,
		businessRepo: businessRepo,
		recordRepo:   recordRepo,
	}
}

func (s *linkService) Attach(input AttachInput) (*model.EntityLink, bool, error) {
	if strings.TrimSpace(input.CategoryName) == "" {
		return nil, false, ErrEmptyCategoryName
	}
	if !isKnownEntityKind(input.EntityKind) {
		return nil, false, ErrUnknownEntityKind
	}

	if _, err := s.businessRepo.FindByID(input.BusinessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrBusinessNotFound
		}
		return nil, false, err
	}

	// The polymorphic association has no structural foreign key, so the
	// reference check is mandatory here.
	exists, err := s.recordRepo.Exists(input.EntityKind, input.EntityID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, ErrEntityNotFound
	}

	category, err := s.taxonomyRepo.ResolveOrCreate(input.CategoryName, "", "")
	if err != nil {
		return nil, false, err
	}

	var subcategoryID *string
	if strings.TrimSpace(input.SubcategoryName) != "" {
		// Subcategories live under their category's name as group
		subcategory, err := s.taxonomyRepo.ResolveOrCreate(input.SubcategoryName, category.Name, "")
		if err != nil {
			return nil, false, err
		}
		subcategoryID = &subcategory.ID
	}

	link := &model.EntityLink{
		CategoryID:    &category.ID,
		SubcategoryID: subcategoryID,
		BusinessID:    input.BusinessID,
		EntityKind:    input.EntityKind,
		EntityID:      input.EntityID,
		Fingerprint: fingerprint.Link(
			&category.ID, subcategoryID, input.BusinessID, input.EntityKind, input.EntityID,
		),
		Metadata: input.Metadata,
	}

	// Advisory pre-read for the created flag only; the upsert below is the
	// atomic operation correctness rests on.
	created := false
	if _, err := s.linkRepo.FindByFingerprint(link.Fingerprint); errors.Is(err, gorm.ErrRecordNotFound) {
		created = true
	}

	stored, err := s.linkRepo.Upsert(link)
	if err != nil {
		return nil, false, err
	}

	logger.Debug("Entity attached to taxonomy", map[string]interface{}{
		"link_id":     stored.ID,
		"entity_kind": stored.EntityKind,
		"entity_id":   stored.EntityID,
		"category":    category.Name,
		"created":     created,
	})
	return stored, created, nil
}

func (s *linkService) Detach(linkID string) error {
	if err := s.linkRepo.Delete(linkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return err
	}
	return nil
}

func (s *linkService) ListLinksForEntity(entityKind, entityID string) ([]model.EntityLink, error) {
	if !isKnownEntityKind(entityKind) {
		return nil, ErrUnknownEntityKind
	}
	return s.linkRepo.ListForEntity(entityKind, entityID)
}

func (s *linkService) ListEntitiesForTaxonomy(categoryID string, subcategoryID, businessID *string) ([]model.EntityLink, error) {
	return s.linkRepo.ListForTaxonomy(categoryID, subcategoryID, businessID)
}

func isKnownEntityKind(kind string) bool {
	for _, k := range model.KnownEntityKinds {
		if k == kind {
			return true
		}
	}
	return false
}
