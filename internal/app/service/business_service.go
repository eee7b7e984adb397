package service

import (
	"errors"
	"strings"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrBusinessNameRequired  = errors.New("business name is required")
	ErrBusinessAlreadyExists = errors.New("a business with this name already exists in this region")
)

type BusinessService interface {
	Create(business *model.Business) (*model.Business, error)
	Get(id string) (*model.Business, error)
	List() ([]model.Business, error)
	// LinkCount reports how many taxonomy links reference the business.
	LinkCount(id string) (int64, error)
	// Delete removes the business and cascades to its records and entity
	// links. Taxonomy nodes referenced by removed links stay in place.
	Delete(id string) error
}

type businessService struct {
	businessRepo repository.BusinessRepository
	recordRepo   repository.RecordRepository
	linkRepo     repository.EntityLinkRepository
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	recordRepo repository.RecordRepository,
	linkRepo repository.EntityLinkRepository,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		recordRepo:   recordRepo,
		linkRepo:     linkRepo,
	}
}

func (s *businessService) Create(business *model.Business) (*model.Business, error) {
	business.Name = strings.TrimSpace(business.Name)
	business.Region = strings.TrimSpace(business.Region)
	if business.Name == "" {
		return nil, ErrBusinessNameRequired
	}

	// Advisory pre-check for a friendly error; the case-insensitive index
	// below still rejects a racing duplicate.
	if _, err := s.businessRepo.FindByNameAndRegion(business.Name, business.Region); err == nil {
		return nil, ErrBusinessAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.businessRepo.Create(business); err != nil {
		// The case-insensitive (name, region) index is the arbiter; map its
		// violation to the domain error.
		if strings.Contains(strings.ToLower(err.Error()), "idx_businesses_name_region") ||
			strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return nil, ErrBusinessAlreadyExists
		}
		return nil, err
	}
	return business, nil
}

func (s *businessService) Get(id string) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *businessService) List() ([]model.Business, error) {
	return s.businessRepo.List()
}

func (s *businessService) LinkCount(id string) (int64, error) {
	return s.linkRepo.CountForBusiness(id)
}

func (s *businessService) Delete(id string) error {
	if err := s.businessRepo.DeleteCascade(id, s.recordRepo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	return nil
}
