package repository

import (
	"strings"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(business *model.Business) error
	FindByID(id string) (*model.Business, error)
	FindByNameAndRegion(name, region string) (*model.Business, error)
	List() ([]model.Business, error)
	// DeleteCascade removes the business together with its records and entity
	// links in one transaction. Taxonomy nodes referenced by the removed links
	// are left in place.
	DeleteCascade(id string, records RecordRepository) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business", err, map[string]interface{}{
			"name":   business.Name,
			"region": business.Region,
		})
		return err
	}

	logger.Debug("Business created", map[string]interface{}{
		"business_id": business.ID,
		"name":        business.Name,
	})
	return nil
}

func (r *businessRepository) FindByID(id string) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByNameAndRegion(name, region string) (*model.Business, error) {
	var business model.Business
	err := r.db.
		Where("LOWER(name) = LOWER(?) AND LOWER(region) = LOWER(?)",
			strings.TrimSpace(name), strings.TrimSpace(region)).
		First(&business).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) List() ([]model.Business, error) {
	var businesses []model.Business
	if err := r.db.Order("name ASC").Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) DeleteCascade(id string, records RecordRepository) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", id).Delete(&model.EntityLink{}).Error; err != nil {
			return err
		}
		if err := records.DeleteByBusiness(tx, id); err != nil {
			return err
		}

		res := tx.Delete(&model.Business{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		logger.Info("Business deleted with cascade", map[string]interface{}{
			"business_id": id,
		})
		return nil
	})
}
