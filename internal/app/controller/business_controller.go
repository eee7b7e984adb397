package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	apperrors "github.com/marketgraph/marketgraph-backend/internal/errors"
	"github.com/marketgraph/marketgraph-backend/internal/middleware"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{businessService: businessService}
}

type BusinessRequest struct {
	Name        string `json:"name" binding:"required"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Stage       string `json:"stage"`
	Website     string `json:"website"`
	Goal        string `json:"goal"`
	Region      string `json:"region"`
}

func (ctrl *BusinessController) CreateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid business creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	business, err := ctrl.businessService.Create(&model.Business{
		Name:        req.Name,
		Industry:    req.Industry,
		Description: req.Description,
		Stage:       req.Stage,
		Website:     req.Website,
		Goal:        req.Goal,
		Region:      req.Region,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNameRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Business name is required")
		case errors.Is(err, service.ErrBusinessAlreadyExists):
			log.Warn("Duplicate business", map[string]interface{}{
				"name":   req.Name,
				"region": req.Region,
			})
			apperrors.Conflict(c, apperrors.BusinessAlreadyExists, "A business with this name already exists in this region")
		default:
			log.Error("Failed to create business", err, map[string]interface{}{
				"name": req.Name,
			})
			info := apperrors.ParseError(err, "business")
			apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		}
		return
	}

	log.Info("Business created", map[string]interface{}{
		"business_id": business.ID,
		"name":        business.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"business": business,
	})
}

func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Param("id")
	business, err := ctrl.businessService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		log.Error("Failed to fetch business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch business")
		return
	}

	linkCount, err := ctrl.businessService.LinkCount(id)
	if err != nil {
		log.Error("Failed to count business links", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch business")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business":   business,
		"link_count": linkCount,
	})
}

func (ctrl *BusinessController) ListBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businesses, err := ctrl.businessService.List()
	if err != nil {
		log.Error("Failed to list businesses", err, nil)
		apperrors.InternalError(c, "Failed to fetch businesses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

func (ctrl *BusinessController) DeleteBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Param("id")
	if err := ctrl.businessService.Delete(id); err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
			return
		}
		log.Error("Failed to delete business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.InternalError(c, "Failed to delete business")
		return
	}

	log.Info("Business deleted", map[string]interface{}{
		"business_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Business deleted successfully",
	})
}
