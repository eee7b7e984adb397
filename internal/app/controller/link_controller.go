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

type LinkController struct {
	linkService service.LinkService
}

func NewLinkController(linkService service.LinkService) *LinkController {
	return &LinkController{linkService: linkService}
}

type AttachRequest struct {
	BusinessID  string        `json:"business_id" binding:"required"`
	EntityKind  string        `json:"entity_kind" binding:"required"`
	EntityID    string        `json:"entity_id" binding:"required"`
	Category    string        `json:"category" binding:"required"`
	Subcategory string        `json:"subcategory"`
	Metadata    model.JSONMap `json:"metadata"`
}

// Attach classifies an entity under a taxonomy pair. Responds 201 when a new
// link was created, 200 when an identical tuple already existed.
func (ctrl *LinkController) Attach(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid attach request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	link, created, err := ctrl.linkService.Attach(service.AttachInput{
		BusinessID:      req.BusinessID,
		EntityKind:      req.EntityKind,
		EntityID:        req.EntityID,
		CategoryName:    req.Category,
		SubcategoryName: req.Subcategory,
		Metadata:        req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCategoryName):
			apperrors.BadRequest(c, apperrors.TaxonomyEmptyName, "Category name must not be empty")
		case errors.Is(err, service.ErrUnknownEntityKind):
			apperrors.BadRequest(c, apperrors.LinkUnknownEntityKind, "Unknown entity kind")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
		case errors.Is(err, service.ErrEntityNotFound):
			log.Warn("Attach rejected: entity does not exist", map[string]interface{}{
				"entity_kind": req.EntityKind,
				"entity_id":   req.EntityID,
			})
			apperrors.NotFound(c, apperrors.LinkEntityNotFound, "Referenced entity does not exist")
		default:
			log.Error("Failed to attach entity", err, map[string]interface{}{
				"entity_kind": req.EntityKind,
				"entity_id":   req.EntityID,
			})
			apperrors.InternalError(c, "Failed to attach entity")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	log.Info("Entity attached", map[string]interface{}{
		"link_id": link.ID,
		"created": created,
	})

	c.JSON(status, gin.H{
		"link":    link,
		"created": created,
	})
}

func (ctrl *LinkController) Detach(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Param("id")
	if err := ctrl.linkService.Detach(id); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			apperrors.NotFound(c, apperrors.LinkNotFound, "Entity link not found")
			return
		}
		log.Error("Failed to detach entity", err, map[string]interface{}{
			"link_id": id,
		})
		apperrors.InternalError(c, "Failed to detach entity")
		return
	}

	log.Info("Entity detached", map[string]interface{}{
		"link_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Entity link removed",
	})
}

func (ctrl *LinkController) ListForEntity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	entityKind := c.Param("entity_kind")
	entityID := c.Param("entity_id")

	links, err := ctrl.linkService.ListLinksForEntity(entityKind, entityID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownEntityKind) {
			apperrors.BadRequest(c, apperrors.LinkUnknownEntityKind, "Unknown entity kind")
			return
		}
		log.Error("Failed to list entity links", err, map[string]interface{}{
			"entity_kind": entityKind,
			"entity_id":   entityID,
		})
		apperrors.InternalError(c, "Failed to fetch entity links")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": links,
		"count": len(links),
	})
}

func (ctrl *LinkController) ListForTaxonomy(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categoryID := c.Param("category_id")

	var subcategoryID, businessID *string
	if v, ok := c.GetQuery("subcategory_id"); ok {
		subcategoryID = &v
	}
	if v, ok := c.GetQuery("business_id"); ok {
		businessID = &v
	}

	links, err := ctrl.linkService.ListEntitiesForTaxonomy(categoryID, subcategoryID, businessID)
	if err != nil {
		log.Error("Failed to list taxonomy members", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apperrors.InternalError(c, "Failed to fetch taxonomy members")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": links,
		"count": len(links),
	})
}
