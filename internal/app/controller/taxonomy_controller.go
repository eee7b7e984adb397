package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	apperrors "github.com/marketgraph/marketgraph-backend/internal/errors"
	"github.com/marketgraph/marketgraph-backend/internal/middleware"
	"gorm.io/gorm"
)

type TaxonomyController struct {
	taxonomyService service.TaxonomyService
}

func NewTaxonomyController(taxonomyService service.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{taxonomyService: taxonomyService}
}

type TaxonomyNodeRequest struct {
	Name        string `json:"name" binding:"required"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

// ResolveNode returns the node for (name, group), creating it on a miss.
// The same request always resolves to the same node regardless of casing.
func (ctrl *TaxonomyController) ResolveNode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TaxonomyNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid taxonomy resolve request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	node, err := ctrl.taxonomyService.ResolveOrCreate(req.Name, req.Group, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCategoryName) {
			apperrors.BadRequest(c, apperrors.TaxonomyEmptyName, "Category name must not be empty")
			return
		}
		log.Error("Failed to resolve taxonomy node", err, map[string]interface{}{
			"name":  req.Name,
			"group": req.Group,
		})
		info := apperrors.ParseError(err, "taxonomy")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"node": node,
	})
}

func (ctrl *TaxonomyController) GetNode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Param("id")
	node, err := ctrl.taxonomyService.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.TaxonomyNodeNotFound, "Taxonomy node not found")
			return
		}
		log.Error("Failed to fetch taxonomy node", err, map[string]interface{}{
			"node_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch taxonomy node")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"node": node,
	})
}

func (ctrl *TaxonomyController) ListNodes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var (
		nodes interface{}
		err   error
	)
	if group, ok := c.GetQuery("group"); ok {
		nodes, err = ctrl.taxonomyService.ListByGroup(group)
	} else {
		nodes, err = ctrl.taxonomyService.List()
	}
	if err != nil {
		log.Error("Failed to list taxonomy nodes", err, nil)
		apperrors.InternalError(c, "Failed to fetch taxonomy nodes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nodes": nodes,
	})
}

type TaxonomyImportRequest struct {
	Nodes []service.SeedNode `json:"nodes" binding:"required"`
}

// ImportNodes applies a seed batch idempotently; re-posting the same batch
// reports everything as skipped.
func (ctrl *TaxonomyController) ImportNodes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TaxonomyImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid taxonomy import request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	stats, err := ctrl.taxonomyService.Import(req.Nodes)
	if err != nil {
		log.Error("Taxonomy import failed", err, map[string]interface{}{
			"node_count": len(req.Nodes),
		})
		apperrors.InternalError(c, "Taxonomy import failed")
		return
	}

	log.Info("Taxonomy import complete", map[string]interface{}{
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"skipped":  stats.Skipped,
	})

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
