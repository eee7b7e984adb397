package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	apperrors "github.com/marketgraph/marketgraph-backend/internal/errors"
	"github.com/marketgraph/marketgraph-backend/internal/middleware"
)

type GraphController struct {
	graphService service.GraphService
}

func NewGraphController(graphService service.GraphService) *GraphController {
	return &GraphController{graphService: graphService}
}

type RelationRequest struct {
	SourceID     string   `json:"source_id" binding:"required"`
	TargetID     string   `json:"target_id" binding:"required"`
	RelationType string   `json:"relation_type" binding:"required"`
	Weight       *float64 `json:"weight"` // omitted defaults to 1.0, explicit zero is kept
	Context      string   `json:"context"`
}

func (ctrl *GraphController) AddRelation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid relation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	relation, err := ctrl.graphService.AddRelation(req.SourceID, req.TargetID, req.RelationType, req.Weight, req.Context)
	if err != nil {
		log.Error("Failed to add relation", err, map[string]interface{}{
			"source_id": req.SourceID,
			"target_id": req.TargetID,
		})
		apperrors.InternalError(c, "Failed to add relation")
		return
	}

	log.Info("Relation added", map[string]interface{}{
		"relation_id":   relation.ID,
		"relation_type": relation.RelationType,
	})

	c.JSON(http.StatusCreated, gin.H{
		"relation": relation,
	})
}

func (ctrl *GraphController) QueryRelations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Param("id")
	direction := c.DefaultQuery("direction", "both")

	var relationType *string
	if v, ok := c.GetQuery("type"); ok {
		relationType = &v
	}

	relations, err := ctrl.graphService.QueryRelations(id, direction, relationType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDirection) {
			apperrors.BadRequest(c, apperrors.GraphInvalidDirection, "Direction must be one of in, out, both")
			return
		}
		log.Error("Failed to query relations", err, map[string]interface{}{
			"node_id": id,
		})
		apperrors.InternalError(c, "Failed to query relations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"relations": relations,
		"count":     len(relations),
	})
}

func (ctrl *GraphController) Traverse(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Param("id")

	depth, err := strconv.Atoi(c.DefaultQuery("depth", "2"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.GraphInvalidDepth, "Depth must be an integer")
		return
	}

	var relationType *string
	if v, ok := c.GetQuery("type"); ok {
		relationType = &v
	}

	reachable, err := ctrl.graphService.Traverse(id, depth, relationType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDepth) {
			apperrors.BadRequest(c, apperrors.GraphInvalidDepth, "Traversal depth must be positive")
			return
		}
		log.Error("Traversal failed", err, map[string]interface{}{
			"start_id": id,
			"depth":    depth,
		})
		apperrors.InternalError(c, "Traversal failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start_id":  id,
		"depth":     depth,
		"reachable": reachable,
		"count":     len(reachable),
	})
}
