package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	apperrors "github.com/marketgraph/marketgraph-backend/internal/errors"
	"github.com/marketgraph/marketgraph-backend/internal/middleware"
	"github.com/marketgraph/marketgraph-backend/internal/storage"
)

// DocumentStore issues upload targets for raw documents staged ahead of
// ingestion
type DocumentStore interface {
	GeneratePresignedURL(filename, contentType, folder string) (*storage.PresignedURLResponse, error)
}

type IngestController struct {
	ingestService service.IngestService
	documentStore DocumentStore // nil when no object store is configured
}

func NewIngestController(ingestService service.IngestService, documentStore DocumentStore) *IngestController {
	return &IngestController{
		ingestService: ingestService,
		documentStore: documentStore,
	}
}

type IngestRequest struct {
	BusinessID  string        `json:"business_id" binding:"required"`
	Title       string        `json:"title" binding:"required"`
	Text        string        `json:"text"`
	ContentType string        `json:"content_type"`
	Source      string        `json:"source"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Tags        []string      `json:"tags"`
	Confidence  float64       `json:"confidence"`
	Metadata    model.JSONMap `json:"metadata"`
	ObjectKey   string        `json:"object_key"` // fetch body from the object store instead of Text
}

// IngestContent accepts one document. Responds 201 when a new record was
// stored, 200 when the fingerprint matched an existing record and it was
// refreshed in place.
func (ctrl *IngestController) IngestContent(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid ingest request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	input := service.IngestInput{
		BusinessID:  req.BusinessID,
		Title:       req.Title,
		Text:        req.Text,
		ContentType: req.ContentType,
		Source:      req.Source,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Tags:        req.Tags,
		Confidence:  req.Confidence,
		Metadata:    req.Metadata,
	}

	var (
		result *service.IngestResult
		err    error
	)
	if req.ObjectKey != "" {
		result, err = ctrl.ingestService.IngestObject(c.Request.Context(), req.ObjectKey, input)
	} else {
		result, err = ctrl.ingestService.IngestContent(input)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyDocument):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Document text must not be empty")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.BusinessNotFound, "Business not found")
		default:
			log.Error("Ingestion failed", err, map[string]interface{}{
				"business_id": req.BusinessID,
				"title":       req.Title,
			})
			apperrors.InternalError(c, "Ingestion failed")
		}
		return
	}

	status := http.StatusOK
	if result.Status == service.IngestStatusCreated {
		status = http.StatusCreated
	}

	log.Info("Document ingested", map[string]interface{}{
		"status":      result.Status,
		"content_id":  result.ContentID,
		"business_id": req.BusinessID,
	})

	c.JSON(status, gin.H{
		"result": result,
	})
}

type BatchIngestRequest struct {
	Category  string                `json:"category" binding:"required"`
	FeedURL   string                `json:"feed_url" binding:"required"`
	Documents []service.IngestInput `json:"documents" binding:"required"`
}

// IngestBatch runs a whole feed and reports aggregate counts. Individual
// document failures are counted in the result, not surfaced as HTTP errors.
func (ctrl *IngestController) IngestBatch(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BatchIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid batch ingest request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	batch, err := ctrl.ingestService.IngestBatch(req.Category, req.FeedURL, req.Documents)
	if err != nil {
		log.Error("Batch ingestion failed", err, map[string]interface{}{
			"feed_url": req.FeedURL,
		})
		apperrors.InternalError(c, "Batch ingestion failed")
		return
	}

	log.Info("Feed batch ingested", map[string]interface{}{
		"feed_url": req.FeedURL,
		"created":  batch.Created,
		"updated":  batch.Updated,
		"failed":   batch.Failed,
	})

	c.JSON(http.StatusOK, gin.H{
		"batch": batch,
	})
}

type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// GetUploadURL hands the client a presigned PUT target under the ingest
// staging folder. The returned key is what the object_key ingest path
// fetches once the upload completes.
func (ctrl *IngestController) GetUploadURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.documentStore == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalServerError, "Object storage is not configured")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid upload URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	upload, err := ctrl.documentStore.GeneratePresignedURL(req.Filename, req.ContentType, "ingest")
	if err != nil {
		log.Error("Failed to generate upload URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.InternalError(c, "Failed to generate upload URL")
		return
	}

	log.Info("Upload URL issued", map[string]interface{}{
		"key": upload.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload": upload,
	})
}

func (ctrl *IngestController) ListSources(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sources, err := ctrl.ingestService.ListSources()
	if err != nil {
		log.Error("Failed to list ingest sources", err, nil)
		apperrors.InternalError(c, "Failed to fetch ingest sources")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": sources,
		"count":   len(sources),
	})
}
