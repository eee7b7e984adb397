package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/pkg/fingerprint"
	"github.com/marketgraph/marketgraph-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrEmptyDocument = errors.New("document text must not be empty")

// Ingest outcome statuses
const (
	IngestStatusCreated = "created"
	IngestStatusUpdated = "updated"
)

// ObjectStore fetches raw document bodies from the object store
type ObjectStore interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// IngestInput is one document handed to the ingestion pipeline
type IngestInput struct {
	BusinessID  string        `json:"business_id"`
	Title       string        `json:"title"`
	Text        string        `json:"text"`
	ContentType string        `json:"content_type"`
	Source      string        `json:"source"`
	Category    string        `json:"category,omitempty"`
	Subcategory string        `json:"subcategory,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Confidence  float64       `json:"confidence,omitempty"`
	Metadata    model.JSONMap `json:"metadata,omitempty"`
}

// IngestResult reports what happened to one document
type IngestResult struct {
	Status      string `json:"status"` // created or updated
	ContentID   string `json:"content_id"`
	Fingerprint string `json:"fingerprint"`
	LinkID      string `json:"link_id,omitempty"`
}

// BatchResult aggregates one feed run
type BatchResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

type IngestService interface {
	// IngestContent deduplicates by content fingerprint: identical canonical
	// text under the same business updates the stored row in place, anything
	// new is inserted. When a category is supplied the record is attached to
	// the taxonomy through the idempotent link path.
	IngestContent(input IngestInput) (*IngestResult, error)
	// IngestObject pulls the document body from the object store under key
	// and feeds it through IngestContent.
	IngestObject(ctx context.Context, key string, input IngestInput) (*IngestResult, error)
	// IngestBatch runs a whole feed through IngestContent and rolls the
	// outcome into the feed's source record. One bad document is counted,
	// not fatal.
	IngestBatch(category, feedURL string, docs []IngestInput) (*BatchResult, error)
	ListSources() ([]model.IngestSource, error)
}

type ingestService struct {
	recordRepo   repository.RecordRepository
	businessRepo repository.BusinessRepository
	sourceRepo   repository.IngestSourceRepository
	linkService  LinkService
	objectStore  ObjectStore // nil when no object store is configured
}

func NewIngestService(
	recordRepo repository.RecordRepository,
	businessRepo repository.BusinessRepository,
	sourceRepo repository.IngestSourceRepository,
	linkService LinkService,
	objectStore ObjectStore,
) IngestService {
	return &ingestService{
		recordRepo:   recordRepo,
		businessRepo: businessRepo,
		sourceRepo:   sourceRepo,
		linkService:  linkService,
		objectStore:  objectStore,
	}
}

func (s *ingestService) IngestContent(input IngestInput) (*IngestResult, error) {
	text := cleanText(input.Text)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	if _, err := s.businessRepo.FindByID(input.BusinessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	fp := fingerprint.Record(input.BusinessID, input.Title, text, input.ContentType)

	confidence := input.Confidence
	if confidence == 0 {
		confidence = 0.9
	}

	result := &IngestResult{Fingerprint: fp}

	existing, err := s.recordRepo.FindContentByFingerprint(fp)
	switch {
	case err == nil:
		// Same canonical content already stored: refresh in place, no new row
		existing.Title = input.Title
		existing.Text = text
		existing.Summary = summarize(text)
		existing.Category = input.Category
		existing.SubCategory = input.Subcategory
		existing.Tags = input.Tags
		existing.Metadata = input.Metadata
		existing.Source = input.Source
		existing.Confidence = confidence
		if err := s.recordRepo.UpdateContent(existing); err != nil {
			return nil, err
		}
		result.Status = IngestStatusUpdated
		result.ContentID = existing.ID

	case errors.Is(err, gorm.ErrRecordNotFound):
		content := &model.Content{
			BusinessID:  input.BusinessID,
			Title:       input.Title,
			ContentType: input.ContentType,
			Text:        text,
			Summary:     summarize(text),
			Category:    input.Category,
			SubCategory: input.Subcategory,
			Tags:        input.Tags,
			Metadata:    input.Metadata,
			Source:      input.Source,
			Fingerprint: fp,
			Confidence:  confidence,
		}
		if err := s.recordRepo.CreateContent(content); err != nil {
			return nil, err
		}
		result.Status = IngestStatusCreated
		result.ContentID = content.ID

	default:
		return nil, err
	}

	if strings.TrimSpace(input.Category) != "" {
		link, _, err := s.linkService.Attach(AttachInput{
			BusinessID:      input.BusinessID,
			EntityKind:      model.EntityKindContent,
			EntityID:        result.ContentID,
			CategoryName:    input.Category,
			SubcategoryName: input.Subcategory,
			Metadata: model.JSONMap{
				"source":     input.Source,
				"confidence": confidence,
			},
		})
		if err != nil {
			return nil, err
		}
		result.LinkID = link.ID
	}

	logger.Info("Content ingested", map[string]interface{}{
		"status":      result.Status,
		"content_id":  result.ContentID,
		"business_id": input.BusinessID,
		"category":    input.Category,
	})
	return result, nil
}

func (s *ingestService) IngestObject(ctx context.Context, key string, input IngestInput) (*IngestResult, error) {
	if s.objectStore == nil {
		return nil, errors.New("no object store configured")
	}

	body, err := s.objectStore.Fetch(ctx, key)
	if err != nil {
		logger.Error("Failed to fetch document from object store", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}

	input.Text = string(body)
	if input.Title == "" {
		input.Title = key
	}
	return s.IngestContent(input)
}

func (s *ingestService) IngestBatch(category, feedURL string, docs []IngestInput) (*BatchResult, error) {
	if _, err := s.sourceRepo.Register(&model.IngestSource{
		Category: category,
		FeedURL:  feedURL,
	}); err != nil {
		return nil, err
	}

	batch := &BatchResult{}
	var confidenceSum float64
	var confidenceCount int

	for _, doc := range docs {
		doc.Source = feedURL
		result, err := s.IngestContent(doc)
		if err != nil {
			batch.Failed++
			logger.Warn("Feed document rejected, continuing", map[string]interface{}{
				"feed_url": feedURL,
				"title":    doc.Title,
				"error":    err.Error(),
			})
			continue
		}

		if result.Status == IngestStatusCreated {
			batch.Created++
		} else {
			batch.Updated++
		}
		confidence := doc.Confidence
		if confidence == 0 {
			confidence = 0.9
		}
		confidenceSum += confidence
		confidenceCount++
	}

	avgConfidence := 0.0
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float64(confidenceCount)
	}

	if err := s.sourceRepo.RecordRun(feedURL, batch.Created, batch.Updated, batch.Failed, avgConfidence, nil); err != nil {
		return nil, err
	}

	logger.Info("Feed batch ingested", map[string]interface{}{
		"feed_url": feedURL,
		"created":  batch.Created,
		"updated":  batch.Updated,
		"failed":   batch.Failed,
	})
	return batch, nil
}

func (s *ingestService) ListSources() ([]model.IngestSource, error) {
	return s.sourceRepo.List()
}

// cleanText strips NUL bytes and non-printable control characters that
// Postgres text columns reject.
func cleanText(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, ch := range raw {
		if ch == '\n' || ch == '\r' || ch == '\t' || unicode.IsPrint(ch) {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func summarize(text string) string {
	const maxLen = 300
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
