package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocumentStore struct {
	lastFilename    string
	lastContentType string
	lastFolder      string
}

func (f *fakeDocumentStore) GeneratePresignedURL(filename, contentType, folder string) (*storage.PresignedURLResponse, error) {
	f.lastFilename = filename
	f.lastContentType = contentType
	f.lastFolder = folder
	return &storage.PresignedURLResponse{
		UploadURL: "https://bucket.s3.amazonaws.com/ingest/doc.pdf?signed",
		FileURL:   "https://cdn.example.com/ingest/doc.pdf",
		Key:       "ingest/doc.pdf",
	}, nil
}

func postUploadURL(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/ingest/upload-url", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngestController_GetUploadURL(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeDocumentStore{}
	ctrl := NewIngestController(nil, store)

	router := gin.New()
	router.POST("/ingest/upload-url", ctrl.GetUploadURL)

	w := postUploadURL(t, router, map[string]interface{}{
		"filename":     "report.pdf",
		"content_type": "application/pdf",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Upload storage.PresignedURLResponse `json:"upload"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ingest/doc.pdf", resp.Upload.Key)
	assert.NotEmpty(t, resp.Upload.UploadURL)

	// Uploads always land in the ingest staging folder
	assert.Equal(t, "report.pdf", store.lastFilename)
	assert.Equal(t, "application/pdf", store.lastContentType)
	assert.Equal(t, "ingest", store.lastFolder)
}

func TestIngestController_GetUploadURL_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := NewIngestController(nil, &fakeDocumentStore{})
	router := gin.New()
	router.POST("/ingest/upload-url", ctrl.GetUploadURL)

	w := postUploadURL(t, router, map[string]interface{}{
		"content_type": "application/pdf",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestController_GetUploadURL_NoStoreConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := NewIngestController(nil, nil)
	router := gin.New()
	router.POST("/ingest/upload-url", ctrl.GetUploadURL)

	w := postUploadURL(t, router, map[string]interface{}{
		"filename":     "report.pdf",
		"content_type": "application/pdf",
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
