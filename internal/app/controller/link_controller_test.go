package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/internal/app/model"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLinkControllerTest(t *testing.T) (*gin.Engine, *model.Business, *model.Content) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	linkRepo := repository.NewEntityLinkRepository(testDB)
	taxonomyRepo := repository.NewTaxonomyRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	recordRepo := repository.NewRecordRepository(testDB)
	linkService := service.NewLinkService(linkRepo, taxonomyRepo, businessRepo, recordRepo)

	ctrl := NewLinkController(linkService)

	router := gin.New()
	router.POST("/links", ctrl.Attach)
	router.DELETE("/links/:id", ctrl.Detach)
	router.GET("/links/entity/:entity_kind/:entity_id", ctrl.ListForEntity)

	business := &model.Business{Name: "Glow Labs", Region: "EU"}
	require.NoError(t, testDB.Create(business).Error)

	content := &model.Content{
		BusinessID:  business.ID,
		Title:       "Vegan skincare guide",
		Text:        "body",
		Fingerprint: "fp-content-1",
	}
	require.NoError(t, testDB.Create(content).Error)

	return router, business, content
}

func postAttach(t *testing.T, router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/links", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLinkController_Attach_CreatedThenExisting(t *testing.T) {
	router, business, content := setupLinkControllerTest(t)

	body := map[string]interface{}{
		"business_id": business.ID,
		"entity_kind": model.EntityKindContent,
		"entity_id":   content.ID,
		"category":    "Skincare",
		"subcategory": "Vegan",
	}

	w := postAttach(t, router, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	var first struct {
		Link    model.EntityLink `json:"link"`
		Created bool             `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Created)

	// Identical tuple: 200, same link id
	w = postAttach(t, router, body)
	assert.Equal(t, http.StatusOK, w.Code)

	var second struct {
		Link    model.EntityLink `json:"link"`
		Created bool             `json:"created"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.False(t, second.Created)
	assert.Equal(t, first.Link.ID, second.Link.ID)
}

func TestLinkController_Attach_Validation(t *testing.T) {
	router, business, content := setupLinkControllerTest(t)

	// Missing category fails binding
	w := postAttach(t, router, map[string]interface{}{
		"business_id": business.ID,
		"entity_kind": model.EntityKindContent,
		"entity_id":   content.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown entity kind
	w = postAttach(t, router, map[string]interface{}{
		"business_id": business.ID,
		"entity_kind": "invoice",
		"entity_id":   content.ID,
		"category":    "Skincare",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "LINK_UNKNOWN_ENTITY_KIND")

	// Nonexistent entity
	w = postAttach(t, router, map[string]interface{}{
		"business_id": business.ID,
		"entity_kind": model.EntityKindContent,
		"entity_id":   "no-such-content",
		"category":    "Skincare",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "LINK_ENTITY_NOT_FOUND")
}

func TestLinkController_DetachAndList(t *testing.T) {
	router, business, content := setupLinkControllerTest(t)

	w := postAttach(t, router, map[string]interface{}{
		"business_id": business.ID,
		"entity_kind": model.EntityKindContent,
		"entity_id":   content.ID,
		"category":    "Skincare",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Link model.EntityLink `json:"link"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest("GET", "/links/entity/"+model.EntityKindContent+"/"+content.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.Link.ID)

	req = httptest.NewRequest("DELETE", "/links/"+created.Link.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("DELETE", "/links/"+created.Link.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "LINK_NOT_FOUND")
}
