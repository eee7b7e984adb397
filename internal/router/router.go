package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketgraph/marketgraph-backend/config"
	"github.com/marketgraph/marketgraph-backend/internal/app/controller"
	"github.com/marketgraph/marketgraph-backend/internal/middleware"
	"github.com/marketgraph/marketgraph-backend/pkg/redis"
)

type Router struct {
	businessController *controller.BusinessController
	taxonomyController *controller.TaxonomyController
	linkController     *controller.LinkController
	graphController    *controller.GraphController
	ingestController   *controller.IngestController
	syncController     *controller.SyncController
	config             *config.Config
}

func NewRouter(
	businessController *controller.BusinessController,
	taxonomyController *controller.TaxonomyController,
	linkController *controller.LinkController,
	graphController *controller.GraphController,
	ingestController *controller.IngestController,
	syncController *controller.SyncController,
	cfg *config.Config,
) *Router {
	return &Router{
		businessController: businessController,
		taxonomyController: taxonomyController,
		linkController:     linkController,
		graphController:    graphController,
		ingestController:   ingestController,
		syncController:     syncController,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		redisStatus := "disabled"
		if client := redis.GetClient(); client != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			if err := client.Ping(ctx).Err(); err != nil {
				redisStatus = "down"
			} else {
				redisStatus = "up"
			}
			cancel()
		}

		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MARKETGRAPH API is running",
			"redis":   redisStatus,
		})
	})

	v1 := router.Group("/api/v1")
	{
		businesses := v1.Group("/businesses")
		{
			businesses.GET("", r.businessController.ListBusinesses)
			businesses.GET("/:id", r.businessController.GetBusiness)
			businesses.POST("", r.businessController.CreateBusiness)
			businesses.DELETE("/:id", r.businessController.DeleteBusiness)
		}

		taxonomy := v1.Group("/taxonomy")
		{
			taxonomy.GET("", r.taxonomyController.ListNodes)
			taxonomy.GET("/:id", r.taxonomyController.GetNode)
			taxonomy.POST("/resolve", r.taxonomyController.ResolveNode)
			taxonomy.POST("/import", r.taxonomyController.ImportNodes)
		}

		links := v1.Group("/links")
		{
			links.POST("", r.linkController.Attach)
			links.DELETE("/:id", r.linkController.Detach)
			links.GET("/entity/:entity_kind/:entity_id", r.linkController.ListForEntity)
			links.GET("/taxonomy/:category_id", r.linkController.ListForTaxonomy)
		}

		graph := v1.Group("/graph")
		{
			graph.POST("/relations", r.graphController.AddRelation)
			graph.GET("/relations/:id", r.graphController.QueryRelations)
			graph.GET("/traverse/:id", r.graphController.Traverse)
		}

		ingest := v1.Group("/ingest")
		{
			ingest.POST("/content", r.ingestController.IngestContent)
			ingest.POST("/batch", r.ingestController.IngestBatch)
			ingest.POST("/upload-url", r.ingestController.GetUploadURL)
			ingest.GET("/sources", r.ingestController.ListSources)
		}

		sync := v1.Group("/sync")
		{
			sync.POST("/reconcile", r.syncController.TriggerReconcile)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
