// Package api wires the HTTP surface of the generation service.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nibura2002/AI-MIDI-generator/internal/api/handlers"
	apimiddleware "github.com/nibura2002/AI-MIDI-generator/internal/api/middleware"
	"github.com/nibura2002/AI-MIDI-generator/internal/catalog"
	"github.com/nibura2002/AI-MIDI-generator/internal/config"
	"github.com/nibura2002/AI-MIDI-generator/internal/pipeline"
	"github.com/nibura2002/AI-MIDI-generator/internal/store"
)

// SetupRouter builds the gin engine with all middleware and routes
func SetupRouter(p *pipeline.Pipeline, history *store.Store, cat *catalog.Catalog, cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())
	router.Use(apimiddleware.SentryMiddleware())
	router.Use(apimiddleware.RequestTracking())
	router.Use(apimiddleware.CORS())

	// The form page is the UI boundary; it is static content only
	router.StaticFile("/", "./static/index.html")
	router.Static("/static", "./static")

	healthHandler := handlers.NewHealthHandler(version, cfg.GenerationModel)
	router.GET("/health", healthHandler.HealthCheck)

	genresHandler := handlers.NewGenresHandler(cat)
	generationHandler := handlers.NewGenerationHandler(p, history, cfg.WorkspaceDir)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/genres", genresHandler.List)
		v1.POST("/generations", generationHandler.Generate)
		v1.GET("/generations", generationHandler.History)
		v1.GET("/generations/:id/artifact", generationHandler.DownloadArtifact)
	}

	return router
}
