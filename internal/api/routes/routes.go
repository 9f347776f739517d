// Package routes defines the HTTP routes for the consultation service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/oscesim/consult-service/internal/api/handlers"
	"github.com/oscesim/consult-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler       *handlers.HealthHandler
	ConsultationHandler *handlers.ConsultationHandler
	EncountersHandler   *handlers.EncountersHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// API v1 routes - all routes under /api/v1/consult-service
	v1 := r.Group("/api/v1/consult-service")
	{
		// Health check routes (no auth required)
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		v1.GET("/metrics", gin.WrapH(promhttp.Handler()))
		v1.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Apply auth middleware to protected API routes
		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Authenticate())

		consultation := protected.Group("/consultation")
		{
			consultation.POST("", cfg.ConsultationHandler.Start)
			consultation.GET("", cfg.ConsultationHandler.Get)
			consultation.POST("/messages", cfg.ConsultationHandler.PostMessage)
			consultation.POST("/reply", cfg.ConsultationHandler.Reply)
			consultation.POST("/hint", cfg.ConsultationHandler.Hint)
			consultation.POST("/exam", cfg.ConsultationHandler.Exam)
			consultation.POST("/feedback", cfg.ConsultationHandler.Feedback)
			consultation.POST("/clear", cfg.ConsultationHandler.Clear)
		}

		if cfg.EncountersHandler != nil {
			encounters := protected.Group("/encounters")
			{
				encounters.GET("", cfg.EncountersHandler.List)
				encounters.GET("/:encounterId", cfg.EncountersHandler.Get)
				encounters.GET("/:encounterId/report.pdf", cfg.EncountersHandler.Report)
			}
		}
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	// Apply global middleware
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	// Setup routes
	Setup(r, cfg)
}
