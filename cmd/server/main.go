// Package main is the entry point for the Consultation Simulation Service.
// @title Consultation Simulation Service API
// @version 1.0
// @description Simulated clinical history-taking consultations with an AI-played patient, hints, examinations and rubric-scored feedback

// @contact.name API Support
// @contact.url https://github.com/oscesim/consult-service

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication (entitlements service)
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/oscesim/consult-service/docs"
	"github.com/oscesim/consult-service/internal/api/handlers"
	"github.com/oscesim/consult-service/internal/api/middleware"
	"github.com/oscesim/consult-service/internal/api/routes"
	"github.com/oscesim/consult-service/internal/config"
	"github.com/oscesim/consult-service/internal/core/cache"
	"github.com/oscesim/consult-service/internal/core/docdb"
	"github.com/oscesim/consult-service/internal/core/llm"
	rediscache "github.com/oscesim/consult-service/internal/infrastructure/cache/redis"
	"github.com/oscesim/consult-service/internal/infrastructure/docdb/mongodb"
	openaillm "github.com/oscesim/consult-service/internal/infrastructure/llm/openai"
	"github.com/oscesim/consult-service/internal/observability/metrics"
	"github.com/oscesim/consult-service/internal/pkg/encryption"
	"github.com/oscesim/consult-service/internal/report"
	"github.com/oscesim/consult-service/internal/scenario"
	"github.com/oscesim/consult-service/internal/services/consultation"
	"github.com/oscesim/consult-service/internal/services/entitlements"
	"github.com/oscesim/consult-service/internal/services/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	// Initialize cache client using factory pattern
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	defer cacheClient.Close()

	// Initialize document db client. The encounter archive is optional; the
	// simulator runs without it.
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		log.Warn().Err(err).Msg("encounter archive unavailable, continuing without it")
		docDBClient = nil
	}
	if docDBClient != nil {
		defer docDBClient.Close(ctx)
		if err := docDBClient.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure indexes")
		}
	}

	// Initialize encryptor
	encryptor, err := createEncryptor(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize encryptor")
	}

	// Initialize session store
	sessionStore, err := session.NewStore(&session.Config{
		CacheClient: cacheClient,
		Encryptor:   encryptor,
		TTL:         cfg.Cache.SessionTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session store")
	}

	// Initialize text-generation client
	llmClient, err := createLLMClient(cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize text-generation client")
	}

	consultMetrics := metrics.NewConsultMetrics(nil)

	var encounters docdb.EncountersCollection
	if docDBClient != nil {
		encounters = docDBClient.Encounters()
	}

	consultService, err := consultation.NewService(&consultation.Config{
		Store:      sessionStore,
		LLM:        llmClient,
		Generator:  scenario.NewGenerator(nil, nil),
		Encounters: encounters,
		Metrics:    consultMetrics,
		Logger:     log.Logger,
		Options: consultation.Options{
			ReinforcementInterval: cfg.Consult.ReinforcementInterval,
			MinExamUserMessages:   cfg.Consult.MinExamUserMessages,
			MinMessageLength:      cfg.Consult.MinMessageLength,
			ExamContextMessages:   cfg.Consult.ExamContextMessages,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize consultation service")
	}

	entitlementsClient, err := entitlements.NewClient(&entitlements.ClientConfig{
		BaseURL:    cfg.Entitlements.URL,
		ServiceKey: cfg.Entitlements.ServiceKey,
		Timeout:    cfg.Entitlements.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize entitlements client")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	router := setupRouter(cacheClient, docDBClient, encounters, consultService, entitlementsClient)

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	cacheType := cache.Type(cfg.Type)

	switch cacheType {
	case cache.TypeRedis:
		return rediscache.NewClient(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.SessionTTL,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported cache type")
		return nil, nil
	}
}

// createDocDBClient creates a document database client based on the configuration.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	docDBType := docdb.Type(cfg.Type)

	switch docDBType {
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		// CosmosDB uses MongoDB protocol, so it shares the client
		return mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported docdb type")
		return nil, nil
	}
}

// createLLMClient creates a text-generation client based on the configuration.
func createLLMClient(cfg config.LLMConfig) (llm.Client, error) {
	llmType := llm.Type(cfg.Type)

	switch llmType {
	case llm.TypeOpenAI:
		return openaillm.NewClient(openaillm.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		})
	default:
		log.Fatal().Str("type", cfg.Type).Msg("unsupported llm type")
		return nil, nil
	}
}

// createEncryptor creates an encryptor based on the configuration.
func createEncryptor(cfg config.CacheConfig) (encryption.Encryptor, error) {
	if cfg.EncryptionKey == "" {
		// NoOp encryptor in development
		log.Warn().Msg("SESSION_ENCRYPTION_KEY not set, using NoOp encryptor")
		return encryption.NewNoOpEncryptor(), nil
	}

	return encryption.NewAESEncryptor(cfg.EncryptionKey)
}

// setupRouter creates and configures the Gin router.
func setupRouter(cacheClient cache.Client, docDBClient docdb.Client, encounters docdb.EncountersCollection, consultService consultation.Service, entitlementsClient entitlements.Client) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()
	authMw := middleware.NewAuthMiddleware(entitlementsClient)

	router.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig()))

	// Create handlers
	healthHandler := handlers.NewHealthHandler(cacheClient, docDBClient)
	consultationHandler := handlers.NewConsultationHandler(consultService)

	var encountersHandler *handlers.EncountersHandler
	if encounters != nil {
		encountersHandler = handlers.NewEncountersHandler(encounters, report.NewRenderer())
	}

	routesCfg := &routes.Config{
		HealthHandler:       healthHandler,
		ConsultationHandler: consultationHandler,
		EncountersHandler:   encountersHandler,
		AuthMiddleware:      authMw,
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw)

	return router
}
