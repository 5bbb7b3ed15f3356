package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelscan-service/internal/infrastructure/config"
	"travelscan-service/internal/infrastructure/oauth"
	"travelscan-service/internal/infrastructure/persistence"
	"travelscan-service/internal/interface/api"
	gmailService "travelscan-service/internal/interface/gmail"
	"travelscan-service/internal/interface/repository"
	"travelscan-service/internal/usecase"
	"travelscan-service/pkg/dates"
	"travelscan-service/pkg/logger"
	"travelscan-service/pkg/metrics"
	"travelscan-service/pkg/names"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Travelscan Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// Set up lookup repositories
	countryRepository := repository.NewGormCountryRepository(gormDB)
	airlineRepository := repository.NewGormAirlineRepository(gormDB)

	// Set up repositories
	documentRepo := repository.NewMongoDocumentRepository(db)
	visionRepo := repository.NewHTTPVisionRepository(cfg.VisionEndpoint, cfg.VisionAPIKey, cfg.VisionModel, log)
	extractionCache := repository.NewRedisExtractionCache(redisClient, cfg.CacheTTL)

	// Set up metrics
	m := metrics.NewMetrics("travelscan")

	// Set up the consolidation core
	normalizer := names.NewNormalizer(nil)
	matcher := names.NewMatcher(normalizer, names.ParsePolicy(cfg.MatchPolicy))
	consolidator := usecase.NewConsolidator(matcher)
	formatter := dates.NewFormatter(dates.ParseLayout(cfg.ExportDateFormat))
	exporter := usecase.NewExporter(formatter)

	documentProcessor := usecase.NewDocumentProcessor(documentRepo, visionRepo, extractionCache, countryRepository, airlineRepository, m, log)

	// Set up Gmail ingestion when credentials are configured
	if cfg.GmailClientID != "" && cfg.GmailRefreshToken != "" {
		gmailOAuth := oauth.NewGmailOAuth(
			cfg.GmailClientID,
			cfg.GmailClientSecret,
			cfg.GmailRefreshToken,
			log,
		)
		tokenSource := gmailOAuth.GetTokenSource(ctx)

		inboxService, err := gmailService.NewInboxService(ctx, tokenSource, documentRepo, log, cfg.GmailPollInterval)
		if err != nil {
			log.Fatal("Failed to create Gmail inbox service", "error", err)
		}

		go inboxService.StartPolling(ctx)
	} else {
		log.Info("Gmail ingestion disabled, no credentials configured")
	}

	// Start document processor in a goroutine
	go func() {
		processTicker := time.NewTicker(cfg.ProcessInterval)
		defer processTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Document processor stopped")
				return
			case <-processTicker.C:
				log.Info("Processing pending documents")
				if err := documentProcessor.ProcessPendingDocuments(ctx); err != nil {
					log.Error("Error processing documents", "error", err)
				}
			}
		}
	}()

	// Set up HTTP server with API, metrics and health endpoints
	apiServer := api.NewServer(documentRepo, consolidator, exporter, m, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      apiServer.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	if err := redisClient.Close(); err != nil {
		log.Error("Redis close error", "error", err)
	}

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Travelscan Service stopped")
}
