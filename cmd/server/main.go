package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdesk-service/internal/infrastructure/config"
	"flightdesk-service/internal/infrastructure/oauth"
	"flightdesk-service/internal/infrastructure/persistence"
	"flightdesk-service/internal/infrastructure/router"
	"flightdesk-service/internal/interface/gmail"
	repo "flightdesk-service/internal/interface/repository"
	"flightdesk-service/internal/interface/rest"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flightdesk Service")

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
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up PostgreSQL connection for reference data
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	itineraryRepo := repo.NewMongoItineraryRepository(db)
	segmentRepo := repo.NewMongoFlightSegmentRepository(db)
	airlineRepository := repo.NewGormAirlineRepository(gormDB)
	airportRepository := repo.NewGormAirportRepository(gormDB)

	// Set up metrics
	m := metrics.NewMetrics("flightdesk")

	// Set up the processing pipeline
	processor := usecase.NewItineraryProcessor(itineraryRepo, segmentRepo, airlineRepository, airportRepository, log, m)

	subjectRouter := router.NewSubjectRouter(log)
	subjectRouter.Register(usecase.NewNavitasHandlerAdapter(processor, "navitas", cfg.GmailSubjectFilter))

	orchestrator := usecase.NewIngestOrchestrator(itineraryRepo, subjectRouter, log)

	// Set up Gmail polling when credentials are configured
	if cfg.GmailClientID != "" && cfg.GmailRefreshToken != "" {
		gmailOAuth := oauth.NewGmailOAuth(
			cfg.GmailClientID,
			cfg.GmailClientSecret,
			cfg.GmailRefreshToken,
			log,
		)
		tokenSource := gmailOAuth.GetTokenSource(ctx)

		gmailService, err := gmail.NewGmailService(ctx, tokenSource, itineraryRepo, orchestrator, log, cfg.GmailPollInterval, cfg.GmailSubjectFilter)
		if err != nil {
			log.Fatal("Failed to create Gmail service", "error", err)
		}

		// Start Gmail polling in a goroutine
		go gmailService.StartPolling(ctx)
	} else {
		log.Info("Gmail credentials not configured, mailbox polling disabled")
	}

	// Sweep itineraries stuck in PENDING in a goroutine
	go func() {
		processTicker := time.NewTicker(30 * time.Second)
		defer processTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Pending sweep stopped")
				return
			case <-processTicker.C:
				if err := orchestrator.ProcessPendingItineraries(ctx); err != nil {
					log.Error("Error processing pending itineraries", "error", err)
				}
			}
		}
	}()

	// Set up HTTP server
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	itineraryController := rest.NewItineraryController(itineraryRepo, orchestrator, log)
	flightController := rest.NewFlightController(segmentRepo, log)
	rest.RegisterRoutes(engine, itineraryController, flightController)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
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

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Flightdesk Service stopped")
}
