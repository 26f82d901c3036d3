package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tallyhq/networth-backend/internal/api"
	"github.com/tallyhq/networth-backend/internal/config"
	"github.com/tallyhq/networth-backend/internal/database"
	"github.com/tallyhq/networth-backend/internal/pricing"
	"github.com/tallyhq/networth-backend/internal/repository"
	"github.com/tallyhq/networth-backend/internal/scheduler"
	"github.com/tallyhq/networth-backend/internal/secrets"
	"github.com/tallyhq/networth-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)
	priceRepo := repository.NewPriceHistoryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Create provider clients and the routing/conversion layer
	timeout := time.Duration(cfg.Providers.RequestTimeoutSeconds) * time.Second
	finnhub := pricing.NewFinnhubClient(cfg.Providers.FinnhubAPIKey, timeout)
	alphaVantage := pricing.NewAlphaVantageClient(cfg.Providers.AlphaVantageAPIKey, timeout)
	router := pricing.NewRouter(finnhub, alphaVantage)
	converter := pricing.NewConverter(pricing.NewFrankfurterClient(timeout))

	codec, err := secrets.NewCodec(cfg.Secrets.FernetKey)
	if err != nil {
		log.Fatalf("Failed to initialize secrets codec: %v", err)
	}

	// Create services
	systemService := service.NewSystemService(db)
	holdingService := service.NewHoldingService(holdingRepo)
	settingsService := service.NewSettingsService(
		settingsRepo,
		codec,
		cfg.Providers.FinnhubAPIKey,
		cfg.Providers.AlphaVantageAPIKey,
		finnhub,
		alphaVantage,
		converter,
	)
	refreshService := service.NewRefreshService(
		holdingRepo, priceRepo, settingsService, router, converter,
		cfg.Providers.PrimaryConcurrency,
	)
	backfillService := service.NewBackfillService(
		holdingRepo, priceRepo, settingsService, router, converter,
		cfg.Providers.SecondaryConcurrency,
	)
	valuationService := service.NewValuationService(holdingRepo, priceRepo)

	// Stored API keys take precedence over the environment bootstrap values
	if err := settingsService.ApplyToProviders(); err != nil {
		log.Fatalf("Failed to apply stored settings: %v", err)
	}

	// Start the background price jobs
	sched, err := scheduler.New(cfg.Scheduler, refreshService, backfillService)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Create router
	httpRouter := api.NewRouter(api.Services{
		System:    systemService,
		Holdings:  holdingService,
		Refresh:   refreshService,
		Backfill:  backfillService,
		Valuation: valuationService,
		Settings:  settingsService,
		PriceRepo: priceRepo,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
