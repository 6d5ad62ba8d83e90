package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/api"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/bot"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/catalog"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/database"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/miniapp"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/repository"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/scheduler"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/telegram"
)

// snapshotTTL bounds how stale a stored catalog snapshot may be at startup.
const snapshotTTL = 7 * 24 * time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Developer catalog, with an optional redis snapshot that survives restarts
	var store catalog.Store
	if cfg.Catalog.RedisAddr != "" {
		redisStore := catalog.NewRedisStore(cfg.Catalog.RedisAddr, snapshotTTL)
		defer redisStore.Close()
		if err := redisStore.Ping(ctx); err != nil {
			log.Printf("[catalog] redis unavailable, snapshots will fail until it recovers: %v", err)
		}
		store = redisStore
	}
	catalogClient := catalog.NewHTTPClient(cfg.Catalog)
	facilities := catalog.NewFacilityCache(catalogClient, store)
	if err := facilities.Load(ctx); err != nil {
		// The scheduler retries; searches fail until the first successful refresh.
		log.Printf("[catalog] initial load failed: %v", err)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	buildingRepo := repository.NewBuildingRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	assumptionsRepo := repository.NewAssumptionsRepository(db)

	// Create services
	systemService := service.NewSystemService(db, facilities)
	userService := service.NewUserService(userRepo)
	propertyService := service.NewPropertyService(
		propertyRepo,
		buildingRepo,
		unitRepo,
	)
	searchService := service.NewSearchService(unitRepo)
	importService := service.NewImportService(
		db,
		facilities,
		catalogClient,
		propertyRepo,
		buildingRepo,
		unitRepo,
		assumptionsRepo,
		cfg.Investment,
	)
	calculatorService := service.NewCalculatorService(
		propertyService,
		buildingRepo,
		unitRepo,
		assumptionsRepo,
		cfg.Investment,
	)
	settingsService := service.NewSettingsService(assumptionsRepo)

	auth, err := miniapp.NewAuth(cfg.MiniApp)
	if err != nil {
		log.Fatalf("Failed to configure mini app auth: %v", err)
	}

	tg := telegram.NewClient(cfg.Telegram)
	realtBot := bot.New(tg, bot.Services{
		Users:      userService,
		Properties: propertyService,
		Search:     searchService,
		Imports:    importService,
		Calculator: calculatorService,
		Settings:   settingsService,
	}, auth, cfg.Investment)

	jobs, err := scheduler.New(facilities, userService, cfg.Catalog.RefreshSchedule)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	jobs.Start()

	// Create router
	router := api.NewRouter(api.Dependencies{
		System:     systemService,
		Properties: propertyService,
		Search:     searchService,
		Bot:        realtBot,
		Tokens:     auth,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
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

	pollerDone := make(chan struct{})
	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		close(pollerDone)
		if cfg.Telegram.WebhookURL == "" {
			log.Println("[bot] WEBHOOK_URL not set, expecting the webhook to be registered externally")
			break
		}
		if err := tg.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			log.Fatalf("Failed to register webhook: %v", err)
		}
		log.Printf("[bot] webhook registered at %s", cfg.Telegram.WebhookURL)
	case config.ModePolling:
		if err := tg.DeleteWebhook(ctx); err != nil {
			log.Fatalf("Failed to remove webhook: %v", err)
		}
		go func() {
			defer close(pollerDone)
			log.Println("[bot] polling for updates")
			if err := telegram.NewPoller(tg, realtBot.HandleUpdate).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[bot] poller stopped: %v", err)
			}
		}()
	}

	// Wait for interrupt signal for graceful shutdown
	<-ctx.Done()
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	<-pollerDone
	jobs.Stop(shutdownCtx)

	log.Println("Server exited")
}
