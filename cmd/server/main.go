// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opslane/inventory-engine/internal/api"
	"github.com/opslane/inventory-engine/internal/cache"
	"github.com/opslane/inventory-engine/internal/config"
	"github.com/opslane/inventory-engine/internal/engine"
	"github.com/opslane/inventory-engine/internal/repository/postgres"
	"github.com/opslane/inventory-engine/internal/service"
	"github.com/opslane/inventory-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	ledgerRepo := postgres.NewStockLedgerRepository(db)
	policyRepo := postgres.NewPolicyRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	poRepo := postgres.NewPurchaseOrderRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)

	// Initialize services
	calc := engine.NewCalculator(engine.Config{
		LookbackDays:        cfg.Engine.LookbackDays,
		DeadStockDays:       cfg.Engine.DeadStockDays,
		OverstockMultiplier: cfg.Engine.OverstockMultiplier,
		DefaultDaysOfCover:  cfg.Engine.DefaultDaysOfCover,
	})
	insightsCache := cache.NewInsightsCache(cfg.Cache)

	insightService := service.NewInsightService(
		ledgerRepo, policyRepo, forecastRepo, insightsCache, calc,
		cfg.Engine.LookbackDays, cfg.Engine.RecalcWorkers)
	suggestionService := service.NewSuggestionService(
		ledgerRepo, policyRepo, catalogRepo, calc, cfg.Engine.LookbackDays)
	purchasingService := service.NewPurchasingService(poRepo, insightsCache)
	policyService := service.NewPolicyService(policyRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, insightsCache)
	catalogService := service.NewCatalogService(catalogRepo)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		Insights:    insightService,
		Suggestions: suggestionService,
		Purchasing:  purchasingService,
		Policies:    policyService,
		Ledger:      ledgerService,
		Catalog:     catalogService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
