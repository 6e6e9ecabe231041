// cmd/recalc/main.go
//
// Operational companion to the API server: one-shot and periodic insight
// recalculation, plus schema setup.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/opslane/inventory-engine/internal/cache"
	"github.com/opslane/inventory-engine/internal/config"
	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/engine"
	"github.com/opslane/inventory-engine/internal/repository/postgres"
	"github.com/opslane/inventory-engine/internal/service"
	"github.com/opslane/inventory-engine/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "recalc",
		Usage: "Recalculate inventory forecasts and risk flags",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Recalculate once and exit",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "warehouse-id",
						Usage: "Limit the recalculation to one warehouse",
					},
				},
				Action: runOnce,
			},
			{
				Name:  "watch",
				Usage: "Recalculate on an interval until interrupted",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Time between recalculation runs",
						Value: 15 * time.Minute,
					},
					&cli.StringFlag{
						Name:    "health-addr",
						Usage:   "Listen address for the health endpoint",
						Value:   ":8081",
						EnvVars: []string{"RECALC_HEALTH_ADDR"},
					},
				},
				Action: runWatch,
			},
			{
				Name:  "migrate",
				Usage: "Apply the database schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Path to the schema file",
						Value: "./migrations/schema.sql",
					},
				},
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildInsightService() (*service.InsightService, error) {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	calc := engine.NewCalculator(engine.Config{
		LookbackDays:        cfg.Engine.LookbackDays,
		DeadStockDays:       cfg.Engine.DeadStockDays,
		OverstockMultiplier: cfg.Engine.OverstockMultiplier,
		DefaultDaysOfCover:  cfg.Engine.DefaultDaysOfCover,
	})

	return service.NewInsightService(
		postgres.NewStockLedgerRepository(db),
		postgres.NewPolicyRepository(db),
		postgres.NewForecastRepository(db),
		cache.NewInsightsCache(cfg.Cache),
		calc,
		cfg.Engine.LookbackDays,
		cfg.Engine.RecalcWorkers,
	), nil
}

func scopeFromFlag(c *cli.Context) domain.RecalcScope {
	scope := domain.RecalcScope{}
	if c.IsSet("warehouse-id") {
		id := c.Int64("warehouse-id")
		scope.WarehouseID = &id
	}
	return scope
}

func runOnce(c *cli.Context) error {
	insights, err := buildInsightService()
	if err != nil {
		return err
	}

	result, err := insights.Recalculate(c.Context, scopeFromFlag(c))
	if err != nil {
		return err
	}

	log.Printf("recalculated %d forecasts, %d risk flags", result.Forecasts, result.Flags)
	return nil
}

func runWatch(c *cli.Context) error {
	insights, err := buildInsightService()
	if err != nil {
		return err
	}

	scope := scopeFromFlag(c)
	interval := c.Duration("interval")
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	watchLog := logger.For("recalc")

	// Health endpoint so orchestrators can check the loop is alive
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)

	healthSrv := &http.Server{Addr: c.String("health-addr"), Handler: router}
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			watchLog.Error().Err(err).Msg("health endpoint failed")
		}
	}()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	recalc := func() {
		result, err := insights.Recalculate(ctx, scope)
		if err != nil {
			watchLog.Error().Err(err).Msg("recalculation failed")
			return
		}
		watchLog.Info().
			Int("forecasts", result.Forecasts).
			Int("flags", result.Flags).
			Msg("scheduled recalculation finished")
	}

	recalc()
	for {
		select {
		case <-ticker.C:
			recalc()
		case <-quit:
			watchLog.Info().Msg("shutting down recalc loop")
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return healthSrv.Shutdown(shutdownCtx)
		}
	}
}

func runMigrate(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	schema, err := os.ReadFile(c.String("schema"))
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.ExecContext(c.Context, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("schema applied")
	return nil
}
