package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opslane/inventory-engine/internal/cache"
	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/engine"
	"github.com/opslane/inventory-engine/internal/repository"
	"github.com/opslane/inventory-engine/pkg/logger"
)

// InsightService recalculates and serves the materialized forecast and risk
// flag rows.
type InsightService struct {
	ledger    repository.StockLedgerRepository
	policies  repository.PolicyRepository
	forecasts repository.ForecastRepository
	cache     cache.InsightsCache
	calc      *engine.Calculator
	lookback  int
	workers   int
}

func NewInsightService(
	ledger repository.StockLedgerRepository,
	policies repository.PolicyRepository,
	forecasts repository.ForecastRepository,
	insightsCache cache.InsightsCache,
	calc *engine.Calculator,
	lookbackDays, workers int,
) *InsightService {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if workers <= 0 {
		workers = 4
	}
	return &InsightService{
		ledger:    ledger,
		policies:  policies,
		forecasts: forecasts,
		cache:     insightsCache,
		calc:      calc,
		lookback:  lookbackDays,
		workers:   workers,
	}
}

type pairAssessment struct {
	key   domain.PairKey
	stats domain.PairStats
	a     engine.Assessment
}

// Recalculate rebuilds the forecast and risk flag rows for the scope. Pairs
// are assessed concurrently with a bounded worker pool, then the materialized
// rows are swapped in a single transaction. Rerunning on an unchanged ledger
// produces identical rows.
func (s *InsightService) Recalculate(ctx context.Context, scope domain.RecalcScope) (*domain.RecalcResult, error) {
	started := time.Now()
	asOf := started.UTC()
	since := asOf.AddDate(0, 0, -s.lookback)

	pairs, err := s.ledger.ListPairs(ctx, scope)
	if err != nil {
		return nil, err
	}

	results := make([]*pairAssessment, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, pair := range pairs {
		g.Go(func() error {
			stats, err := s.ledger.GetPairStats(gctx, pair.ProductID, pair.WarehouseID, since)
			if err != nil {
				return err
			}
			policy, err := s.policies.Resolve(gctx, pair.ProductID, pair.WarehouseID)
			if err != nil {
				return err
			}

			snap := &engine.PairSnapshot{
				ProductID:   pair.ProductID,
				WarehouseID: pair.WarehouseID,
				Stats:       *stats,
				Policy:      policy,
			}
			results[i] = &pairAssessment{key: pair, stats: *stats, a: s.calc.Assess(snap, asOf)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Rows are assembled in pair order so repeated runs materialize in the
	// same order.
	forecasts := make([]domain.InventoryForecast, 0, len(results))
	flags := make([]domain.InventoryRiskFlag, 0)
	for _, r := range results {
		if r == nil {
			continue
		}
		forecasts = append(forecasts, domain.InventoryForecast{
			ProductID:       r.key.ProductID,
			WarehouseID:     r.key.WarehouseID,
			RiskLevel:       r.a.StockoutRisk,
			AvgDailyUsage:   r.a.AvgDailyUsage,
			DaysUntilRunout: r.a.DaysUntilRunout,
			Suggestion:      r.a.Suggestion,
			Available:       r.stats.Available(),
			ReorderPoint:    r.a.ReorderPoint,
			ComputedAt:      asOf,
		})
		if r.a.DeadStock != nil {
			idle := r.a.DeadStock.DaysWithoutMovement
			flags = append(flags, domain.InventoryRiskFlag{
				ProductID:           r.key.ProductID,
				WarehouseID:         r.key.WarehouseID,
				FlagType:            domain.FlagDeadStock,
				Severity:            r.a.DeadStock.Severity,
				DaysWithoutMovement: &idle,
				Message:             r.a.DeadStock.Message,
				ComputedAt:          asOf,
			})
		}
		if r.a.Overstock != nil {
			flags = append(flags, domain.InventoryRiskFlag{
				ProductID:   r.key.ProductID,
				WarehouseID: r.key.WarehouseID,
				FlagType:    domain.FlagOverstock,
				Severity:    r.a.Overstock.Severity,
				Message:     r.a.Overstock.Message,
				ComputedAt:  asOf,
			})
		}
	}

	if err := s.forecasts.ReplaceInsights(ctx, scope, forecasts, flags); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	logger.Log.Info().
		Int("pairs", len(pairs)).
		Int("forecasts", len(forecasts)).
		Int("flags", len(flags)).
		Dur("elapsed", time.Since(started)).
		Msg("insights recalculated")

	return &domain.RecalcResult{Forecasts: len(forecasts), Flags: len(flags)}, nil
}

func (s *InsightService) Forecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.InventoryForecast, error) {
	return s.forecasts.ListForecasts(ctx, filter)
}

func (s *InsightService) RiskFlags(ctx context.Context, filter domain.RiskFlagFilter) ([]domain.InventoryRiskFlag, error) {
	return s.forecasts.ListRiskFlags(ctx, filter)
}

// Summary serves the dashboard aggregate, cached between recalculations.
func (s *InsightService) Summary(ctx context.Context) (*domain.InsightsSummary, error) {
	if summary, ok := s.cache.GetSummary(ctx); ok {
		return summary, nil
	}

	summary, err := s.forecasts.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetSummary(ctx, summary)
	return summary, nil
}
