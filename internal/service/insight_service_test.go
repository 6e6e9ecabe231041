package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/engine"
)

func newInsightService(ledger *MockStockLedgerRepository, policies *MockPolicyRepository, forecasts *MockForecastRepository, c *fakeCache) *InsightService {
	calc := engine.NewCalculator(engine.DefaultConfig())
	return NewInsightService(ledger, policies, forecasts, c, calc, 30, 2)
}

func TestRecalculate(t *testing.T) {
	ledger := new(MockStockLedgerRepository)
	policies := new(MockPolicyRepository)
	forecasts := new(MockForecastRepository)
	cache := &fakeCache{summary: &domain.InsightsSummary{}}

	scope := domain.RecalcScope{}
	pairs := []domain.PairKey{
		{ProductID: 1, WarehouseID: 1},
		{ProductID: 2, WarehouseID: 1},
	}
	lastMove := time.Now().UTC().Add(-24 * time.Hour)

	ledger.On("ListPairs", mock.Anything, scope).Return(pairs, nil)
	// pair 1: 2/day usage, 4 available, runs out in 2 days
	ledger.On("GetPairStats", mock.Anything, int64(1), int64(1), mock.Anything).Return(&domain.PairStats{
		ProductID: 1, WarehouseID: 1, OnHand: 4, OutboundQty: 60,
		MovementCount: 10, LastMovementAt: &lastMove,
	}, nil)
	// pair 2: same usage but 500 on hand, far past the overstock multiplier
	ledger.On("GetPairStats", mock.Anything, int64(2), int64(1), mock.Anything).Return(&domain.PairStats{
		ProductID: 2, WarehouseID: 1, OnHand: 500, OutboundQty: 60,
		MovementCount: 10, LastMovementAt: &lastMove,
	}, nil)
	policies.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	var gotForecasts []domain.InventoryForecast
	var gotFlags []domain.InventoryRiskFlag
	forecasts.On("ReplaceInsights", mock.Anything, scope, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotForecasts = args.Get(2).([]domain.InventoryForecast)
			gotFlags = args.Get(3).([]domain.InventoryRiskFlag)
		}).
		Return(nil)

	svc := newInsightService(ledger, policies, forecasts, cache)
	result, err := svc.Recalculate(context.Background(), scope)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Forecasts)
	assert.Equal(t, 1, result.Flags)

	require.Len(t, gotForecasts, 2)
	assert.Equal(t, int64(1), gotForecasts[0].ProductID)
	assert.Equal(t, domain.RiskHigh, gotForecasts[0].RiskLevel)
	require.NotNil(t, gotForecasts[0].DaysUntilRunout)
	assert.Equal(t, 2, *gotForecasts[0].DaysUntilRunout)
	assert.Equal(t, domain.RiskNone, gotForecasts[1].RiskLevel)

	require.Len(t, gotFlags, 1)
	assert.Equal(t, domain.FlagOverstock, gotFlags[0].FlagType)
	assert.Equal(t, int64(2), gotFlags[0].ProductID)

	// summary cache is stale once rows are swapped
	assert.Equal(t, 1, cache.invalidated)

	forecasts.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestRecalculateIdempotent(t *testing.T) {
	// with no ledger changes in between, a second recalculation materializes
	// the same row set, timestamps aside
	ledger := new(MockStockLedgerRepository)
	policies := new(MockPolicyRepository)
	forecasts := new(MockForecastRepository)
	cache := &fakeCache{}

	scope := domain.RecalcScope{}
	pairs := []domain.PairKey{
		{ProductID: 1, WarehouseID: 1},
		{ProductID: 2, WarehouseID: 1},
	}
	recentMove := time.Now().UTC().Add(-24 * time.Hour)
	staleMove := time.Now().UTC().Add(-100 * 24 * time.Hour)

	ledger.On("ListPairs", mock.Anything, scope).Return(pairs, nil)
	ledger.On("GetPairStats", mock.Anything, int64(1), int64(1), mock.Anything).Return(&domain.PairStats{
		ProductID: 1, WarehouseID: 1, OnHand: 4, OutboundQty: 60,
		MovementCount: 10, LastMovementAt: &recentMove,
	}, nil)
	// idle pair, materializes a dead-stock flag on every run
	ledger.On("GetPairStats", mock.Anything, int64(2), int64(1), mock.Anything).Return(&domain.PairStats{
		ProductID: 2, WarehouseID: 1, OnHand: 40,
		MovementCount: 3, LastMovementAt: &staleMove,
	}, nil)
	policies.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	var runForecasts [][]domain.InventoryForecast
	var runFlags [][]domain.InventoryRiskFlag
	forecasts.On("ReplaceInsights", mock.Anything, scope, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			runForecasts = append(runForecasts, args.Get(2).([]domain.InventoryForecast))
			runFlags = append(runFlags, args.Get(3).([]domain.InventoryRiskFlag))
		}).
		Return(nil)

	svc := newInsightService(ledger, policies, forecasts, cache)

	first, err := svc.Recalculate(context.Background(), scope)
	require.NoError(t, err)
	second, err := svc.Recalculate(context.Background(), scope)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, runForecasts, 2)
	require.Len(t, runFlags, 2)

	for _, rows := range runForecasts {
		for i := range rows {
			rows[i].ComputedAt = time.Time{}
		}
	}
	for _, rows := range runFlags {
		for i := range rows {
			rows[i].ComputedAt = time.Time{}
		}
	}
	assert.Equal(t, runForecasts[0], runForecasts[1])
	assert.Equal(t, runFlags[0], runFlags[1])
}

func TestRecalculateStatsError(t *testing.T) {
	ledger := new(MockStockLedgerRepository)
	policies := new(MockPolicyRepository)
	forecasts := new(MockForecastRepository)
	cache := &fakeCache{}

	pairs := []domain.PairKey{{ProductID: 1, WarehouseID: 1}}
	ledger.On("ListPairs", mock.Anything, mock.Anything).Return(pairs, nil)
	ledger.On("GetPairStats", mock.Anything, int64(1), int64(1), mock.Anything).
		Return(nil, errors.New("connection reset"))

	svc := newInsightService(ledger, policies, forecasts, cache)
	_, err := svc.Recalculate(context.Background(), domain.RecalcScope{})

	assert.Error(t, err)
	forecasts.AssertNotCalled(t, "ReplaceInsights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, cache.invalidated)
}

func TestRecalculateCancelled(t *testing.T) {
	ledger := new(MockStockLedgerRepository)
	policies := new(MockPolicyRepository)
	forecasts := new(MockForecastRepository)
	cache := &fakeCache{}

	ctx, cancel := context.WithCancel(context.Background())

	pairs := []domain.PairKey{{ProductID: 1, WarehouseID: 1}}
	ledger.On("ListPairs", mock.Anything, mock.Anything).Return(pairs, nil)
	ledger.On("GetPairStats", mock.Anything, int64(1), int64(1), mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	svc := newInsightService(ledger, policies, forecasts, cache)
	_, err := svc.Recalculate(ctx, domain.RecalcScope{})

	// cancellation mid-run materializes nothing
	require.Error(t, err)
	forecasts.AssertNotCalled(t, "ReplaceInsights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecalculateScoped(t *testing.T) {
	ledger := new(MockStockLedgerRepository)
	policies := new(MockPolicyRepository)
	forecasts := new(MockForecastRepository)
	cache := &fakeCache{}

	wid := int64(7)
	scope := domain.RecalcScope{WarehouseID: &wid}

	ledger.On("ListPairs", mock.Anything, scope).Return([]domain.PairKey{}, nil)
	forecasts.On("ReplaceInsights", mock.Anything, scope,
		mock.Anything, mock.Anything).Return(nil)

	svc := newInsightService(ledger, policies, forecasts, cache)
	result, err := svc.Recalculate(context.Background(), scope)

	require.NoError(t, err)
	assert.Zero(t, result.Forecasts)
	assert.Zero(t, result.Flags)
	forecasts.AssertExpectations(t)
}

func TestSummaryCaching(t *testing.T) {
	forecasts := new(MockForecastRepository)
	cache := &fakeCache{}

	stored := &domain.InsightsSummary{AtRiskCount: 3, DeadStockCount: 1}
	forecasts.On("GetSummary", mock.Anything).Return(stored, nil).Once()

	svc := newInsightService(new(MockStockLedgerRepository), new(MockPolicyRepository), forecasts, cache)

	// first read hits the repository and fills the cache
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.AtRiskCount)
	assert.Equal(t, 1, cache.sets)

	// second read is served from cache
	summary, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.AtRiskCount)
	forecasts.AssertExpectations(t)
}
