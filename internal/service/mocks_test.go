package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/opslane/inventory-engine/internal/domain"
)

type MockStockLedgerRepository struct {
	mock.Mock
}

func (m *MockStockLedgerRepository) ListPairs(ctx context.Context, scope domain.RecalcScope) ([]domain.PairKey, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PairKey), args.Error(1)
}

func (m *MockStockLedgerRepository) GetPairStats(ctx context.Context, productID, warehouseID int64, since time.Time) (*domain.PairStats, error) {
	args := m.Called(ctx, productID, warehouseID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PairStats), args.Error(1)
}

func (m *MockStockLedgerRepository) ApplyMovement(ctx context.Context, mv *domain.InventoryMovement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MockStockLedgerRepository) ListMovements(ctx context.Context, productID, warehouseID int64, limit int) ([]domain.InventoryMovement, error) {
	args := m.Called(ctx, productID, warehouseID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryMovement), args.Error(1)
}

type MockPolicyRepository struct {
	mock.Mock
}

func (m *MockPolicyRepository) Resolve(ctx context.Context, productID, warehouseID int64) (*domain.ReorderPolicy, error) {
	args := m.Called(ctx, productID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReorderPolicy), args.Error(1)
}

func (m *MockPolicyRepository) Create(ctx context.Context, p *domain.ReorderPolicy) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPolicyRepository) List(ctx context.Context, productID *int64) ([]domain.ReorderPolicy, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReorderPolicy), args.Error(1)
}

type MockForecastRepository struct {
	mock.Mock
}

func (m *MockForecastRepository) ReplaceInsights(ctx context.Context, scope domain.RecalcScope, forecasts []domain.InventoryForecast, flags []domain.InventoryRiskFlag) error {
	args := m.Called(ctx, scope, forecasts, flags)
	return args.Error(0)
}

func (m *MockForecastRepository) ListForecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.InventoryForecast, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryForecast), args.Error(1)
}

func (m *MockForecastRepository) ListRiskFlags(ctx context.Context, filter domain.RiskFlagFilter) ([]domain.InventoryRiskFlag, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryRiskFlag), args.Error(1)
}

func (m *MockForecastRepository) GetSummary(ctx context.Context) (*domain.InsightsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InsightsSummary), args.Error(1)
}

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) CreateDraftPOs(ctx context.Context, drafts []domain.PurchaseOrderDraft) (int, error) {
	args := m.Called(ctx, drafts)
	return args.Int(0), args.Error(1)
}

func (m *MockPurchaseOrderRepository) GetOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListOrders(ctx context.Context, status *domain.POStatus) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListItems(ctx context.Context, orderID int64) ([]domain.PurchaseOrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrderItem), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ReceiveItem(ctx context.Context, itemID, qty int64, actorID string) (*domain.ReceiveResult, error) {
	args := m.Called(ctx, itemID, qty, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceiveResult), args.Error(1)
}

func (m *MockPurchaseOrderRepository) UpdateStatus(ctx context.Context, orderID int64, next domain.POStatus) error {
	args := m.Called(ctx, orderID, next)
	return args.Error(0)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetProductRefs(ctx context.Context, productIDs []int64) (map[int64]domain.ProductRef, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.ProductRef), args.Error(1)
}

func (m *MockCatalogRepository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Warehouse), args.Error(1)
}

// fakeCache tracks cache traffic without a redis backend.
type fakeCache struct {
	summary     *domain.InsightsSummary
	sets        int
	invalidated int
}

func (f *fakeCache) GetSummary(context.Context) (*domain.InsightsSummary, bool) {
	if f.summary == nil {
		return nil, false
	}
	return f.summary, true
}

func (f *fakeCache) SetSummary(_ context.Context, s *domain.InsightsSummary) {
	f.summary = s
	f.sets++
}

func (f *fakeCache) Invalidate(context.Context) {
	f.summary = nil
	f.invalidated++
}
