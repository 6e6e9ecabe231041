// internal/repository/repositories.go
package repository

import (
	"context"
	"time"

	"github.com/opslane/inventory-engine/internal/domain"
)

// StockLedgerRepository reads the movement ledger and stock positions, and is
// the single mutation path for positions (movement application only).
type StockLedgerRepository interface {
	ListPairs(ctx context.Context, scope domain.RecalcScope) ([]domain.PairKey, error)
	GetPairStats(ctx context.Context, productID, warehouseID int64, since time.Time) (*domain.PairStats, error)
	ApplyMovement(ctx context.Context, m *domain.InventoryMovement) error
	ListMovements(ctx context.Context, productID, warehouseID int64, limit int) ([]domain.InventoryMovement, error)
}

// PolicyRepository stores reorder policies. Resolve returns the best match
// for a pair: the exact (product, warehouse) row, else the product-wide row,
// else nil.
type PolicyRepository interface {
	Resolve(ctx context.Context, productID, warehouseID int64) (*domain.ReorderPolicy, error)
	Create(ctx context.Context, p *domain.ReorderPolicy) error
	List(ctx context.Context, productID *int64) ([]domain.ReorderPolicy, error)
}

// ForecastRepository stores the materialized insight rows.
type ForecastRepository interface {
	// ReplaceInsights atomically swaps the forecast and risk flag rows for a
	// scope: prior rows are deleted and the fresh set inserted in one
	// transaction, serialized against overlapping scopes.
	ReplaceInsights(ctx context.Context, scope domain.RecalcScope, forecasts []domain.InventoryForecast, flags []domain.InventoryRiskFlag) error
	ListForecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.InventoryForecast, error)
	ListRiskFlags(ctx context.Context, filter domain.RiskFlagFilter) ([]domain.InventoryRiskFlag, error)
	GetSummary(ctx context.Context) (*domain.InsightsSummary, error)
}

// PurchaseOrderRepository stores purchase orders and their lines.
type PurchaseOrderRepository interface {
	// CreateDraftPOs persists all drafts in one transaction; on any failure
	// nothing is created.
	CreateDraftPOs(ctx context.Context, drafts []domain.PurchaseOrderDraft) (int, error)
	GetOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, error)
	ListOrders(ctx context.Context, status *domain.POStatus) ([]domain.PurchaseOrder, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.PurchaseOrderItem, error)
	// ReceiveItem applies a receipt against a line under a row lock: item
	// update, PO_RECEIPT movement, position update and the PO status change
	// commit or roll back together.
	ReceiveItem(ctx context.Context, itemID, qty int64, actorID string) (*domain.ReceiveResult, error)
	UpdateStatus(ctx context.Context, orderID int64, next domain.POStatus) error
}

// CatalogRepository is the read-only projection of the product, supplier and
// warehouse directories owned by the surrounding application.
type CatalogRepository interface {
	GetProductRefs(ctx context.Context, productIDs []int64) (map[int64]domain.ProductRef, error)
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
}
