// internal/domain/models.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog projection the engine needs: identity plus the
// default unit cost and preferred supplier used when building suggestions.
type Product struct {
	ID         int64   `json:"id" db:"id"`
	SKU        string  `json:"sku" db:"sku"`
	Name       string  `json:"name" db:"name"`
	Brand      string  `json:"brand" db:"brand"`
	UnitCost   float64 `json:"unit_cost" db:"unit_cost"`
	SupplierID *int64  `json:"supplier_id" db:"supplier_id"`
}

// Supplier represents a supplier directory entry
type Supplier struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Active bool   `json:"active" db:"active"`
}

// Warehouse represents a warehouse directory entry
type Warehouse struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Code     string `json:"code" db:"code"`
	Location string `json:"location" db:"location"`
}

// StockPosition is the materialized projection of all movements for a
// (product, warehouse) pair. It is only ever mutated by movement application.
type StockPosition struct {
	ProductID   int64     `json:"product_id" db:"product_id"`
	WarehouseID int64     `json:"warehouse_id" db:"warehouse_id"`
	OnHand      int64     `json:"on_hand" db:"on_hand"`
	Reserved    int64     `json:"reserved" db:"reserved"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Available returns on-hand minus reserved stock.
func (p StockPosition) Available() int64 {
	return p.OnHand - p.Reserved
}

// MovementType enumerates the inventory movement kinds
type MovementType string

const (
	MovementSale        MovementType = "SALE"
	MovementPOReceipt   MovementType = "PO_RECEIPT"
	MovementAdjustment  MovementType = "ADJUSTMENT"
	MovementTransferIn  MovementType = "TRANSFER_IN"
	MovementTransferOut MovementType = "TRANSFER_OUT"
	MovementReturn      MovementType = "RETURN"
)

var movementTypes = map[MovementType]struct{}{
	MovementSale:        {},
	MovementPOReceipt:   {},
	MovementAdjustment:  {},
	MovementTransferIn:  {},
	MovementTransferOut: {},
	MovementReturn:      {},
}

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	_, ok := movementTypes[t]
	return ok
}

// InventoryMovement is an immutable, append-only ledger event.
type InventoryMovement struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	ProductID      int64        `json:"product_id" db:"product_id"`
	WarehouseID    int64        `json:"warehouse_id" db:"warehouse_id"`
	QuantityChange int64        `json:"quantity_change" db:"quantity_change"`
	Type           MovementType `json:"movement_type" db:"movement_type"`
	ReferenceType  string       `json:"reference_type" db:"reference_type"`
	ReferenceID    *int64       `json:"reference_id" db:"reference_id"`
	Reason         string       `json:"reason" db:"reason"`
	ActorID        string       `json:"actor_id" db:"actor_id"`
	OccurredAt     time.Time    `json:"occurred_at" db:"occurred_at"`
}

// Outbound reports whether the movement consumes stock: sales, outbound
// transfers, and negative adjustments.
func (m InventoryMovement) Outbound() bool {
	switch m.Type {
	case MovementSale, MovementTransferOut:
		return true
	case MovementAdjustment:
		return m.QuantityChange < 0
	}
	return false
}

// ReorderPolicy configures restocking for a product, either for a single
// warehouse or (warehouse_id NULL) for all warehouses.
type ReorderPolicy struct {
	ID                 int64     `json:"id" db:"id"`
	ProductID          int64     `json:"product_id" db:"product_id"`
	WarehouseID        *int64    `json:"warehouse_id" db:"warehouse_id"`
	MinQty             int64     `json:"min_qty" db:"min_qty"`
	MaxQty             *int64    `json:"max_qty" db:"max_qty"`
	Multiple           int64     `json:"multiple" db:"multiple"`
	DaysOfCover        int       `json:"days_of_cover" db:"days_of_cover"`
	UseAutoCalculation bool      `json:"use_auto_calculation" db:"use_auto_calculation"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// RiskLevel grades stockout risk and flag severity
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskNone     RiskLevel = "none"
)

// AtRisk reports whether the level counts as actionable stockout risk.
func (r RiskLevel) AtRisk() bool {
	return r == RiskCritical || r == RiskHigh
}

// InventoryForecast is the materialized per-pair forecast row, fully replaced
// on each recalculation.
type InventoryForecast struct {
	ID              int64     `json:"id" db:"id"`
	ProductID       int64     `json:"product_id" db:"product_id"`
	WarehouseID     int64     `json:"warehouse_id" db:"warehouse_id"`
	RiskLevel       RiskLevel `json:"risk_level" db:"risk_level"`
	AvgDailyUsage   float64   `json:"avg_daily_usage" db:"avg_daily_usage"`
	DaysUntilRunout *int      `json:"days_until_runout" db:"days_until_runout"`
	Suggestion      string    `json:"suggestion" db:"suggestion"`
	Available       int64     `json:"available" db:"available"`
	ReorderPoint    int64     `json:"reorder_point" db:"reorder_point"`
	ComputedAt      time.Time `json:"computed_at" db:"computed_at"`

	ProductSKU    string `json:"product_sku" db:"product_sku"`
	ProductName   string `json:"product_name" db:"product_name"`
	WarehouseName string `json:"warehouse_name" db:"warehouse_name"`
}

// FlagType enumerates risk flag kinds
type FlagType string

const (
	FlagDeadStock FlagType = "DEAD_STOCK"
	FlagOverstock FlagType = "OVERSTOCK"
)

// InventoryRiskFlag is a materialized dead-stock or overstock flag, cleared
// and regenerated on each recalculation.
type InventoryRiskFlag struct {
	ID                   int64     `json:"id" db:"id"`
	ProductID            int64     `json:"product_id" db:"product_id"`
	WarehouseID          int64     `json:"warehouse_id" db:"warehouse_id"`
	FlagType             FlagType  `json:"flag_type" db:"flag_type"`
	Severity             RiskLevel `json:"severity" db:"severity"`
	DaysWithoutMovement  *int      `json:"days_without_movement" db:"days_without_movement"`
	Message              string    `json:"message" db:"message"`
	ComputedAt           time.Time `json:"computed_at" db:"computed_at"`

	ProductSKU    string `json:"product_sku" db:"product_sku"`
	ProductName   string `json:"product_name" db:"product_name"`
	WarehouseName string `json:"warehouse_name" db:"warehouse_name"`
}

// ReorderSuggestion is computed on demand and never persisted.
type ReorderSuggestion struct {
	ProductID    int64     `json:"product_id"`
	WarehouseID  int64     `json:"warehouse_id"`
	ProductSKU   string    `json:"product_sku"`
	ProductName  string    `json:"product_name"`
	SupplierID   *int64    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	RiskLevel    RiskLevel `json:"risk_level"`
	Available    int64     `json:"available"`
	ReorderPoint int64     `json:"reorder_point"`
	SuggestedQty int64     `json:"suggested_qty"`
	UnitCost     float64   `json:"unit_cost"`
	LineTotal    float64   `json:"line_total"`
}

// PurchaseOrder header. Created in draft status by the suggestion flow,
// advanced by the operational workflow.
type PurchaseOrder struct {
	ID           int64     `json:"id" db:"id"`
	SupplierID   int64     `json:"supplier_id" db:"supplier_id"`
	WarehouseID  int64     `json:"warehouse_id" db:"warehouse_id"`
	Status       POStatus  `json:"status" db:"status"`
	TotalCost    float64   `json:"total_cost" db:"total_cost"`
	ShippingCost float64   `json:"shipping_cost" db:"shipping_cost"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	SupplierName  string `json:"supplier_name" db:"supplier_name"`
	WarehouseName string `json:"warehouse_name" db:"warehouse_name"`
}

// PurchaseOrderItem is a PO line. quantity_received never decreases and never
// exceeds quantity_ordered.
type PurchaseOrderItem struct {
	ID               int64   `json:"id" db:"id"`
	PurchaseOrderID  int64   `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID        int64   `json:"product_id" db:"product_id"`
	QuantityOrdered  int64   `json:"quantity_ordered" db:"quantity_ordered"`
	QuantityReceived int64   `json:"quantity_received" db:"quantity_received"`
	UnitCost         float64 `json:"unit_cost" db:"unit_cost"`
}

// CanReceive validates a receipt of qty against the line. Over-receipt is
// rejected rather than clamped.
func (i PurchaseOrderItem) CanReceive(qty int64) error {
	if qty <= 0 {
		return Validationf("receive quantity must be positive, got %d", qty)
	}
	if i.QuantityReceived+qty > i.QuantityOrdered {
		return Validationf("over-receipt: %d received + %d incoming exceeds %d ordered",
			i.QuantityReceived, qty, i.QuantityOrdered)
	}
	return nil
}

// FullyReceived reports whether the line has been received in full.
func (i PurchaseOrderItem) FullyReceived() bool {
	return i.QuantityReceived == i.QuantityOrdered
}

// DraftLine is one product line of a draft purchase order being created.
type DraftLine struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
}

// PurchaseOrderDraft is a supplier/warehouse group of suggestions ready to be
// persisted as one draft PO.
type PurchaseOrderDraft struct {
	SupplierID  int64       `json:"supplier_id"`
	WarehouseID int64       `json:"warehouse_id"`
	Notes       string      `json:"notes"`
	Lines       []DraftLine `json:"lines"`
}

// TotalCost sums the draft's line totals.
func (d PurchaseOrderDraft) TotalCost() float64 {
	var total float64
	for _, l := range d.Lines {
		total += float64(l.Quantity) * l.UnitCost
	}
	return total
}

// ReceiveResult reports the outcome of a receipt against a PO line.
type ReceiveResult struct {
	Item        PurchaseOrderItem `json:"item"`
	OrderStatus POStatus          `json:"order_status"`
	MovementID  uuid.UUID         `json:"movement_id"`
}

// PairKey identifies a (product, warehouse) pair
type PairKey struct {
	ProductID   int64 `json:"product_id" db:"product_id"`
	WarehouseID int64 `json:"warehouse_id" db:"warehouse_id"`
}

// PairStats is the ledger projection used as forecasting input: the current
// position plus trailing-window outbound consumption and movement recency.
type PairStats struct {
	ProductID      int64      `db:"product_id"`
	WarehouseID    int64      `db:"warehouse_id"`
	OnHand         int64      `db:"on_hand"`
	Reserved       int64      `db:"reserved"`
	OutboundQty    int64      `db:"outbound_qty"`
	MovementCount  int64      `db:"movement_count"`
	LastMovementAt *time.Time `db:"last_movement_at"`
}

// Available returns on-hand minus reserved stock.
func (s PairStats) Available() int64 {
	return s.OnHand - s.Reserved
}

// RecalcScope limits a recalculation run; a nil warehouse means all warehouses.
type RecalcScope struct {
	WarehouseID *int64 `json:"warehouse_id"`
}

// RecalcResult reports how many rows a recalculation materialized
type RecalcResult struct {
	Forecasts int `json:"forecasts"`
	Flags     int `json:"flags"`
}

// InsightsSummary is the cheap aggregate the dashboard reads
type InsightsSummary struct {
	AtRiskCount    int `json:"at_risk_count" db:"at_risk_count"`
	DeadStockCount int `json:"dead_stock_count" db:"dead_stock_count"`
	OverstockCount int `json:"overstock_count" db:"overstock_count"`
}

// ForecastFilter filters materialized forecast reads
type ForecastFilter struct {
	WarehouseID *int64
	RiskLevel   RiskLevel
	Search      string
}

// RiskFlagFilter filters materialized risk flag reads
type RiskFlagFilter struct {
	WarehouseID *int64
	FlagType    FlagType
}

// SuggestionFilter filters on-demand reorder suggestions
type SuggestionFilter struct {
	WarehouseID      *int64
	SupplierID       *int64
	OnlyWithSupplier bool
}

// ProductRef is the joined catalog projection attached to suggestions
type ProductRef struct {
	ProductID    int64   `db:"product_id"`
	SKU          string  `db:"sku"`
	Name         string  `db:"name"`
	UnitCost     float64 `db:"unit_cost"`
	SupplierID   *int64  `db:"supplier_id"`
	SupplierName string  `db:"supplier_name"`
}
