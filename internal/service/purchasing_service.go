package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/opslane/inventory-engine/internal/cache"
	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/repository"
	"github.com/opslane/inventory-engine/pkg/logger"
)

// PurchasingService turns reorder suggestions into draft purchase orders and
// runs the receiving workflow.
type PurchasingService struct {
	orders repository.PurchaseOrderRepository
	cache  cache.InsightsCache
}

func NewPurchasingService(
	orders repository.PurchaseOrderRepository,
	insightsCache cache.InsightsCache,
) *PurchasingService {
	return &PurchasingService{
		orders: orders,
		cache:  insightsCache,
	}
}

type poGroup struct {
	supplierID  int64
	warehouseID int64
}

// GenerateDraftPOs persists the submitted suggestion lines as draft purchase
// orders, one per (supplier, warehouse) group, all in one transaction. The
// caller selects the lines, usually a subset of the current suggestion set;
// a line without a supplier aborts the whole batch so the caller can fix the
// catalog or drop the line first.
func (s *PurchasingService) GenerateDraftPOs(ctx context.Context, suggestions []domain.ReorderSuggestion, notes string) (int, error) {
	if len(suggestions) == 0 {
		return 0, domain.Validationf("no suggestions submitted")
	}

	var missing []string
	groups := make(map[poGroup][]domain.DraftLine)
	for _, sug := range suggestions {
		if sug.ProductID <= 0 || sug.WarehouseID <= 0 {
			return 0, domain.Validationf("suggestion for %s has an invalid product or warehouse id", lineLabel(sug))
		}
		if sug.SuggestedQty <= 0 {
			return 0, domain.Validationf("suggestion for %s has a non-positive quantity", lineLabel(sug))
		}
		if sug.UnitCost < 0 {
			return 0, domain.Validationf("suggestion for %s has a negative unit cost", lineLabel(sug))
		}
		if sug.SupplierID == nil {
			missing = append(missing, lineLabel(sug))
			continue
		}
		key := poGroup{supplierID: *sug.SupplierID, warehouseID: sug.WarehouseID}
		groups[key] = append(groups[key], domain.DraftLine{
			ProductID: sug.ProductID,
			Quantity:  sug.SuggestedQty,
			UnitCost:  sug.UnitCost,
		})
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return 0, domain.Validationf("products without an active supplier: %s", strings.Join(missing, ", "))
	}

	keys := make([]poGroup, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].supplierID != keys[j].supplierID {
			return keys[i].supplierID < keys[j].supplierID
		}
		return keys[i].warehouseID < keys[j].warehouseID
	})

	drafts := make([]domain.PurchaseOrderDraft, 0, len(keys))
	for _, key := range keys {
		drafts = append(drafts, domain.PurchaseOrderDraft{
			SupplierID:  key.supplierID,
			WarehouseID: key.warehouseID,
			Notes:       notes,
			Lines:       groups[key],
		})
	}

	created, err := s.orders.CreateDraftPOs(ctx, drafts)
	if err != nil {
		return 0, err
	}

	logger.Log.Info().
		Int("orders", created).
		Int("lines", len(suggestions)).
		Msg("draft purchase orders created")

	return created, nil
}

func lineLabel(sug domain.ReorderSuggestion) string {
	if sug.ProductSKU != "" {
		return sug.ProductSKU
	}
	return fmt.Sprintf("product %d", sug.ProductID)
}

func (s *PurchasingService) GetOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, []domain.PurchaseOrderItem, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.orders.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (s *PurchasingService) ListOrders(ctx context.Context, status string) ([]domain.PurchaseOrder, error) {
	var filter *domain.POStatus
	if status != "" {
		parsed, ok := domain.ParsePOStatus(status)
		if !ok {
			return nil, domain.Validationf("unknown purchase order status %q", status)
		}
		filter = &parsed
	}
	return s.orders.ListOrders(ctx, filter)
}

// Receive records a receipt against a PO line. Stock position, ledger event,
// line progress and (when the order completes) the status flip commit as one
// transaction inside the repository.
func (s *PurchasingService) Receive(ctx context.Context, itemID, qty int64, actorID string) (*domain.ReceiveResult, error) {
	result, err := s.orders.ReceiveItem(ctx, itemID, qty, actorID)
	if err != nil {
		return nil, err
	}

	// Stock changed; the cached summary is stale until the next recalc.
	s.cache.Invalidate(ctx)

	logger.Log.Info().
		Int64("item_id", itemID).
		Int64("qty", qty).
		Str("order_status", string(result.OrderStatus)).
		Msg("purchase order item received")

	return result, nil
}

func (s *PurchasingService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	next, ok := domain.ParsePOStatus(status)
	if !ok {
		return domain.Validationf("unknown purchase order status %q", status)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		return err
	}

	logger.Log.Info().
		Int64("order_id", orderID).
		Str("status", string(next)).
		Msg("purchase order status updated")
	return nil
}
