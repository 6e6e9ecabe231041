package service

import (
	"context"

	"github.com/opslane/inventory-engine/internal/cache"
	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/repository"
	"github.com/opslane/inventory-engine/pkg/logger"
)

// LedgerService records inventory movements and reads movement history.
type LedgerService struct {
	ledger repository.StockLedgerRepository
	cache  cache.InsightsCache
}

func NewLedgerService(ledger repository.StockLedgerRepository, insightsCache cache.InsightsCache) *LedgerService {
	return &LedgerService{ledger: ledger, cache: insightsCache}
}

// Record appends a movement and updates the pair's stock position in the same
// transaction.
func (s *LedgerService) Record(ctx context.Context, m *domain.InventoryMovement) error {
	if m.ProductID <= 0 || m.WarehouseID <= 0 {
		return domain.Validationf("product_id and warehouse_id are required")
	}

	if err := s.ledger.ApplyMovement(ctx, m); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	logger.Log.Info().
		Str("movement_id", m.ID.String()).
		Str("type", string(m.Type)).
		Int64("product_id", m.ProductID).
		Int64("warehouse_id", m.WarehouseID).
		Int64("quantity_change", m.QuantityChange).
		Msg("inventory movement recorded")
	return nil
}

func (s *LedgerService) History(ctx context.Context, productID, warehouseID int64, limit int) ([]domain.InventoryMovement, error) {
	if productID <= 0 || warehouseID <= 0 {
		return nil, domain.Validationf("product_id and warehouse_id are required")
	}
	return s.ledger.ListMovements(ctx, productID, warehouseID, limit)
}
