package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opslane/inventory-engine/internal/domain"
)

type stockLedgerRepository struct {
	db *DB
}

func NewStockLedgerRepository(db *DB) *stockLedgerRepository {
	return &stockLedgerRepository{db: db}
}

func (r *stockLedgerRepository) ListPairs(ctx context.Context, scope domain.RecalcScope) ([]domain.PairKey, error) {
	query := `
		SELECT product_id, warehouse_id
		FROM stock_positions
	`
	var args []interface{}
	if scope.WarehouseID != nil {
		query += ` WHERE warehouse_id = $1`
		args = append(args, *scope.WarehouseID)
	}
	query += ` ORDER BY product_id, warehouse_id`

	var pairs []domain.PairKey
	if err := r.db.SelectContext(ctx, &pairs, query, args...); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list stock positions")
	}

	return pairs, nil
}

func (r *stockLedgerRepository) GetPairStats(ctx context.Context, productID, warehouseID int64, since time.Time) (*domain.PairStats, error) {
	query := `
		SELECT
			sp.product_id,
			sp.warehouse_id,
			sp.on_hand,
			sp.reserved,
			COALESCE(m.outbound_qty, 0)   AS outbound_qty,
			COALESCE(m.movement_count, 0) AS movement_count,
			m.last_movement_at
		FROM stock_positions sp
		LEFT JOIN (
			SELECT
				product_id,
				warehouse_id,
				SUM(CASE
					WHEN occurred_at >= $3
					 AND (movement_type IN ('SALE', 'TRANSFER_OUT')
					  OR (movement_type = 'ADJUSTMENT' AND quantity_change < 0))
					THEN ABS(quantity_change) ELSE 0 END) AS outbound_qty,
				COUNT(*)         AS movement_count,
				MAX(occurred_at) AS last_movement_at
			FROM inventory_movements
			WHERE product_id = $1 AND warehouse_id = $2
			GROUP BY product_id, warehouse_id
		) m ON m.product_id = sp.product_id AND m.warehouse_id = sp.warehouse_id
		WHERE sp.product_id = $1 AND sp.warehouse_id = $2
	`

	var stats domain.PairStats
	err := r.db.GetContext(ctx, &stats, query, productID, warehouseID, since)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("no stock position for product %d in warehouse %d", productID, warehouseID)
	}
	if err != nil {
		return nil, domain.PersistenceErr(err, "failed to load pair stats")
	}

	return &stats, nil
}

// ApplyMovement appends a ledger event and folds it into the stock position
// in one transaction. This is the only write path for stock positions.
func (r *stockLedgerRepository) ApplyMovement(ctx context.Context, m *domain.InventoryMovement) error {
	if !m.Type.Valid() {
		return domain.Validationf("unknown movement type %q", m.Type)
	}
	if m.QuantityChange == 0 {
		return domain.Validationf("movement quantity change must be non-zero")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.OccurredAt.IsZero() {
		m.OccurredAt = time.Now().UTC()
	}

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return applyMovementTx(ctx, tx, m)
	})
	if err != nil {
		if domain.KindOf(err) != domain.KindPersistence {
			return err
		}
		return domain.PersistenceErr(err, "failed to apply inventory movement")
	}
	return nil
}

// applyMovementTx is shared with the receiving flow so receipts reuse the
// exact same ledger semantics.
func applyMovementTx(ctx context.Context, tx *sqlx.Tx, m *domain.InventoryMovement) error {
	insertMovement := `
		INSERT INTO inventory_movements (
			id, product_id, warehouse_id, quantity_change, movement_type,
			reference_type, reference_id, reason, actor_id, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := tx.ExecContext(ctx, insertMovement,
		m.ID, m.ProductID, m.WarehouseID, m.QuantityChange, m.Type,
		m.ReferenceType, m.ReferenceID, m.Reason, m.ActorID, m.OccurredAt,
	); err != nil {
		return err
	}

	upsertPosition := `
		INSERT INTO stock_positions (product_id, warehouse_id, on_hand, reserved, updated_at)
		VALUES ($1, $2, $3, 0, NOW())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET
			on_hand    = stock_positions.on_hand + EXCLUDED.on_hand,
			updated_at = NOW()
	`
	_, err := tx.ExecContext(ctx, upsertPosition, m.ProductID, m.WarehouseID, m.QuantityChange)
	return err
}

func (r *stockLedgerRepository) ListMovements(ctx context.Context, productID, warehouseID int64, limit int) ([]domain.InventoryMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	query := `
		SELECT id, product_id, warehouse_id, quantity_change, movement_type,
		       reference_type, reference_id, reason, actor_id, occurred_at
		FROM inventory_movements
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY occurred_at DESC
		LIMIT $3
	`

	var movements []domain.InventoryMovement
	if err := r.db.SelectContext(ctx, &movements, query, productID, warehouseID, limit); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list movements")
	}

	return movements, nil
}
