package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opslane/inventory-engine/internal/domain"
)

type purchaseOrderRepository struct {
	db *DB
}

func NewPurchaseOrderRepository(db *DB) *purchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

// CreateDraftPOs persists every draft in a single transaction: if any insert
// fails, no purchase order is created.
func (r *purchaseOrderRepository) CreateDraftPOs(ctx context.Context, drafts []domain.PurchaseOrderDraft) (int, error) {
	created := 0

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		insertOrder := `
			INSERT INTO purchase_orders (
				supplier_id, warehouse_id, status, total_cost, shipping_cost, notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, 0, $5, NOW(), NOW())
			RETURNING id
		`
		insertItem := `
			INSERT INTO purchase_order_items (
				purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost
			) VALUES ($1, $2, $3, 0, $4)
		`

		itemStmt, err := tx.PrepareContext(ctx, insertItem)
		if err != nil {
			return fmt.Errorf("failed to prepare item insert: %w", err)
		}
		defer itemStmt.Close()

		for _, draft := range drafts {
			var orderID int64
			err := tx.QueryRowContext(ctx, insertOrder,
				draft.SupplierID, draft.WarehouseID, domain.POStatusDraft,
				draft.TotalCost(), draft.Notes,
			).Scan(&orderID)
			if err != nil {
				return fmt.Errorf("failed to insert purchase order: %w", err)
			}

			for _, line := range draft.Lines {
				if _, err := itemStmt.ExecContext(ctx,
					orderID, line.ProductID, line.Quantity, line.UnitCost,
				); err != nil {
					return fmt.Errorf("failed to insert purchase order item: %w", err)
				}
			}

			created++
		}

		return nil
	})
	if err != nil {
		return 0, domain.PersistenceErr(err, "failed to create draft purchase orders")
	}

	return created, nil
}

func (r *purchaseOrderRepository) GetOrder(ctx context.Context, id int64) (*domain.PurchaseOrder, error) {
	query := `
		SELECT
			po.id, po.supplier_id, po.warehouse_id, po.status, po.total_cost,
			po.shipping_cost, po.notes, po.created_at, po.updated_at,
			s.name AS supplier_name,
			w.name AS warehouse_name
		FROM purchase_orders po
		JOIN suppliers s ON s.id = po.supplier_id
		JOIN warehouses w ON w.id = po.warehouse_id
		WHERE po.id = $1
	`

	var order domain.PurchaseOrder
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("purchase order %d not found", id)
	}
	if err != nil {
		return nil, domain.PersistenceErr(err, "failed to load purchase order")
	}

	return &order, nil
}

func (r *purchaseOrderRepository) ListOrders(ctx context.Context, status *domain.POStatus) ([]domain.PurchaseOrder, error) {
	query := `
		SELECT
			po.id, po.supplier_id, po.warehouse_id, po.status, po.total_cost,
			po.shipping_cost, po.notes, po.created_at, po.updated_at,
			s.name AS supplier_name,
			w.name AS warehouse_name
		FROM purchase_orders po
		JOIN suppliers s ON s.id = po.supplier_id
		JOIN warehouses w ON w.id = po.warehouse_id
	`
	var args []interface{}
	if status != nil {
		query += ` WHERE po.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY po.created_at DESC`

	orders := make([]domain.PurchaseOrder, 0)
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list purchase orders")
	}

	return orders, nil
}

func (r *purchaseOrderRepository) ListItems(ctx context.Context, orderID int64) ([]domain.PurchaseOrderItem, error) {
	query := `
		SELECT id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost
		FROM purchase_order_items
		WHERE purchase_order_id = $1
		ORDER BY id
	`

	items := make([]domain.PurchaseOrderItem, 0)
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list purchase order items")
	}

	return items, nil
}

// ReceiveItem applies a receipt under a row lock so concurrent receipts
// against the same line serialize: the over-receipt check, item update,
// PO_RECEIPT movement and PO status change commit or roll back as one unit.
func (r *purchaseOrderRepository) ReceiveItem(ctx context.Context, itemID, qty int64, actorID string) (*domain.ReceiveResult, error) {
	var result domain.ReceiveResult

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockQuery := `
			SELECT id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost
			FROM purchase_order_items
			WHERE id = $1
			FOR UPDATE
		`
		var item domain.PurchaseOrderItem
		err := tx.GetContext(ctx, &item, lockQuery, itemID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("purchase order item %d not found", itemID)
		}
		if err != nil {
			return err
		}

		var order struct {
			ID          int64           `db:"id"`
			WarehouseID int64           `db:"warehouse_id"`
			Status      domain.POStatus `db:"status"`
		}
		orderQuery := `
			SELECT id, warehouse_id, status
			FROM purchase_orders
			WHERE id = $1
			FOR UPDATE
		`
		if err := tx.GetContext(ctx, &order, orderQuery, item.PurchaseOrderID); err != nil {
			return err
		}

		if order.Status == domain.POStatusCancelled || order.Status == domain.POStatusClosed {
			return domain.Validationf("cannot receive against a %s purchase order", order.Status)
		}
		if err := item.CanReceive(qty); err != nil {
			return err
		}

		update := `
			UPDATE purchase_order_items
			SET quantity_received = quantity_received + $2
			WHERE id = $1
			RETURNING quantity_received
		`
		if err := tx.GetContext(ctx, &item.QuantityReceived, update, itemID, qty); err != nil {
			return err
		}

		movement := &domain.InventoryMovement{
			ID:             uuid.New(),
			ProductID:      item.ProductID,
			WarehouseID:    order.WarehouseID,
			QuantityChange: qty,
			Type:           domain.MovementPOReceipt,
			ReferenceType:  "purchase_order",
			ReferenceID:    &order.ID,
			Reason:         fmt.Sprintf("receipt against PO %d", order.ID),
			ActorID:        actorID,
			OccurredAt:     time.Now().UTC(),
		}
		if err := applyMovementTx(ctx, tx, movement); err != nil {
			return err
		}

		status := order.Status
		var pending int
		pendingQuery := `
			SELECT COUNT(*)
			FROM purchase_order_items
			WHERE purchase_order_id = $1 AND quantity_received < quantity_ordered
		`
		if err := tx.GetContext(ctx, &pending, pendingQuery, order.ID); err != nil {
			return err
		}
		if pending == 0 && order.Status.CanTransitionTo(domain.POStatusReceived) {
			status = domain.POStatusReceived
			if _, err := tx.ExecContext(ctx,
				`UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`,
				order.ID, status,
			); err != nil {
				return err
			}
		}

		result = domain.ReceiveResult{
			Item:        item,
			OrderStatus: status,
			MovementID:  movement.ID,
		}
		return nil
	})
	if err != nil {
		if domain.KindOf(err) != domain.KindPersistence {
			return nil, err
		}
		return nil, domain.PersistenceErr(err, "failed to receive purchase order item")
	}

	return &result, nil
}

// UpdateStatus moves a purchase order forward in its lifecycle; backward
// transitions are rejected.
func (r *purchaseOrderRepository) UpdateStatus(ctx context.Context, orderID int64, next domain.POStatus) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var current domain.POStatus
		err := tx.GetContext(ctx, &current,
			`SELECT status FROM purchase_orders WHERE id = $1 FOR UPDATE`, orderID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("purchase order %d not found", orderID)
		}
		if err != nil {
			return err
		}

		if !current.CanTransitionTo(next) {
			return domain.Validationf("cannot transition purchase order from %s to %s", current, next)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`,
			orderID, next)
		return err
	})
	if err != nil {
		if domain.KindOf(err) != domain.KindPersistence {
			return err
		}
		return domain.PersistenceErr(err, "failed to update purchase order status")
	}
	return nil
}
