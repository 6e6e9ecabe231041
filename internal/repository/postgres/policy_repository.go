package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opslane/inventory-engine/internal/domain"
)

type policyRepository struct {
	db *DB
}

func NewPolicyRepository(db *DB) *policyRepository {
	return &policyRepository{db: db}
}

// Resolve returns the best-match policy for a pair: the exact
// (product, warehouse) row wins over the product-wide row. A nil result with
// nil error means no policy is configured and engine defaults apply.
func (r *policyRepository) Resolve(ctx context.Context, productID, warehouseID int64) (*domain.ReorderPolicy, error) {
	query := `
		SELECT id, product_id, warehouse_id, min_qty, max_qty, multiple,
		       days_of_cover, use_auto_calculation, created_at, updated_at
		FROM reorder_policies
		WHERE product_id = $1 AND (warehouse_id = $2 OR warehouse_id IS NULL)
		ORDER BY warehouse_id NULLS LAST
		LIMIT 1
	`

	var policy domain.ReorderPolicy
	err := r.db.GetContext(ctx, &policy, query, productID, warehouseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.PersistenceErr(err, "failed to resolve reorder policy")
	}

	return &policy, nil
}

func (r *policyRepository) Create(ctx context.Context, p *domain.ReorderPolicy) error {
	if p.Multiple <= 0 {
		p.Multiple = 1
	}

	query := `
		INSERT INTO reorder_policies (
			product_id, warehouse_id, min_qty, max_qty, multiple,
			days_of_cover, use_auto_calculation, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (product_id, COALESCE(warehouse_id, 0))
		DO UPDATE SET
			min_qty              = EXCLUDED.min_qty,
			max_qty              = EXCLUDED.max_qty,
			multiple             = EXCLUDED.multiple,
			days_of_cover        = EXCLUDED.days_of_cover,
			use_auto_calculation = EXCLUDED.use_auto_calculation,
			updated_at           = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ProductID, p.WarehouseID, p.MinQty, p.MaxQty, p.Multiple,
		p.DaysOfCover, p.UseAutoCalculation,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.PersistenceErr(err, "failed to save reorder policy")
	}

	return nil
}

func (r *policyRepository) List(ctx context.Context, productID *int64) ([]domain.ReorderPolicy, error) {
	query := `
		SELECT id, product_id, warehouse_id, min_qty, max_qty, multiple,
		       days_of_cover, use_auto_calculation, created_at, updated_at
		FROM reorder_policies
	`
	var args []interface{}
	if productID != nil {
		query += ` WHERE product_id = $1`
		args = append(args, *productID)
	}
	query += ` ORDER BY product_id, warehouse_id NULLS FIRST`

	policies := make([]domain.ReorderPolicy, 0)
	if err := r.db.SelectContext(ctx, &policies, query, args...); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list reorder policies")
	}

	return policies, nil
}
