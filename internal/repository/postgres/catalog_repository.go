package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/opslane/inventory-engine/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetProductRefs(ctx context.Context, productIDs []int64) (map[int64]domain.ProductRef, error) {
	refs := make(map[int64]domain.ProductRef, len(productIDs))
	if len(productIDs) == 0 {
		return refs, nil
	}

	// An inactive supplier is treated as no supplier at all: the join drops
	// it and the suggestion surfaces the missing-supplier warning instead.
	query := `
		SELECT
			p.id AS product_id,
			p.sku,
			p.name,
			p.unit_cost,
			s.id AS supplier_id,
			COALESCE(s.name, '') AS supplier_name
		FROM products p
		LEFT JOIN suppliers s ON s.id = p.supplier_id AND s.active
		WHERE p.id = ANY($1::bigint[])
	`

	var rows []domain.ProductRef
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(productIDs)); err != nil {
		return nil, domain.PersistenceErr(err, "failed to load product references")
	}

	for _, ref := range rows {
		refs[ref.ProductID] = ref
	}

	return refs, nil
}

func (r *catalogRepository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	query := `
		SELECT id, name, code, location
		FROM warehouses
		ORDER BY name
	`

	warehouses := make([]domain.Warehouse, 0)
	if err := r.db.SelectContext(ctx, &warehouses, query); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list warehouses")
	}

	return warehouses, nil
}
