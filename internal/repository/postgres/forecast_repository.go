package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/opslane/inventory-engine/internal/domain"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

// ReplaceInsights swaps the materialized rows for a scope in one transaction.
// Readers never observe an empty or half-updated insight set.
func (r *forecastRepository) ReplaceInsights(ctx context.Context, scope domain.RecalcScope, forecasts []domain.InventoryForecast, flags []domain.InventoryRiskFlag) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockRecalcScope(ctx, tx, scope.WarehouseID); err != nil {
			return fmt.Errorf("failed to lock recalculation scope: %w", err)
		}

		deleteForecasts := `DELETE FROM inventory_forecasts`
		deleteFlags := `DELETE FROM inventory_risk_flags`
		var args []interface{}
		if scope.WarehouseID != nil {
			deleteForecasts += ` WHERE warehouse_id = $1`
			deleteFlags += ` WHERE warehouse_id = $1`
			args = append(args, *scope.WarehouseID)
		}

		if _, err := tx.ExecContext(ctx, deleteForecasts, args...); err != nil {
			return fmt.Errorf("failed to delete prior forecasts: %w", err)
		}
		if _, err := tx.ExecContext(ctx, deleteFlags, args...); err != nil {
			return fmt.Errorf("failed to delete prior risk flags: %w", err)
		}

		insertForecast := `
			INSERT INTO inventory_forecasts (
				product_id, warehouse_id, risk_level, avg_daily_usage,
				days_until_runout, suggestion, available, reorder_point, computed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		stmt, err := tx.PrepareContext(ctx, insertForecast)
		if err != nil {
			return fmt.Errorf("failed to prepare forecast insert: %w", err)
		}
		defer stmt.Close()

		for _, f := range forecasts {
			if _, err := stmt.ExecContext(ctx,
				f.ProductID, f.WarehouseID, f.RiskLevel, f.AvgDailyUsage,
				f.DaysUntilRunout, f.Suggestion, f.Available, f.ReorderPoint, f.ComputedAt,
			); err != nil {
				return fmt.Errorf("failed to insert forecast: %w", err)
			}
		}

		insertFlag := `
			INSERT INTO inventory_risk_flags (
				product_id, warehouse_id, flag_type, severity,
				days_without_movement, message, computed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		flagStmt, err := tx.PrepareContext(ctx, insertFlag)
		if err != nil {
			return fmt.Errorf("failed to prepare risk flag insert: %w", err)
		}
		defer flagStmt.Close()

		for _, f := range flags {
			if _, err := flagStmt.ExecContext(ctx,
				f.ProductID, f.WarehouseID, f.FlagType, f.Severity,
				f.DaysWithoutMovement, f.Message, f.ComputedAt,
			); err != nil {
				return fmt.Errorf("failed to insert risk flag: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return domain.PersistenceErr(err, "failed to replace inventory insights")
	}
	return nil
}

func (r *forecastRepository) ListForecasts(ctx context.Context, filter domain.ForecastFilter) ([]domain.InventoryForecast, error) {
	query := `
		SELECT
			f.id, f.product_id, f.warehouse_id, f.risk_level, f.avg_daily_usage,
			f.days_until_runout, f.suggestion, f.available, f.reorder_point, f.computed_at,
			p.sku  AS product_sku,
			p.name AS product_name,
			w.name AS warehouse_name
		FROM inventory_forecasts f
		JOIN products p ON p.id = f.product_id
		JOIN warehouses w ON w.id = f.warehouse_id
		WHERE 1=1
	`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.WarehouseID != nil {
		conditions = append(conditions, fmt.Sprintf("f.warehouse_id = $%d", argCounter))
		args = append(args, *filter.WarehouseID)
		argCounter++
	}

	if filter.RiskLevel != "" {
		conditions = append(conditions, fmt.Sprintf("f.risk_level = $%d", argCounter))
		args = append(args, filter.RiskLevel)
		argCounter++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.sku ILIKE $%d OR p.name ILIKE $%d)", argCounter, argCounter))
		args = append(args, "%"+filter.Search+"%")
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += `
		ORDER BY
			CASE f.risk_level
				WHEN 'critical' THEN 0
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				WHEN 'low' THEN 3
				ELSE 4
			END,
			p.name, f.warehouse_id
	`

	forecasts := make([]domain.InventoryForecast, 0)
	if err := r.db.SelectContext(ctx, &forecasts, query, args...); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list forecasts")
	}

	return forecasts, nil
}

func (r *forecastRepository) ListRiskFlags(ctx context.Context, filter domain.RiskFlagFilter) ([]domain.InventoryRiskFlag, error) {
	query := `
		SELECT
			f.id, f.product_id, f.warehouse_id, f.flag_type, f.severity,
			f.days_without_movement, f.message, f.computed_at,
			p.sku  AS product_sku,
			p.name AS product_name,
			w.name AS warehouse_name
		FROM inventory_risk_flags f
		JOIN products p ON p.id = f.product_id
		JOIN warehouses w ON w.id = f.warehouse_id
		WHERE 1=1
	`

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.WarehouseID != nil {
		conditions = append(conditions, fmt.Sprintf("f.warehouse_id = $%d", argCounter))
		args = append(args, *filter.WarehouseID)
		argCounter++
	}

	if filter.FlagType != "" {
		conditions = append(conditions, fmt.Sprintf("f.flag_type = $%d", argCounter))
		args = append(args, filter.FlagType)
		argCounter++
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += `
		ORDER BY
			CASE f.severity
				WHEN 'critical' THEN 0
				WHEN 'high' THEN 1
				ELSE 2
			END,
			p.name, f.warehouse_id
	`

	flags := make([]domain.InventoryRiskFlag, 0)
	if err := r.db.SelectContext(ctx, &flags, query, args...); err != nil {
		return nil, domain.PersistenceErr(err, "failed to list risk flags")
	}

	return flags, nil
}

func (r *forecastRepository) GetSummary(ctx context.Context) (*domain.InsightsSummary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM inventory_forecasts WHERE risk_level IN ('high', 'critical')) AS at_risk_count,
			(SELECT COUNT(*) FROM inventory_risk_flags WHERE flag_type = 'DEAD_STOCK')          AS dead_stock_count,
			(SELECT COUNT(*) FROM inventory_risk_flags WHERE flag_type = 'OVERSTOCK')           AS overstock_count
	`

	var summary domain.InsightsSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, domain.PersistenceErr(err, "failed to load insights summary")
	}

	return &summary, nil
}
