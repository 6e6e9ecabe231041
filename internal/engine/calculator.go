package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/opslane/inventory-engine/internal/domain"
)

// stockoutCoverDays is the days-of-cover window at or below which a pair with
// positive stock is graded high risk.
const stockoutCoverDays = 3

// Calculator derives forecasts and risk flags for a (product, warehouse)
// pair from its ledger projection and resolved policy.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator, filling missing config with defaults.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg.withDefaults()}
}

// Assess computes the full per-pair assessment as of the given time.
func (c *Calculator) Assess(snap *PairSnapshot, asOf time.Time) Assessment {
	a := Assessment{}

	// 1. Average daily usage over the trailing window. Zero movements mean
	// usage is unknown-zero: days until runout stays nil, never a divide.
	usage := float64(snap.Stats.OutboundQty) / float64(c.cfg.LookbackDays)
	if usage < 0 {
		usage = 0
	}
	a.AvgDailyUsage = usage

	available := snap.Stats.Available()

	// 2. Effective policy: reorder point, target stock, rounding bounds
	resolved := c.ResolvePolicy(snap.Policy, usage)
	a.ReorderPoint = resolved.ReorderPoint
	a.TargetStock = resolved.TargetStock

	// 3. Days until runout
	if usage > 0 {
		days := int(math.Floor(float64(available) / usage))
		if days < 0 {
			days = 0
		}
		a.DaysUntilRunout = &days
	}

	// 4. Stockout risk
	a.StockoutRisk = classifyStockout(available, usage, resolved.ReorderPoint)
	a.Suggestion = suggestionText(a.StockoutRisk, a.DaysUntilRunout)

	// 5. Suggested reorder quantity against the target, rounded up to the
	// policy multiple and clamped to max_qty when set
	a.SuggestedQty = suggestedQty(resolved, available)

	// 6. Dead stock needs movement history to measure staleness against
	if snap.Stats.MovementCount > 0 && snap.Stats.LastMovementAt != nil {
		idle := int(asOf.Sub(*snap.Stats.LastMovementAt).Hours() / 24)
		if idle >= c.cfg.DeadStockDays {
			a.DeadStock = &FlagAssessment{
				Severity:            deadStockSeverity(idle),
				DaysWithoutMovement: idle,
				Message:             fmt.Sprintf("No stock movement for %d days", idle),
			}
		}
	}

	// 7. Overstock relative to the days-of-cover target
	if usage > 0 {
		target := float64(resolved.DaysOfCover) * usage
		if target > 0 && float64(available) > target*c.cfg.OverstockMultiplier {
			ratio := float64(available) / target
			a.Overstock = &FlagAssessment{
				Severity: overstockSeverity(ratio, c.cfg.OverstockMultiplier),
				Message: fmt.Sprintf("Available stock covers %.0f days against a %d-day target",
					float64(available)/usage, resolved.DaysOfCover),
			}
		}
	}

	return a
}

func classifyStockout(available int64, usage float64, reorderPoint int64) domain.RiskLevel {
	if available <= 0 {
		return domain.RiskCritical
	}
	if usage > 0 && float64(available)/usage <= stockoutCoverDays {
		return domain.RiskHigh
	}
	if available <= reorderPoint {
		return domain.RiskMedium
	}
	if float64(available) <= 1.5*float64(reorderPoint) {
		return domain.RiskLow
	}
	return domain.RiskNone
}

func suggestionText(risk domain.RiskLevel, daysUntilRunout *int) string {
	switch risk {
	case domain.RiskCritical:
		return "Out of stock, reorder immediately"
	case domain.RiskHigh:
		if daysUntilRunout != nil {
			return fmt.Sprintf("Stock runs out in about %d days, reorder now", *daysUntilRunout)
		}
		return "Stock nearly depleted, reorder now"
	case domain.RiskMedium:
		return "Below reorder point, restock soon"
	case domain.RiskLow:
		return "Approaching reorder point"
	}
	return "Stock level healthy"
}

func deadStockSeverity(idleDays int) domain.RiskLevel {
	switch {
	case idleDays >= 365:
		return domain.RiskCritical
	case idleDays >= 150:
		return domain.RiskHigh
	}
	return domain.RiskMedium
}

func overstockSeverity(ratio, multiplier float64) domain.RiskLevel {
	switch {
	case ratio >= 3*multiplier:
		return domain.RiskCritical
	case ratio >= 2*multiplier:
		return domain.RiskHigh
	}
	return domain.RiskMedium
}
