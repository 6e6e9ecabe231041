package engine

import "github.com/opslane/inventory-engine/internal/domain"

// Config holds the classification thresholds and defaults.
type Config struct {
	LookbackDays        int
	DeadStockDays       int
	OverstockMultiplier float64
	DefaultDaysOfCover  int
}

// DefaultConfig returns the reference policy: 30-day consumption window,
// 90-day dead stock cutoff, 3x overstock multiplier, 14 days of cover.
func DefaultConfig() Config {
	return Config{
		LookbackDays:        30,
		DeadStockDays:       90,
		OverstockMultiplier: 3,
		DefaultDaysOfCover:  14,
	}
}

func (c Config) withDefaults() Config {
	if c.LookbackDays <= 0 {
		c.LookbackDays = 30
	}
	if c.DeadStockDays <= 0 {
		c.DeadStockDays = 90
	}
	if c.OverstockMultiplier <= 0 {
		c.OverstockMultiplier = 3
	}
	if c.DefaultDaysOfCover <= 0 {
		c.DefaultDaysOfCover = 14
	}
	return c
}

// PairSnapshot is the forecasting input for one (product, warehouse) pair:
// the ledger projection plus the best-match reorder policy (nil when no
// policy row exists).
type PairSnapshot struct {
	ProductID   int64
	WarehouseID int64
	Stats       domain.PairStats
	Policy      *domain.ReorderPolicy
}

// FlagAssessment describes one emitted risk flag
type FlagAssessment struct {
	Severity            domain.RiskLevel
	DaysWithoutMovement int
	Message             string
}

// Assessment is the full per-pair forecasting output.
type Assessment struct {
	AvgDailyUsage   float64
	DaysUntilRunout *int
	StockoutRisk    domain.RiskLevel
	ReorderPoint    int64
	TargetStock     int64
	SuggestedQty    int64
	Suggestion      string
	DeadStock       *FlagAssessment
	Overstock       *FlagAssessment
}

// ResolvedPolicy is the effective restocking policy after merging a policy
// row with engine defaults.
type ResolvedPolicy struct {
	MinQty       int64
	MaxQty       *int64
	Multiple     int64
	DaysOfCover  int
	Auto         bool
	ReorderPoint int64
	TargetStock  int64
}
