package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opslane/inventory-engine/internal/domain"
)

func snapshot(onHand, reserved, outbound, movements int64, last *time.Time) *PairSnapshot {
	return &PairSnapshot{
		ProductID:   1,
		WarehouseID: 1,
		Stats: domain.PairStats{
			ProductID:      1,
			WarehouseID:    1,
			OnHand:         onHand,
			Reserved:       reserved,
			OutboundQty:    outbound,
			MovementCount:  movements,
			LastMovementAt: last,
		},
	}
}

func daysAgo(asOf time.Time, days int) *time.Time {
	t := asOf.AddDate(0, 0, -days)
	return &t
}

func TestAssessStockoutRisk(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name     string
		onHand   int64
		reserved int64
		outbound int64
		want     domain.RiskLevel
	}{
		// usage = outbound / 30 days; no policy row, so reorder point is
		// ceil(14 * usage)
		{"zero available is critical", 0, 0, 60, domain.RiskCritical},
		{"reserved can exhaust availability", 5, 5, 60, domain.RiskCritical},
		{"runs out within three days", 4, 0, 60, domain.RiskHigh},
		{"below reorder point", 10, 0, 30, domain.RiskMedium},
		{"approaching reorder point", 20, 0, 30, domain.RiskLow},
		{"healthy", 30, 0, 30, domain.RiskNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot(tt.onHand, tt.reserved, tt.outbound, 10, daysAgo(asOf, 1))
			a := calc.Assess(snap, asOf)
			assert.Equal(t, tt.want, a.StockoutRisk)
		})
	}
}

func TestAssessDaysUntilRunout(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(DefaultConfig())

	// 60 outbound over 30 days = 2/day, 4 available = 2 days
	a := calc.Assess(snapshot(5, 1, 60, 10, daysAgo(asOf, 1)), asOf)
	require.NotNil(t, a.DaysUntilRunout)
	assert.Equal(t, 2, *a.DaysUntilRunout)
	assert.Equal(t, 2.0, a.AvgDailyUsage)

	// no consumption in the window: runout is undefined, not zero
	a = calc.Assess(snapshot(5, 0, 0, 10, daysAgo(asOf, 1)), asOf)
	assert.Nil(t, a.DaysUntilRunout)
	assert.Equal(t, 0.0, a.AvgDailyUsage)

	// negative availability clamps to zero days rather than going negative
	a = calc.Assess(snapshot(2, 5, 60, 10, daysAgo(asOf, 1)), asOf)
	require.NotNil(t, a.DaysUntilRunout)
	assert.Equal(t, 0, *a.DaysUntilRunout)
}

func TestAssessNoHistory(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(DefaultConfig())

	a := calc.Assess(snapshot(10, 0, 0, 0, nil), asOf)

	assert.Equal(t, domain.RiskNone, a.StockoutRisk)
	assert.Nil(t, a.DaysUntilRunout)
	assert.Nil(t, a.DeadStock)
	assert.Nil(t, a.Overstock)
	assert.Zero(t, a.SuggestedQty)
}

func TestAssessDeadStock(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name     string
		idleDays int
		severity domain.RiskLevel
		flagged  bool
	}{
		{"under the cutoff", 89, "", false},
		{"at the cutoff", 90, domain.RiskMedium, true},
		{"stale for four months", 120, domain.RiskMedium, true},
		{"stale for five months", 150, domain.RiskHigh, true},
		{"stale for over a year", 400, domain.RiskCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot(10, 0, 0, 3, daysAgo(asOf, tt.idleDays))
			a := calc.Assess(snap, asOf)
			if !tt.flagged {
				assert.Nil(t, a.DeadStock)
				return
			}
			require.NotNil(t, a.DeadStock)
			assert.Equal(t, tt.severity, a.DeadStock.Severity)
			assert.Equal(t, tt.idleDays, a.DeadStock.DaysWithoutMovement)
		})
	}

	// a pair with no recorded movements is never dead stock, no matter how
	// long the position has existed
	a := calc.Assess(snapshot(10, 0, 0, 0, nil), asOf)
	assert.Nil(t, a.DeadStock)
}

func TestAssessOverstock(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(DefaultConfig())

	// usage 2/day, 14-day cover target = 28. Overstock starts above 3x.
	tests := []struct {
		name     string
		onHand   int64
		severity domain.RiskLevel
		flagged  bool
	}{
		{"within multiplier", 84, "", false},
		{"just above multiplier", 100, domain.RiskMedium, true},
		{"twice the multiplier", 200, domain.RiskHigh, true},
		{"three times the multiplier", 300, domain.RiskCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot(tt.onHand, 0, 60, 10, daysAgo(asOf, 1))
			a := calc.Assess(snap, asOf)
			if !tt.flagged {
				assert.Nil(t, a.Overstock)
				return
			}
			require.NotNil(t, a.Overstock)
			assert.Equal(t, tt.severity, a.Overstock.Severity)
			// a heavily overstocked pair still reports no stockout risk
			assert.Equal(t, domain.RiskNone, a.StockoutRisk)
		})
	}

	// without usage there is no cover target to compare against
	a := calc.Assess(snapshot(1000, 0, 0, 5, daysAgo(asOf, 10)), asOf)
	assert.Nil(t, a.Overstock)
}

func TestAssessSuggestionText(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator(DefaultConfig())

	a := calc.Assess(snapshot(0, 0, 60, 10, daysAgo(asOf, 1)), asOf)
	assert.Equal(t, "Out of stock, reorder immediately", a.Suggestion)

	a = calc.Assess(snapshot(4, 0, 60, 10, daysAgo(asOf, 1)), asOf)
	assert.Equal(t, "Stock runs out in about 2 days, reorder now", a.Suggestion)

	a = calc.Assess(snapshot(30, 0, 30, 10, daysAgo(asOf, 1)), asOf)
	assert.Equal(t, "Stock level healthy", a.Suggestion)
}
