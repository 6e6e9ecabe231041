package engine

import (
	"math"

	"github.com/opslane/inventory-engine/internal/domain"
)

// ResolvePolicy merges a policy row with engine defaults. A nil policy means
// no row matched the pair: min 0, multiple 1, default days of cover, auto
// calculation on. With auto calculation the reorder point and target stock
// are both days_of_cover x avg daily usage; otherwise min_qty is
// authoritative for both.
func (c *Calculator) ResolvePolicy(policy *domain.ReorderPolicy, avgDailyUsage float64) ResolvedPolicy {
	r := ResolvedPolicy{
		MinQty:      0,
		Multiple:    1,
		DaysOfCover: c.cfg.DefaultDaysOfCover,
		Auto:        true,
	}

	if policy != nil {
		r.MinQty = policy.MinQty
		r.MaxQty = policy.MaxQty
		if policy.Multiple > 0 {
			r.Multiple = policy.Multiple
		}
		if policy.DaysOfCover > 0 {
			r.DaysOfCover = policy.DaysOfCover
		}
		r.Auto = policy.UseAutoCalculation
	}

	if r.Auto {
		target := int64(math.Ceil(float64(r.DaysOfCover) * avgDailyUsage))
		r.TargetStock = target
		r.ReorderPoint = target
	} else {
		r.TargetStock = r.MinQty
		r.ReorderPoint = r.MinQty
	}

	return r
}

// suggestedQty computes the restock quantity: the deficit against target
// stock, rounded up to the policy multiple, clamped to max_qty when set.
func suggestedQty(p ResolvedPolicy, available int64) int64 {
	deficit := p.TargetStock - available
	if deficit <= 0 {
		return 0
	}

	qty := roundUpToMultiple(deficit, p.Multiple)
	if p.MaxQty != nil && qty > *p.MaxQty {
		qty = *p.MaxQty
	}
	if qty < 0 {
		qty = 0
	}
	return qty
}

func roundUpToMultiple(v, multiple int64) int64 {
	if multiple <= 1 {
		return v
	}
	rem := v % multiple
	if rem == 0 {
		return v
	}
	return v + multiple - rem
}
