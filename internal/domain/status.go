package domain

import "strings"

// POStatus is a purchase order lifecycle state
type POStatus string

const (
	POStatusDraft     POStatus = "draft"
	POStatusPlaced    POStatus = "placed"
	POStatusPaid      POStatus = "paid"
	POStatusShipped   POStatus = "shipped"
	POStatusInTransit POStatus = "in_transit"
	POStatusArrived   POStatus = "arrived"
	POStatusReceived  POStatus = "received"
	POStatusClosed    POStatus = "closed"
	POStatusCancelled POStatus = "cancelled"
)

var poStatusRanks = map[POStatus]int{
	POStatusDraft:     0,
	POStatusPlaced:    1,
	POStatusPaid:      2,
	POStatusShipped:   3,
	POStatusInTransit: 4,
	POStatusArrived:   5,
	POStatusReceived:  6,
	POStatusClosed:    7,
}

// ParsePOStatus returns the status for a given label (case-insensitive).
func ParsePOStatus(label string) (POStatus, bool) {
	s := POStatus(strings.ToLower(strings.TrimSpace(label)))
	if s == POStatusCancelled {
		return s, true
	}
	if _, ok := poStatusRanks[s]; ok {
		return s, true
	}
	return "", false
}

// CanTransitionTo enforces the forward-only lifecycle. Skipping ahead is
// allowed; moving backward is not. Cancelled is reachable from any state
// before received, and is terminal.
func (s POStatus) CanTransitionTo(next POStatus) bool {
	if s == POStatusCancelled {
		return false
	}
	if next == POStatusCancelled {
		return poStatusRanks[s] < poStatusRanks[POStatusReceived]
	}
	from, ok := poStatusRanks[s]
	if !ok {
		return false
	}
	to, ok := poStatusRanks[next]
	if !ok {
		return false
	}
	return to > from
}
