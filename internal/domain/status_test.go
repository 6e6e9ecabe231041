package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePOStatus(t *testing.T) {
	s, ok := ParsePOStatus("draft")
	assert.True(t, ok)
	assert.Equal(t, POStatusDraft, s)

	s, ok = ParsePOStatus("  In_Transit ")
	assert.True(t, ok)
	assert.Equal(t, POStatusInTransit, s)

	s, ok = ParsePOStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, POStatusCancelled, s)

	_, ok = ParsePOStatus("bogus")
	assert.False(t, ok)
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from POStatus
		to   POStatus
		want bool
	}{
		{"draft to placed", POStatusDraft, POStatusPlaced, true},
		{"skipping ahead is allowed", POStatusDraft, POStatusShipped, true},
		{"placed to received", POStatusPlaced, POStatusReceived, true},
		{"received to closed", POStatusReceived, POStatusClosed, true},
		{"no backward moves", POStatusShipped, POStatusPlaced, false},
		{"no self transition", POStatusPlaced, POStatusPlaced, false},
		{"cancel before receipt", POStatusInTransit, POStatusCancelled, true},
		{"cannot cancel after receipt", POStatusReceived, POStatusCancelled, false},
		{"cannot cancel a closed order", POStatusClosed, POStatusCancelled, false},
		{"cancelled is terminal", POStatusCancelled, POStatusPlaced, false},
		{"cancelled cannot close", POStatusCancelled, POStatusClosed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
