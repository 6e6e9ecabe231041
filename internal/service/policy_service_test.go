package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opslane/inventory-engine/internal/domain"
)

func TestPolicyUpsert(t *testing.T) {
	repo := new(MockPolicyRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewPolicyService(repo)
	policy := &domain.ReorderPolicy{
		ProductID:   1,
		MinQty:      10,
		MaxQty:      int64p(100),
		Multiple:    12,
		DaysOfCover: 14,
	}

	require.NoError(t, svc.Upsert(context.Background(), policy))
	repo.AssertExpectations(t)
}

func TestPolicyUpsertValidation(t *testing.T) {
	repo := new(MockPolicyRepository)
	svc := NewPolicyService(repo)

	tests := []struct {
		name   string
		policy domain.ReorderPolicy
	}{
		{"missing product", domain.ReorderPolicy{DaysOfCover: 14}},
		{"negative min", domain.ReorderPolicy{ProductID: 1, MinQty: -1, DaysOfCover: 14}},
		{"max below min", domain.ReorderPolicy{ProductID: 1, MinQty: 50, MaxQty: int64p(10), DaysOfCover: 14}},
		{"negative multiple", domain.ReorderPolicy{ProductID: 1, Multiple: -2, DaysOfCover: 14}},
		{"zero days of cover", domain.ReorderPolicy{ProductID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.policy
			err := svc.Upsert(context.Background(), &p)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
