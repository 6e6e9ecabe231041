package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opslane/inventory-engine/internal/domain"
)

func TestLedgerRecord(t *testing.T) {
	repo := new(MockStockLedgerRepository)
	cache := &fakeCache{summary: &domain.InsightsSummary{}}

	movement := &domain.InventoryMovement{
		ProductID:      1,
		WarehouseID:    1,
		QuantityChange: -5,
		Type:           domain.MovementSale,
	}
	repo.On("ApplyMovement", mock.Anything, movement).Return(nil)

	svc := NewLedgerService(repo, cache)
	require.NoError(t, svc.Record(context.Background(), movement))

	assert.Equal(t, 1, cache.invalidated)
	repo.AssertExpectations(t)
}

func TestLedgerRecordValidation(t *testing.T) {
	repo := new(MockStockLedgerRepository)
	svc := NewLedgerService(repo, &fakeCache{})

	err := svc.Record(context.Background(), &domain.InventoryMovement{
		QuantityChange: -5,
		Type:           domain.MovementSale,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	repo.AssertNotCalled(t, "ApplyMovement", mock.Anything, mock.Anything)
}

func TestLedgerHistoryValidation(t *testing.T) {
	repo := new(MockStockLedgerRepository)
	svc := NewLedgerService(repo, &fakeCache{})

	_, err := svc.History(context.Background(), 0, 1, 10)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
