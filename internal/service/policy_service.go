package service

import (
	"context"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/repository"
	"github.com/opslane/inventory-engine/pkg/logger"
)

// PolicyService manages reorder policies.
type PolicyService struct {
	policies repository.PolicyRepository
}

func NewPolicyService(policies repository.PolicyRepository) *PolicyService {
	return &PolicyService{policies: policies}
}

// Upsert validates and saves a policy; an existing row for the same
// (product, warehouse) scope is overwritten.
func (s *PolicyService) Upsert(ctx context.Context, p *domain.ReorderPolicy) error {
	if p.ProductID <= 0 {
		return domain.Validationf("product_id is required")
	}
	if p.MinQty < 0 {
		return domain.Validationf("min_qty must not be negative")
	}
	if p.MaxQty != nil && *p.MaxQty < p.MinQty {
		return domain.Validationf("max_qty %d is below min_qty %d", *p.MaxQty, p.MinQty)
	}
	if p.Multiple < 0 {
		return domain.Validationf("multiple must not be negative")
	}
	if p.DaysOfCover <= 0 {
		return domain.Validationf("days_of_cover must be positive")
	}

	if err := s.policies.Create(ctx, p); err != nil {
		return err
	}

	logger.Log.Info().
		Int64("product_id", p.ProductID).
		Msg("reorder policy saved")
	return nil
}

func (s *PolicyService) List(ctx context.Context, productID *int64) ([]domain.ReorderPolicy, error) {
	return s.policies.List(ctx, productID)
}
