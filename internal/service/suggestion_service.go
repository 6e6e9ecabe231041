package service

import (
	"context"
	"time"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/engine"
	"github.com/opslane/inventory-engine/internal/repository"
)

// SuggestionReport is the on-demand reorder suggestion set. Totals cover the
// returned lines only, after filtering.
type SuggestionReport struct {
	Suggestions        []domain.ReorderSuggestion `json:"suggestions"`
	TotalEstimatedCost float64                    `json:"total_estimated_cost"`
	MissingSupplier    int                        `json:"missing_supplier_count"`
	GeneratedAt        time.Time                  `json:"generated_at"`
}

// SuggestionService computes reorder suggestions live from the ledger; nothing
// it produces is persisted.
type SuggestionService struct {
	ledger   repository.StockLedgerRepository
	policies repository.PolicyRepository
	catalog  repository.CatalogRepository
	calc     *engine.Calculator
	lookback int
}

func NewSuggestionService(
	ledger repository.StockLedgerRepository,
	policies repository.PolicyRepository,
	catalog repository.CatalogRepository,
	calc *engine.Calculator,
	lookbackDays int,
) *SuggestionService {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &SuggestionService{
		ledger:   ledger,
		policies: policies,
		catalog:  catalog,
		calc:     calc,
		lookback: lookbackDays,
	}
}

// Calculate builds the suggestion set for the filter. A pair is suggested when
// its available stock sits below the policy target, i.e. the engine proposes a
// positive quantity.
func (s *SuggestionService) Calculate(ctx context.Context, filter domain.SuggestionFilter) (*SuggestionReport, error) {
	asOf := time.Now().UTC()
	since := asOf.AddDate(0, 0, -s.lookback)

	pairs, err := s.ledger.ListPairs(ctx, domain.RecalcScope{WarehouseID: filter.WarehouseID})
	if err != nil {
		return nil, err
	}

	type candidate struct {
		key domain.PairKey
		a   engine.Assessment
		av  int64
	}
	candidates := make([]candidate, 0)
	for _, pair := range pairs {
		stats, err := s.ledger.GetPairStats(ctx, pair.ProductID, pair.WarehouseID, since)
		if err != nil {
			return nil, err
		}
		policy, err := s.policies.Resolve(ctx, pair.ProductID, pair.WarehouseID)
		if err != nil {
			return nil, err
		}

		a := s.calc.Assess(&engine.PairSnapshot{
			ProductID:   pair.ProductID,
			WarehouseID: pair.WarehouseID,
			Stats:       *stats,
			Policy:      policy,
		}, asOf)
		if a.SuggestedQty <= 0 {
			continue
		}
		candidates = append(candidates, candidate{key: pair, a: a, av: stats.Available()})
	}

	productIDs := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		productIDs = append(productIDs, c.key.ProductID)
	}
	refs, err := s.catalog.GetProductRefs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	report := &SuggestionReport{
		Suggestions: make([]domain.ReorderSuggestion, 0, len(candidates)),
		GeneratedAt: asOf,
	}
	for _, c := range candidates {
		ref := refs[c.key.ProductID]

		if ref.SupplierID == nil {
			report.MissingSupplier++
			if filter.OnlyWithSupplier {
				continue
			}
		}
		if filter.SupplierID != nil && (ref.SupplierID == nil || *ref.SupplierID != *filter.SupplierID) {
			continue
		}

		lineTotal := float64(c.a.SuggestedQty) * ref.UnitCost
		report.Suggestions = append(report.Suggestions, domain.ReorderSuggestion{
			ProductID:    c.key.ProductID,
			WarehouseID:  c.key.WarehouseID,
			ProductSKU:   ref.SKU,
			ProductName:  ref.Name,
			SupplierID:   ref.SupplierID,
			SupplierName: ref.SupplierName,
			RiskLevel:    c.a.StockoutRisk,
			Available:    c.av,
			ReorderPoint: c.a.ReorderPoint,
			SuggestedQty: c.a.SuggestedQty,
			UnitCost:     ref.UnitCost,
			LineTotal:    lineTotal,
		})
		report.TotalEstimatedCost += lineTotal
	}

	return report, nil
}
