package service

import (
	"context"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/repository"
)

// CatalogService exposes catalog reference data, the warehouse list backing
// the scope filters on forecasts and suggestions.
type CatalogService struct {
	catalog repository.CatalogRepository
}

func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) Warehouses(ctx context.Context) ([]domain.Warehouse, error) {
	return s.catalog.ListWarehouses(ctx)
}
