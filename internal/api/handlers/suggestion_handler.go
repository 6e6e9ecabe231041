package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/service"
)

type SuggestionHandler struct {
	suggestions *service.SuggestionService
	purchasing  *service.PurchasingService
}

func NewSuggestionHandler(suggestions *service.SuggestionService, purchasing *service.PurchasingService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, purchasing: purchasing}
}

func (h *SuggestionHandler) parseFilter(c *gin.Context) (domain.SuggestionFilter, error) {
	warehouseID, err := parseInt64Query(c, "warehouse_id")
	if err != nil {
		return domain.SuggestionFilter{}, err
	}
	supplierID, err := parseInt64Query(c, "supplier_id")
	if err != nil {
		return domain.SuggestionFilter{}, err
	}

	return domain.SuggestionFilter{
		WarehouseID:      warehouseID,
		SupplierID:       supplierID,
		OnlyWithSupplier: c.Query("only_with_supplier") == "true",
	}, nil
}

// GetSuggestions computes the live reorder suggestion set
func (h *SuggestionHandler) GetSuggestions(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.suggestions.Calculate(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type draftPOLine struct {
	ProductID   int64   `json:"product_id" binding:"required,gt=0"`
	WarehouseID int64   `json:"warehouse_id" binding:"required,gt=0"`
	SupplierID  *int64  `json:"supplier_id" binding:"omitempty,gt=0"`
	ProductSKU  string  `json:"product_sku"`
	Quantity    int64   `json:"quantity" binding:"required,gt=0"`
	UnitCost    float64 `json:"unit_cost" binding:"gte=0"`
}

type draftPORequest struct {
	Suggestions []draftPOLine `json:"suggestions" binding:"required,min=1,dive"`
	Notes       string        `json:"notes" binding:"max=500"`
}

// CreateDraftPOs converts the suggestion lines the caller selected into draft
// purchase orders, one per supplier and warehouse.
func (h *SuggestionHandler) CreateDraftPOs(c *gin.Context) {
	var req draftPORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body: %v", err))
		return
	}

	suggestions := make([]domain.ReorderSuggestion, 0, len(req.Suggestions))
	for _, line := range req.Suggestions {
		suggestions = append(suggestions, domain.ReorderSuggestion{
			ProductID:    line.ProductID,
			WarehouseID:  line.WarehouseID,
			SupplierID:   line.SupplierID,
			ProductSKU:   line.ProductSKU,
			SuggestedQty: line.Quantity,
			UnitCost:     line.UnitCost,
		})
	}
	created, err := h.purchasing.GenerateDraftPOs(c.Request.Context(), suggestions, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"orders_created": created})
}
