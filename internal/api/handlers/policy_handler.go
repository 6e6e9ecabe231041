package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/service"
)

type PolicyHandler struct {
	policies *service.PolicyService
}

func NewPolicyHandler(policies *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policies: policies}
}

type policyRequest struct {
	ProductID          int64  `json:"product_id" binding:"required,gt=0"`
	WarehouseID        *int64 `json:"warehouse_id" binding:"omitempty,gt=0"`
	MinQty             int64  `json:"min_qty" binding:"gte=0"`
	MaxQty             *int64 `json:"max_qty" binding:"omitempty,gt=0"`
	Multiple           int64  `json:"multiple" binding:"gte=0"`
	DaysOfCover        int    `json:"days_of_cover" binding:"required,gt=0"`
	UseAutoCalculation bool   `json:"use_auto_calculation"`
}

// Upsert creates or overwrites the policy for a (product, warehouse) scope
func (h *PolicyHandler) Upsert(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body: %v", err))
		return
	}

	policy := &domain.ReorderPolicy{
		ProductID:          req.ProductID,
		WarehouseID:        req.WarehouseID,
		MinQty:             req.MinQty,
		MaxQty:             req.MaxQty,
		Multiple:           req.Multiple,
		DaysOfCover:        req.DaysOfCover,
		UseAutoCalculation: req.UseAutoCalculation,
	}
	if err := h.policies.Upsert(c.Request.Context(), policy); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, policy)
}

// List returns policies, optionally for one product
func (h *PolicyHandler) List(c *gin.Context) {
	productID, err := parseInt64Query(c, "product_id")
	if err != nil {
		respondError(c, err)
		return
	}

	policies, err := h.policies.List(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"policies": policies, "count": len(policies)})
}
