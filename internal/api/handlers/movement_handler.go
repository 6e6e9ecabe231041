package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/service"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("movementtype", func(fl validator.FieldLevel) bool {
			return domain.MovementType(fl.Field().String()).Valid()
		})
	}
}

type MovementHandler struct {
	ledger *service.LedgerService
}

func NewMovementHandler(ledger *service.LedgerService) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

type movementRequest struct {
	ProductID      int64      `json:"product_id" binding:"required,gt=0"`
	WarehouseID    int64      `json:"warehouse_id" binding:"required,gt=0"`
	QuantityChange int64      `json:"quantity_change" binding:"required"`
	MovementType   string     `json:"movement_type" binding:"required,movementtype"`
	ReferenceType  string     `json:"reference_type" binding:"max=50"`
	ReferenceID    *int64     `json:"reference_id" binding:"omitempty,gt=0"`
	Reason         string     `json:"reason" binding:"max=500"`
	ActorID        string     `json:"actor_id" binding:"max=100"`
	OccurredAt     *time.Time `json:"occurred_at"`
}

// Record appends a movement to the ledger and updates the stock position
func (h *MovementHandler) Record(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body: %v", err))
		return
	}

	movement := &domain.InventoryMovement{
		ProductID:      req.ProductID,
		WarehouseID:    req.WarehouseID,
		QuantityChange: req.QuantityChange,
		Type:           domain.MovementType(req.MovementType),
		ReferenceType:  req.ReferenceType,
		ReferenceID:    req.ReferenceID,
		Reason:         req.Reason,
		ActorID:        req.ActorID,
	}
	if req.OccurredAt != nil {
		movement.OccurredAt = req.OccurredAt.UTC()
	}

	if err := h.ledger.Record(c.Request.Context(), movement); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movement)
}

// History lists recent movements for a (product, warehouse) pair
func (h *MovementHandler) History(c *gin.Context) {
	productID, err := parseInt64Query(c, "product_id")
	if err != nil {
		respondError(c, err)
		return
	}
	warehouseID, err := parseInt64Query(c, "warehouse_id")
	if err != nil {
		respondError(c, err)
		return
	}
	if productID == nil || warehouseID == nil {
		respondError(c, domain.Validationf("product_id and warehouse_id are required"))
		return
	}

	limit := parsePositiveIntWithDefault(c.Query("limit"), 50)
	movements, err := h.ledger.History(c.Request.Context(), *productID, *warehouseID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements, "count": len(movements)})
}
