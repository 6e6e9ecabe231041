package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/service"
)

type POHandler struct {
	purchasing *service.PurchasingService
}

func NewPOHandler(purchasing *service.PurchasingService) *POHandler {
	return &POHandler{purchasing: purchasing}
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s value %q", name, c.Param(name))
	}
	return id, nil
}

// ListOrders returns purchase orders, optionally filtered by status
func (h *POHandler) ListOrders(c *gin.Context) {
	orders, err := h.purchasing.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetOrder returns one purchase order with its lines
func (h *POHandler) GetOrder(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	order, items, err := h.purchasing.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

type receiveRequest struct {
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	ActorID  string `json:"actor_id" binding:"max=100"`
}

// ReceiveItem records a receipt against a purchase order line
func (h *POHandler) ReceiveItem(c *gin.Context) {
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body: %v", err))
		return
	}

	result, err := h.purchasing.Receive(c.Request.Context(), itemID, req.Quantity, req.ActorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus advances a purchase order through its lifecycle
func (h *POHandler) UpdateStatus(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.Validationf("invalid request body: %v", err))
		return
	}

	if err := h.purchasing.UpdateStatus(c.Request.Context(), orderID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": req.Status})
}
