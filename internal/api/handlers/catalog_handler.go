package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opslane/inventory-engine/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListWarehouses returns the warehouses usable as a scope filter
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.catalog.Warehouses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warehouses": warehouses, "count": len(warehouses)})
}
