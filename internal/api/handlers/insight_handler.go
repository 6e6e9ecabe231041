package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opslane/inventory-engine/internal/domain"
	"github.com/opslane/inventory-engine/internal/service"
)

type InsightHandler struct {
	insights *service.InsightService
}

func NewInsightHandler(insights *service.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Recalculate rebuilds the materialized forecasts and risk flags, for one
// warehouse when warehouse_id is given, otherwise for all.
func (h *InsightHandler) Recalculate(c *gin.Context) {
	warehouseID, err := parseInt64Query(c, "warehouse_id")
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.insights.Recalculate(c.Request.Context(), domain.RecalcScope{WarehouseID: warehouseID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetForecasts returns the materialized forecast rows
func (h *InsightHandler) GetForecasts(c *gin.Context) {
	warehouseID, err := parseInt64Query(c, "warehouse_id")
	if err != nil {
		respondError(c, err)
		return
	}

	filter := domain.ForecastFilter{
		WarehouseID: warehouseID,
		RiskLevel:   domain.RiskLevel(strings.ToLower(strings.TrimSpace(c.Query("risk_level")))),
		Search:      strings.TrimSpace(c.Query("search")),
	}

	forecasts, err := h.insights.Forecasts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"forecasts": forecasts, "count": len(forecasts)})
}

// GetRiskFlags returns the materialized dead stock and overstock flags
func (h *InsightHandler) GetRiskFlags(c *gin.Context) {
	warehouseID, err := parseInt64Query(c, "warehouse_id")
	if err != nil {
		respondError(c, err)
		return
	}

	filter := domain.RiskFlagFilter{
		WarehouseID: warehouseID,
		FlagType:    domain.FlagType(strings.ToUpper(strings.TrimSpace(c.Query("flag_type")))),
	}

	flags, err := h.insights.RiskFlags(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flags": flags, "count": len(flags)})
}

// GetSummary returns the dashboard aggregate
func (h *InsightHandler) GetSummary(c *gin.Context) {
	summary, err := h.insights.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
