// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/opslane/inventory-engine/internal/api/handlers"
	"github.com/opslane/inventory-engine/internal/api/middleware"
	"github.com/opslane/inventory-engine/internal/service"
)

type Services struct {
	Insights    *service.InsightService
	Suggestions *service.SuggestionService
	Purchasing  *service.PurchasingService
	Policies    *service.PolicyService
	Ledger      *service.LedgerService
	Catalog     *service.CatalogService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Insights != nil {
			insightHandler := handlers.NewInsightHandler(services.Insights)
			insightGroup := apiGroup.Group("/insights")
			{
				insightGroup.POST("/recalculate", insightHandler.Recalculate)
				insightGroup.GET("/forecasts", insightHandler.GetForecasts)
				insightGroup.GET("/risk-flags", insightHandler.GetRiskFlags)
				insightGroup.GET("/summary", insightHandler.GetSummary)
			}
		}

		if services.Suggestions != nil && services.Purchasing != nil {
			suggestionHandler := handlers.NewSuggestionHandler(services.Suggestions, services.Purchasing)
			apiGroup.GET("/suggestions", suggestionHandler.GetSuggestions)
			apiGroup.POST("/purchase-orders/draft", suggestionHandler.CreateDraftPOs)
		}

		if services.Purchasing != nil {
			poHandler := handlers.NewPOHandler(services.Purchasing)
			poGroup := apiGroup.Group("/purchase-orders")
			{
				poGroup.GET("", poHandler.ListOrders)
				poGroup.GET("/:id", poHandler.GetOrder)
				poGroup.POST("/items/:id/receive", poHandler.ReceiveItem)
				poGroup.PUT("/:id/status", poHandler.UpdateStatus)
			}
		}

		if services.Policies != nil {
			policyHandler := handlers.NewPolicyHandler(services.Policies)
			apiGroup.POST("/policies", policyHandler.Upsert)
			apiGroup.GET("/policies", policyHandler.List)
		}

		if services.Ledger != nil {
			movementHandler := handlers.NewMovementHandler(services.Ledger)
			apiGroup.POST("/movements", movementHandler.Record)
			apiGroup.GET("/movements", movementHandler.History)
		}

		if services.Catalog != nil {
			catalogHandler := handlers.NewCatalogHandler(services.Catalog)
			apiGroup.GET("/warehouses", catalogHandler.ListWarehouses)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
