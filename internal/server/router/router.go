package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/server/handlers"
	"github.com/mamadbah2/stockledger/internal/server/middleware"
)

// NewInventory wires the inventory ledger routes. Requests without a valid
// API key get 401.
func NewInventory(handler *handlers.InventoryHandler, apiKey string, logger *zap.Logger) *gin.Engine {
	r := newEngine(logger)

	api := r.Group("/api/inventory", middleware.APIKey(apiKey, http.StatusUnauthorized))
	api.GET("/products/:productId", handler.Detail)
	api.GET("/products/:productId/movements", handler.Movements)
	api.POST("/products/:productId/deposit", handler.Deposit)
	api.POST("/products/:productId/withdrawal", handler.Withdraw)

	if logger != nil {
		logger.Info("inventory router initialized")
	}
	return r
}

// NewCatalog wires the product catalog routes. Requests without a valid API
// key get 403, which the inventory service reads as access denied.
func NewCatalog(handler *handlers.ProductHandler, apiKey string, logger *zap.Logger) *gin.Engine {
	r := newEngine(logger)

	api := r.Group("/api/products", middleware.APIKey(apiKey, http.StatusForbidden))
	api.POST("", handler.Create)
	api.GET("", handler.List)
	api.GET("/:id", handler.Get)
	api.PATCH("/:id", handler.Update)
	api.DELETE("/:id", handler.Delete)

	if logger != nil {
		logger.Info("catalog router initialized")
	}
	return r
}

func newEngine(logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}
