package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing the caller's if present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// NewRouter wires the catalog and order routes onto engine.
func NewRouter(engine *gin.Engine, catalog *CatalogHandler, orders *OrderHandler) *gin.Engine {
	engine.Use(RequestID())

	api := engine.Group("/api")

	api.GET("/categories", catalog.ListCategories)
	api.GET("/categories/:id", catalog.GetCategory)
	api.GET("/products", catalog.ListProducts)
	api.GET("/products/:id", catalog.GetProduct)
	api.GET("/locations", catalog.ListLocations)
	api.GET("/locations/:id", catalog.GetLocation)

	api.GET("/orders", orders.ListOrders)
	api.POST("/orders", orders.CreateOrder)
	api.GET("/orders/:id", orders.GetOrder)
	api.PATCH("/orders/:id/status", orders.UpdateOrderStatus)
	api.GET("/orders/:id/items", orders.GetOrderItems)

	// Health check
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	return engine
}
