package handlers

import (
	"net/http"
	"strconv"

	"storefront/services/storefront-api/models"
	"storefront/services/storefront-api/store"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the read-only catalog.
type CatalogHandler struct {
	store *store.Store
}

func NewCatalogHandler(s *store.Store) *CatalogHandler {
	return &CatalogHandler{store: s}
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Categories())
}

// GetCategory handles GET /api/categories/{id}
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid category ID")
	if !ok {
		return
	}
	category, exists := h.store.Category(id)
	if !exists {
		notFound(c, "Category not found")
		return
	}
	c.JSON(http.StatusOK, category)
}

// ListProducts handles GET /api/products?category={id}&featured=true
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		categoryID, err := strconv.Atoi(category)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "INVALID_INPUT",
				Message: "Invalid category ID",
			})
			return
		}
		c.JSON(http.StatusOK, h.store.ProductsByCategory(categoryID))
		return
	}

	if c.Query("featured") == "true" {
		c.JSON(http.StatusOK, h.store.FeaturedProducts())
		return
	}

	c.JSON(http.StatusOK, h.store.Products())
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid product ID")
	if !ok {
		return
	}
	product, exists := h.store.Product(id)
	if !exists {
		notFound(c, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListLocations handles GET /api/locations
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Locations())
}

// GetLocation handles GET /api/locations/{id}
func (h *CatalogHandler) GetLocation(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid location ID")
	if !ok {
		return
	}
	location, exists := h.store.Location(id)
	if !exists {
		notFound(c, "Location not found")
		return
	}
	c.JSON(http.StatusOK, location)
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "NOT_FOUND",
		Message: message,
	})
}
