package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"reflect"
	"net/http"
	"strconv"

	"storefront/services/storefront-api/models"
	"storefront/services/storefront-api/orders"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *orders.Service
}

func NewOrderHandler(svc *orders.Service) *OrderHandler {
	return &OrderHandler{orders: svc}
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.orders.ListOrders(c.Request.Context()))
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Error fetching order")
		return
	}

	c.JSON(http.StatusOK, models.OrderWithItems{
		Order: order,
		Items: h.orders.GetOrderItems(c.Request.Context(), id),
	})
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid order data",
			Details: err.Error(),
			Errors:  bindErrors(err),
		})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Error creating order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Status is required",
			Details: err.Error(),
			Errors:  bindErrors(err),
		})
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err, "Error updating order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// GetOrderItems handles GET /api/orders/{orderId}/items
func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.orders.GetOrderItems(c.Request.Context(), id))
}

// writeError maps service errors onto status codes. Anything unrecognised
// is logged and answered with a generic 500.
func (h *OrderHandler) writeError(c *gin.Context, err error, fallback string) {
	var verr *orders.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: verr.Message,
			Errors:  verr.Fields,
		})
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Order not found",
		})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: fallback,
		})
	}
}

// parseID reads a positive integer path parameter, answering 400 when it is not one.
func parseID(c *gin.Context, param, message string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: message,
			Details: "ID must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// bindErrors turns a JSON decoding failure into field errors. Type mismatches
// are reported against their JSON path; anything else is reported on "body".
func bindErrors(err error) []models.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []models.FieldError{{
			Field:   typeErr.Field,
			Message: "must be " + jsonKind(typeErr.Type),
		}}
	}

	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return []models.FieldError{{Field: "body", Message: "is required"}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []models.FieldError{{Field: "body", Message: "must be valid JSON"}}
	case errors.As(err, &typeErr):
		return []models.FieldError{{Field: "body", Message: "must be " + jsonKind(typeErr.Type)}}
	default:
		return []models.FieldError{{Field: "body", Message: err.Error()}}
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a valid value"
	}
}
