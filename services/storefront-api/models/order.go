package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a checkout record. Status is the only field changed after creation.
type Order struct {
	ID               int             `json:"id"`
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    *string         `json:"customer_email"`
	CustomerPhone    *string         `json:"customer_phone"`
	Total            decimal.Decimal `json:"total"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	PickupLocationID *int            `json:"pickup_location_id"`
	PickupTime       *time.Time      `json:"pickup_time"`
}

// OrderItem is one line of an order, priced at order time.
type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"order_id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderWithItems is the GET /api/orders/:id response body.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

type CreateOrderRequest struct {
	CustomerName     string             `json:"customer_name" validate:"required"`
	CustomerEmail    *string            `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone    *string            `json:"customer_phone" validate:"omitempty,min=7"`
	PickupLocationID *int               `json:"pickup_location_id" validate:"omitempty,gt=0"`
	PickupTime       *time.Time         `json:"pickup_time"`
	Total            *decimal.Decimal   `json:"total" validate:"required,nonnegative"`
	Status           string             `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
	Items            []OrderItemRequest `json:"items" validate:"dive"`
}

type OrderItemRequest struct {
	ProductID int              `json:"product_id" validate:"gt=0"`
	Quantity  int              `json:"quantity" validate:"gte=1"`
	Price     *decimal.Decimal `json:"price" validate:"required,nonnegative"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderCreatedEvent is published to the warehouse queue once an order is committed.
type OrderCreatedEvent struct {
	EventID    string      `json:"event_id"`
	Order      Order       `json:"order"`
	Items      []OrderItem `json:"items"`
	OccurredAt time.Time   `json:"occurred_at"`
}
