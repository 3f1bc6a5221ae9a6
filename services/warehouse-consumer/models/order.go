package models

import "time"

// OrderCreatedEvent mirrors the message the storefront API publishes. Only
// the fields the warehouse needs are decoded.
type OrderCreatedEvent struct {
	EventID    string      `json:"event_id"`
	Order      Order       `json:"order"`
	Items      []OrderItem `json:"items"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type Order struct {
	ID           int    `json:"id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
}

type OrderItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}
