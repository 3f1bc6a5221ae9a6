package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url,omitempty"`
	CategoryID int             `json:"category_id"`
	Featured   bool            `json:"featured"`
	Available  bool            `json:"available"`
}

type OrderItem struct {
	ID        int             `json:"id,omitempty"`
	OrderID   int             `json:"order_id,omitempty"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

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
	Items            []OrderItem     `json:"items,omitempty"`
}

type OrderRequest struct {
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    *string         `json:"customer_email,omitempty"`
	CustomerPhone    *string         `json:"customer_phone,omitempty"`
	PickupLocationID *int            `json:"pickup_location_id,omitempty"`
	PickupTime       *time.Time      `json:"pickup_time,omitempty"`
	Total            decimal.Decimal `json:"total"`
	Items            []OrderItem     `json:"items"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Message, e.StatusCode, strings.Join(parts, "; "))
}

type StorefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewStorefrontClient(baseURL string) *StorefrontClient {
	return &StorefrontClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetProduct fetches one catalog product.
func (c *StorefrontClient) GetProduct(ctx context.Context, id int) (Product, error) {
	var product Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &product)
	return product, err
}

// ListProducts lists products, narrowed to a category when categoryID > 0
// or to featured products when featured is set.
func (c *StorefrontClient) ListProducts(ctx context.Context, categoryID int, featured bool) ([]Product, error) {
	path := "/api/products"
	switch {
	case categoryID > 0:
		path = fmt.Sprintf("%s?category=%d", path, categoryID)
	case featured:
		path += "?featured=true"
	}
	var products []Product
	err := c.do(ctx, http.MethodGet, path, nil, &products)
	return products, err
}

// CreateOrder submits a checkout. The returned order does not embed items.
func (c *StorefrontClient) CreateOrder(ctx context.Context, req OrderRequest) (Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPost, "/api/orders", req, &order)
	return order, err
}

func (c *StorefrontClient) ListOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders)
	return orders, err
}

// GetOrder fetches an order with its items.
func (c *StorefrontClient) GetOrder(ctx context.Context, id int) (Order, error) {
	var order Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &order)
	return order, err
}

func (c *StorefrontClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call storefront API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string       `json:"message"`
			Errors  []FieldError `json:"errors"`
		}
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
			apiErr.Errors = errBody.Errors
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
