package orders

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"storefront/services/storefront-api/models"
	"storefront/services/storefront-api/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// EventPublisher delivers order events to downstream consumers.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event models.OrderCreatedEvent) error
}

type Service struct {
	store     *store.Store
	publisher EventPublisher
	validate  *validator.Validate
	now       func() time.Time
}

type Option func(*Service)

// WithPublisher publishes an OrderCreatedEvent after every committed order.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the source of created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder validates the request as a whole, then stores the order and
// its items in one step. Nothing is written when validation fails.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = nonEmpty(req.CustomerEmail)
	req.CustomerPhone = nonEmpty(req.CustomerPhone)

	if err := s.validateCreate(req); err != nil {
		return models.Order{}, err
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	order := models.Order{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		Total:            *req.Total,
		Status:           status,
		CreatedAt:        s.now().UTC(),
		PickupLocationID: req.PickupLocationID,
		PickupTime:       req.PickupTime,
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     *line.Price,
		})
	}

	order, items = s.store.CreateOrder(order, items)
	log.Printf("Created order %d for %q with %d items (total %s)", order.ID, order.CustomerName, len(items), order.Total)

	s.publishCreated(ctx, order, items)

	return order, nil
}

func (s *Service) publishCreated(ctx context.Context, order models.Order, items []models.OrderItem) {
	if s.publisher == nil {
		return
	}
	event := models.OrderCreatedEvent{
		EventID:    uuid.New().String(),
		Order:      order,
		Items:      items,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		// The order is already committed; the warehouse misses this event.
		log.Printf("Failed to publish order %d created event: %v", order.ID, err)
	}
}

// UpdateOrderStatus moves an order to a new status if the transition is allowed.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int, status string) (models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return models.Order{}, &ValidationError{
			Message: "Status is required",
			Fields:  []models.FieldError{{Field: "status", Message: "is required"}},
		}
	}
	if !IsValidStatus(status) {
		return models.Order{}, &ValidationError{
			Message: "Invalid status",
			Fields: []models.FieldError{{
				Field:   "status",
				Message: "must be one of: pending, processing, completed, cancelled",
			}},
		}
	}

	order, err := s.store.UpdateOrder(id, func(o *models.Order) error {
		if !CanTransition(o.Status, status) {
			return &ValidationError{
				Message: "Invalid status transition",
				Fields: []models.FieldError{{
					Field:   "status",
					Message: "cannot change from " + o.Status + " to " + status,
				}},
			}
		}
		o.Status = status
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}

	log.Printf("Order %d status set to %s", id, status)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int) (models.Order, error) {
	order, ok := s.store.Order(id)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderItems returns an empty slice for unknown orders.
func (s *Service) GetOrderItems(ctx context.Context, orderID int) []models.OrderItem {
	return s.store.OrderItems(orderID)
}

func (s *Service) ListOrders(ctx context.Context) []models.Order {
	return s.store.Orders()
}

func nonEmpty(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
