package store

import (
	"errors"
	"sort"
	"sync"

	"storefront/services/storefront-api/models"
)

var ErrNotFound = errors.New("not found")

// Store holds the catalog and the orders in memory. Every write goes through
// a single lock so that an order and its items are committed together.
type Store struct {
	mu         sync.RWMutex
	ids        *Allocator
	categories map[int]models.Category
	products   map[int]models.Product
	locations  map[int]models.Location
	orders     map[int]models.Order
	orderItems map[int][]models.OrderItem
}

func New(ids *Allocator) *Store {
	if ids == nil {
		ids = NewAllocator()
	}
	return &Store{
		ids:        ids,
		categories: make(map[int]models.Category),
		products:   make(map[int]models.Product),
		locations:  make(map[int]models.Location),
		orders:     make(map[int]models.Order),
		orderItems: make(map[int][]models.OrderItem),
	}
}

// Categories

func (s *Store) CreateCategory(c models.Category) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.ids.Next(KindCategory)
	s.categories[c.ID] = c
	return c
}

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.categories, func(c models.Category) int { return c.ID })
}

func (s *Store) Category(id int) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	return c, ok
}

// Products

func (s *Store) CreateProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.ids.Next(KindProduct)
	s.products[p.ID] = p
	return p
}

func (s *Store) Products() []models.Product {
	return s.filterProducts(func(models.Product) bool { return true })
}

func (s *Store) ProductsByCategory(categoryID int) []models.Product {
	return s.filterProducts(func(p models.Product) bool { return p.CategoryID == categoryID })
}

func (s *Store) FeaturedProducts() []models.Product {
	return s.filterProducts(func(p models.Product) bool { return p.Featured })
}

func (s *Store) Product(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *Store) filterProducts(keep func(models.Product) bool) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.Product{}
	for _, p := range s.products {
		if keep(p) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Locations

func (s *Store) CreateLocation(l models.Location) models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = s.ids.Next(KindLocation)
	s.locations[l.ID] = l
	return l
}

func (s *Store) Locations() []models.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.locations, func(l models.Location) int { return l.ID })
}

func (s *Store) Location(id int) (models.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[id]
	return l, ok
}

// Orders

// CreateOrder assigns ids to the order and each of its items and stores them
// as one unit. Items keep the order they were given in; ids supplied by the
// caller are overwritten.
func (s *Store) CreateOrder(order models.Order, items []models.OrderItem) (models.Order, []models.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.ids.Next(KindOrder)

	stored := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = s.ids.Next(KindOrderItem)
		item.OrderID = order.ID
		stored = append(stored, item)
	}

	s.orders[order.ID] = order
	s.orderItems[order.ID] = stored

	return order, append([]models.OrderItem(nil), stored...)
}

func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.orders, func(o models.Order) int { return o.ID })
}

func (s *Store) Order(id int) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	return o, ok
}

// UpdateOrder applies fn to the stored order under the write lock and keeps
// the result only if fn returns nil. Returns ErrNotFound for unknown ids.
func (s *Store) UpdateOrder(id int, fn func(*models.Order) error) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	if err := fn(&order); err != nil {
		return models.Order{}, err
	}
	order.ID = id
	s.orders[id] = order
	return order, nil
}

// OrderItems returns the items of an order, or an empty slice when the order is unknown.
func (s *Store) OrderItems(orderID int) []models.OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.OrderItem{}, s.orderItems[orderID]...)
}

func sortedValues[T any](m map[int]T, id func(T) int) []T {
	result := make([]T, 0, len(m))
	for _, v := range m {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return id(result[i]) < id(result[j]) })
	return result
}
