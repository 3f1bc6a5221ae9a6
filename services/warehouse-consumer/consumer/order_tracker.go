package consumer

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
)

type OrderItem struct {
	ProductID int
	Quantity  int
}

// OrderTracker counts orders and ordered quantity per product. Each order id
// is counted once, so redelivered messages do not inflate the totals.
type OrderTracker struct {
	mu                sync.Mutex
	seen              map[int]bool
	productQuantities map[int]int64
}

func NewOrderTracker() *OrderTracker {
	return &OrderTracker{
		seen:              make(map[int]bool),
		productQuantities: make(map[int]int64),
	}
}

// RecordOrder adds an order's items to the totals. It returns false if the
// order was already recorded.
func (t *OrderTracker) RecordOrder(orderID int, items []OrderItem) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen[orderID] {
		log.Printf("Order %d already recorded, skipping", orderID)
		return false
	}
	t.seen[orderID] = true

	for _, item := range items {
		t.productQuantities[item.ProductID] += int64(item.Quantity)
	}

	log.Printf("Recorded order %d (Total orders: %d)", orderID, len(t.seen))
	return true
}

// WriteSummary prints the order count and per-product quantities.
func (t *OrderTracker) WriteSummary(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	productIDs := make([]int, 0, len(t.productQuantities))
	for id := range t.productQuantities {
		productIDs = append(productIDs, id)
	}
	sort.Ints(productIDs)

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "WAREHOUSE SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Total Orders Processed: %d\n", len(t.seen))
	for _, id := range productIDs {
		fmt.Fprintf(w, "  Product %d: %d units\n", id, t.productQuantities[id])
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func (t *OrderTracker) TotalOrders() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

func (t *OrderTracker) ProductQuantity(productID int) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.productQuantities[productID]
}
