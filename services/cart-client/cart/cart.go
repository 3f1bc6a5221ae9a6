// Package cart keeps a shopping session's cart lines and persists them to a
// key-value store.
package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Snapshot is the product data captured when a line is first added.
type Snapshot struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
}

type Line struct {
	ProductID int      `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   Snapshot `json:"product"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered set of lines keyed by product id. A product appears at
// most once and every quantity is at least 1.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New(lines ...Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		_ = c.AddItem(l)
	}
	return c
}

// AddItem appends line, or adds its quantity to the existing line for the
// same product. The snapshot of an existing line is kept.
func (c *Cart) AddItem(line Line) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(line.ProductID); i >= 0 {
		c.lines[i].Quantity += line.Quantity
		return nil
	}
	c.lines = append(c.lines, line)
	return nil
}

// UpdateQuantity replaces a line's quantity in place. A quantity of zero or
// less removes the line.
func (c *Cart) UpdateQuantity(productID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

// RemoveItem deletes the line for productID; unknown ids are ignored.
func (c *Cart) RemoveItem(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Total sums price times quantity over the current lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line{}, c.lines...)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) indexOf(productID int) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
