package store

import "sync"

// Kind names an entity type that draws ids from the allocator.
type Kind string

const (
	KindCategory  Kind = "category"
	KindProduct   Kind = "product"
	KindLocation  Kind = "location"
	KindOrder     Kind = "order"
	KindOrderItem Kind = "order_item"
)

// Allocator hands out monotonically increasing ids, one counter per Kind.
// Counters start at 1 and ids are never reused.
type Allocator struct {
	mu   sync.Mutex
	next map[Kind]int
}

func NewAllocator() *Allocator {
	return &Allocator{next: make(map[Kind]int)}
}

// Next returns the next id for kind and advances its counter.
func (a *Allocator) Next(kind Kind) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next[kind]
	if id == 0 {
		id = 1
	}
	a.next[kind] = id + 1
	return id
}

// Peek returns the id the next call to Next(kind) will hand out.
func (a *Allocator) Peek(kind Kind) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id := a.next[kind]; id > 0 {
		return id
	}
	return 1
}
