package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// DefaultKey is the storage key a session's cart lives under.
const DefaultKey = "coffee-haven-cart"

var ErrNotFound = errors.New("key not found")

// Storage is a durable key-value store. Get returns ErrNotFound for absent keys.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store loads and saves a cart as a JSON array of lines under one key.
type Store struct {
	storage Storage
	key     string
}

func NewStore(storage Storage, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{storage: storage, key: key}
}

// Load reads the cart. A missing key or unreadable contents give an empty
// cart; only storage failures are returned as errors.
func (s *Store) Load(ctx context.Context) (*Cart, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart %q: %w", s.key, err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Printf("Discarding corrupt cart %q: %v", s.key, err)
		return New(), nil
	}

	// New merges duplicate products and skips non-positive quantities.
	return New(lines...), nil
}

// Save overwrites the stored cart. An empty cart is written as [].
func (s *Store) Save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c.Lines())
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write cart %q: %w", s.key, err)
	}
	return nil
}
