package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	data   map[string][]byte
	getErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: make(map[string][]byte)}
}

func (m *memoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *memoryStorage) Set(ctx context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func storages(t *testing.T) map[string]Storage {
	t.Helper()
	_, client := setupTestRedis(t)
	files, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	return map[string]Storage{
		"memory": newMemoryStorage(),
		"file":   files,
		"redis":  NewRedisStorage(client),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewStore(storage, "")

			c, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Zero(t, c.Len())

			require.NoError(t, c.AddItem(croissant(2)))
			require.NoError(t, c.AddItem(espresso(1)))
			require.NoError(t, s.Save(ctx, c))

			reloaded, err := s.Load(ctx)
			require.NoError(t, err)
			assertSameLines(t, c.Lines(), reloaded.Lines())
			assert.True(t, c.Total().Equal(reloaded.Total()))
		})
	}
}

// assertSameLines compares prices by value, since a decimal's scale is not
// preserved through JSON.
func assertSameLines(t *testing.T, want, got []Line) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ProductID, got[i].ProductID)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.Equal(t, want[i].Product.Name, got[i].Product.Name)
		assert.True(t, want[i].Product.Price.Equal(got[i].Product.Price))
	}
}

func TestStoreClearWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	s := NewStore(storage, "")

	c := New(espresso(1))
	require.NoError(t, s.Save(ctx, c))
	c.Clear()
	require.NoError(t, s.Save(ctx, c))

	assert.Equal(t, "[]", string(storage.data[DefaultKey]))
}

func TestStoreCorruptDataLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	storage.data[DefaultKey] = []byte(`{not json`)

	c, err := NewStore(storage, "").Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestStoreLoadRepairsInvalidLines(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	storage.data["k"] = []byte(`[
		{"product_id": 1, "quantity": 1, "product": {"id": 1, "name": "Espresso", "price": 2.99}},
		{"product_id": 2, "quantity": 0, "product": {"id": 2, "name": "Cappuccino", "price": 4.5}},
		{"product_id": 1, "quantity": 2, "product": {"id": 1, "name": "Espresso", "price": 2.99}}
	]`)

	c, err := NewStore(storage, "k").Load(ctx)
	require.NoError(t, err)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestStoreLoadStorageFailure(t *testing.T) {
	storage := newMemoryStorage()
	storage.getErr = errors.New("disk on fire")

	_, err := NewStore(storage, "").Load(context.Background())
	assert.Error(t, err)
}

func TestRedisStorageNamespacesKey(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	s := NewStore(NewRedisStorage(client), "session-1")
	require.NoError(t, s.Save(ctx, New(espresso(1))))

	assert.True(t, mr.Exists("storefront:cart:session-1"))

	require.NoError(t, mr.Set("storefront:cart:session-1", "garbage"))
	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, c.Len())
}

func TestFileStorageMissingKey(t *testing.T) {
	files, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = files.Get(context.Background(), "../escape")
	assert.ErrorIs(t, err, ErrNotFound)
}
