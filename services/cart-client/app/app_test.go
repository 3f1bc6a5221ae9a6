package app

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"storefront/services/cart-client/cart"
	"storefront/services/cart-client/clients"
	"storefront/services/storefront-api/handlers"
	"storefront/services/storefront-api/orders"
	"storefront/services/storefront-api/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app   *App
	out   *bytes.Buffer
	carts *cart.Store
	store *store.Store
}

// newTestEnv runs the client against a real storefront API served by httptest.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(nil)
	require.NoError(t, st.Seed(store.DefaultCatalog))
	router := handlers.NewRouter(gin.New(),
		handlers.NewCatalogHandler(st),
		handlers.NewOrderHandler(orders.NewService(st)),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	files, err := cart.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	carts := cart.NewStore(files, "")

	out := &bytes.Buffer{}
	return &testEnv{
		app:   New(clients.NewStorefrontClient(server.URL), carts, out),
		out:   out,
		carts: carts,
		store: st,
	}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	e.out.Reset()
	return e.app.Execute(context.Background(), args)
}

func (e *testEnv) cart(t *testing.T) *cart.Cart {
	t.Helper()
	c, err := e.carts.Load(context.Background())
	require.NoError(t, err)
	return c
}

func TestAddMergesAndPersists(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "add", "1"))
	require.NoError(t, env.run(t, "add", "4", "2"))
	require.NoError(t, env.run(t, "add", "1", "2"))

	lines := env.cart(t).Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "Espresso", lines[0].Product.Name)
	assert.Equal(t, 4, lines[1].ProductID)
	assert.Equal(t, "15.97", env.cart(t).Total().StringFixed(2))
}

func TestAddUnknownProductLeavesCart(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(t, "add", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Product not found")
	assert.Zero(t, env.cart(t).Len())

	assert.Error(t, env.run(t, "add", "abc"))
	assert.Error(t, env.run(t, "add", "1", "0"))
	assert.Zero(t, env.cart(t).Len())
}

func TestUpdateRemoveClear(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(t, "add", "1"))
	require.NoError(t, env.run(t, "add", "4"))

	require.NoError(t, env.run(t, "update", "4", "5"))
	assert.Equal(t, 5, env.cart(t).Lines()[1].Quantity)

	require.NoError(t, env.run(t, "update", "1", "0"))
	lines := env.cart(t).Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].ProductID)

	require.NoError(t, env.run(t, "remove", "42"))
	assert.Equal(t, 1, env.cart(t).Len())

	require.NoError(t, env.run(t, "clear"))
	assert.Zero(t, env.cart(t).Len())
	assert.Contains(t, env.out.String(), "Cart is empty")
}

func TestCheckoutScenario(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(t, "add", "1"))
	require.NoError(t, env.run(t, "add", "4", "2"))

	require.NoError(t, env.run(t, "checkout", "-name", "Ana", "-email", "ana@example.com", "-location", "2"))
	assert.Contains(t, env.out.String(), "Order #1 placed for Ana")
	assert.Zero(t, env.cart(t).Len())

	order, ok := env.store.Order(1)
	require.True(t, ok)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, "pending", order.Status)
	require.NotNil(t, order.PickupLocationID)
	assert.Equal(t, 2, *order.PickupLocationID)

	items := env.store.OrderItems(1)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ProductID)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("2.99")))
	assert.Equal(t, 4, items[1].ProductID)
	assert.Equal(t, 2, items[1].Quantity)
	assert.True(t, items[1].Price.Equal(decimal.RequireFromString("3.50")))

	require.NoError(t, env.run(t, "order", "1"))
	assert.Contains(t, env.out.String(), "Order #1")
	require.NoError(t, env.run(t, "orders"))
	assert.Contains(t, env.out.String(), "Ana")
}

func TestCheckoutValidationFailureKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run(t, "add", "1"))

	err := env.run(t, "checkout", "-email", "ana@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer_name is required")

	assert.Equal(t, 1, env.cart(t).Len())
	assert.Empty(t, env.store.Orders())
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(t, "checkout", "-name", "Ana")
	assert.EqualError(t, err, "cart is empty")
	assert.Empty(t, env.store.Orders())
}

func TestProductsCommand(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run(t, "products", "-featured"))
	out := env.out.String()
	assert.Contains(t, out, "Cappuccino")
	assert.NotContains(t, out, "Latte")

	require.NoError(t, env.run(t, "products", "-category", "3"))
	assert.Contains(t, env.out.String(), "Green Tea")
}

func TestUsageErrors(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{{}, {"bogus"}, {"update", "1"}, {"remove"}, {"order"}} {
		assert.ErrorIs(t, env.run(t, args...), errUsage, "%v", args)
	}
}
