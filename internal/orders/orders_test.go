package orders_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/cart"
	"github.com/example/shopfront/internal/mockapi"
	"github.com/example/shopfront/internal/model"
	"github.com/example/shopfront/internal/orders"
	"github.com/example/shopfront/internal/session"
	"github.com/example/shopfront/internal/storage"
)

type testEnv struct {
	session *session.Store
	cart    *cart.Store
	orders  *orders.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	server := httptest.NewServer(mockapi.New().Router())
	t.Cleanup(server.Close)

	store, err := storage.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	client := apiclient.New(server.URL)
	sess := session.New(client, store)
	_, err = sess.Login(context.Background(), "customer@example.com", "customer-password")
	require.NoError(t, err)

	return &testEnv{
		session: sess,
		cart:    cart.New(client, store, sess),
		orders:  orders.NewService(client),
	}
}

var shippingDetails = model.CreateOrderRequest{
	ShippingAddress:    "1 Dock Road",
	ShippingCity:       "Lisbon",
	ShippingPostalCode: "1100-001",
	ShippingCountry:    "PT",
}

func TestCreate_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.Create(context.Background(), shippingDetails)

	require.ErrorIs(t, err, apiclient.ErrInvalidRequest)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "cart is empty", apiErr.Message)
}

func TestCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.cart.Add(ctx, 5, 2, "40", "white")
	require.NoError(t, err)
	expected := env.cart.Cart().Total

	order, err := env.orders.Create(ctx, shippingDetails)
	require.NoError(t, err)

	assert.Equal(t, model.OrderPending, order.Status)
	assert.InDelta(t, expected, order.TotalAmount, 1e-9, "order priced like the derived cart view")
	assert.Equal(t, "Lisbon", order.ShippingCity)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Canvas Sneakers", order.Items[0].ProductName)

	// the server-side cart is emptied by checkout
	require.NoError(t, env.cart.Load(ctx))
	assert.Empty(t, env.cart.Lines())

	listed, err := env.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, order.ID, listed[0].ID)

	fetched, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, 2, fetched.Items[0].Quantity)
}

func TestGet_UnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.Get(context.Background(), 42)

	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}
