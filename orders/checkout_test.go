package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/eshop-storefront/api"
	"github.com/matheusmosca/eshop-storefront/cart"
)

// MockOrderCreator simulates the order creation endpoint
type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) CreateOrder(ctx context.Context, req api.CreateOrderRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func newCartWith(t *testing.T, records cart.RecordStore, products ...api.Product) *cart.Store {
	t.Helper()
	store, err := cart.NewStore(context.Background(), records)
	require.NoError(t, err)
	for _, p := range products {
		store.AddOrIncrement(context.Background(), p)
	}
	return store
}

func product(id, name, price string, stock int) api.Product {
	return api.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func TestCheckout_EmptyEmailNeverIssuesRequest(t *testing.T) {
	// Arrange
	client := new(MockOrderCreator)
	cartStore := newCartWith(t, cart.NewMemoryRecordStore(), product("p1", "Chair", "5.00", 3))
	checkout := NewCheckout(client, cartStore)

	for _, email := range []string{"", "   ", "\t\n"} {
		// Act
		receipt, err := checkout.Submit(context.Background(), email)

		// Assert
		require.Error(t, err)
		assert.Nil(t, receipt)
		assert.Equal(t, api.KindValidation, api.KindOf(err))
	}

	client.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	assert.Equal(t, 1, cartStore.Len())
}

func TestCheckout_EmptyCartIsRefusedLocally(t *testing.T) {
	// Arrange
	client := new(MockOrderCreator)
	cartStore := newCartWith(t, cart.NewMemoryRecordStore())
	checkout := NewCheckout(client, cartStore)

	// Act
	_, err := checkout.Submit(context.Background(), "user@example.com")

	// Assert
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.KindOf(err))
	client.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_SuccessClearsCartAndRecord(t *testing.T) {
	// Arrange
	client := new(MockOrderCreator)
	records := cart.NewMemoryRecordStore()
	cartStore := newCartWith(t, records,
		product("p1", "Chair", "5.00", 3),
		product("p2", "Desk", "10.00", 2),
	)
	checkout := NewCheckout(client, cartStore)
	ctx := context.Background()

	client.On("CreateOrder", ctx, api.CreateOrderRequest{
		Email: "user@example.com",
		Products: []api.OrderProductRef{
			{ID: "p1", Quantity: 1},
			{ID: "p2", Quantity: 1},
		},
	}).Return(nil)

	// Act
	receipt, err := checkout.Submit(ctx, "  user@example.com  ")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "user@example.com", receipt.Email)
	assert.Equal(t, 2, receipt.Lines)
	assert.True(t, receipt.Total.Equal(decimal.RequireFromString("15.00")))

	assert.Equal(t, 0, cartStore.Len())
	_, ok, readErr := records.Read(ctx)
	require.NoError(t, readErr)
	assert.False(t, ok, "persisted record must be absent after success")
	client.AssertExpectations(t)
}

func TestCheckout_RejectionLeavesCartUntouched(t *testing.T) {
	// Arrange
	client := new(MockOrderCreator)
	records := cart.NewMemoryRecordStore()
	cartStore := newCartWith(t, records, product("p1", "Chair", "5.00", 3))
	checkout := NewCheckout(client, cartStore)
	ctx := context.Background()

	client.On("CreateOrder", ctx, mock.Anything).
		Return(api.ServerRejected("required number of products is currently not in stock"))

	// Act
	receipt, err := checkout.Submit(ctx, "user@example.com")

	// Assert: the user can retry without re-entering their selection
	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.Equal(t, api.KindServerRejected, api.KindOf(err))
	assert.Equal(t, 1, cartStore.Len())
	_, ok, readErr := records.Read(ctx)
	require.NoError(t, readErr)
	assert.True(t, ok, "persisted record must be unchanged after failure")
}

func TestCheckout_NetworkFailureLeavesCartUntouched(t *testing.T) {
	// Arrange
	client := new(MockOrderCreator)
	cartStore := newCartWith(t, cart.NewMemoryRecordStore(), product("p1", "Chair", "5.00", 3))
	checkout := NewCheckout(client, cartStore)
	ctx := context.Background()

	client.On("CreateOrder", ctx, mock.Anything).Return(api.TransientNetwork())

	// Act
	_, err := checkout.Submit(ctx, "user@example.com")

	// Assert
	require.Error(t, err)
	assert.Equal(t, api.TransientMessage, err.Error())
	assert.Equal(t, 1, cartStore.Len())
}

func TestCheckout_RequestCarriesNoPrices(t *testing.T) {
	// Arrange
	client := new(MockOrderCreator)
	cartStore := newCartWith(t, cart.NewMemoryRecordStore(), product("p1", "Chair", "5.00", 3))
	checkout := NewCheckout(client, cartStore)
	ctx := context.Background()

	var captured api.CreateOrderRequest
	client.On("CreateOrder", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(api.CreateOrderRequest)
		}).
		Return(nil)

	// Act
	_, err := checkout.Submit(ctx, "user@example.com")

	// Assert: only id + quantity are sent, the service prices at submission
	require.NoError(t, err)
	require.Len(t, captured.Products, 1)
	assert.Equal(t, api.OrderProductRef{ID: "p1", Quantity: 1}, captured.Products[0])
}
