package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProducts_Success(t *testing.T) {
	// Arrange
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		gotQuery = map[string]string{
			"page":       r.URL.Query().Get("page"),
			"limit":      r.URL.Query().Get("limit"),
			"name_query": r.URL.Query().Get("name_query"),
			"order_by":   r.URL.Query().Get("order_by"),
			"order":      r.URL.Query().Get("order"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {
			"page": 1, "limit": 3, "total_products": 4, "total_pages": 2,
			"products": [{"_id": "p1", "name": "Chair", "price": 19.99, "stock": 5}]
		}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	// Act
	page, err := client.GetProducts(context.Background(), ProductsQuery{
		Page: 1, Limit: 3, NameQuery: "ch", OrderBy: "price", Order: "asc",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"page": "1", "limit": "3", "name_query": "ch", "order_by": "price", "order": "asc",
	}, gotQuery)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "p1", page.Products[0].ID)
	assert.Equal(t, "Chair", page.Products[0].Name)
	assert.Equal(t, 5, page.Products[0].Stock)
	assert.True(t, page.Products[0].Price.Equal(decimal.RequireFromString("19.99")))
}

func TestGetProducts_ServerError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "unknown order_by"}`))
	}))
	defer server.Close()

	// Act
	_, err := NewClient(server.URL).GetProducts(context.Background(), ProductsQuery{Page: 1, Limit: 3})

	// Assert: the server message is surfaced verbatim
	require.Error(t, err)
	assert.Equal(t, KindServerRejected, KindOf(err))
	assert.Equal(t, "unknown order_by", err.Error())
}

func TestGetProducts_ErrorWithoutMessageFallsBack(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Act
	_, err := NewClient(server.URL).GetProducts(context.Background(), ProductsQuery{Page: 1, Limit: 3})

	// Assert
	require.Error(t, err)
	assert.Equal(t, KindServerRejected, KindOf(err))
	assert.Equal(t, "Failed to get products.", err.Error())
}

func TestGetProducts_UnparseableSuccessBodyIsTransient(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	// Act
	_, err := NewClient(server.URL).GetProducts(context.Background(), ProductsQuery{Page: 1, Limit: 3})

	// Assert
	require.Error(t, err)
	assert.Equal(t, KindTransientNetwork, KindOf(err))
	assert.Equal(t, TransientMessage, err.Error())
}

func TestGetProducts_NetworkFailureIsTransient(t *testing.T) {
	// Arrange: a server that is not there anymore
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	// Act
	_, err := NewClient(server.URL).GetProducts(context.Background(), ProductsQuery{Page: 1, Limit: 3})

	// Assert: generic message, original cause not shown
	require.Error(t, err)
	assert.Equal(t, KindTransientNetwork, KindOf(err))
	assert.Equal(t, TransientMessage, err.Error())
}

func TestCreateOrder_CreatedStatusSignalsSuccess(t *testing.T) {
	// Arrange
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	// Act
	err := NewClient(server.URL).CreateOrder(context.Background(), CreateOrderRequest{
		Email:    "user@example.com",
		Products: []OrderProductRef{{ID: "p1", Quantity: 2}},
	})

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"user@example.com","products":[{"id":"p1","quantity":2}]}`, string(gotBody))
}

func TestCreateOrder_RejectionSurfacesMessage(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "required number of products is currently not in stock"}`))
	}))
	defer server.Close()

	// Act
	err := NewClient(server.URL).CreateOrder(context.Background(), CreateOrderRequest{})

	// Assert
	require.Error(t, err)
	assert.Equal(t, KindServerRejected, KindOf(err))
	assert.Equal(t, "required number of products is currently not in stock", err.Error())
}

func TestGetOrders_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "user@example.com", r.URL.Query().Get("filter_email"))
		assert.Equal(t, "unpaid", r.URL.Query().Get("filter_status"))
		w.Write([]byte(`{"data": {
			"page": 1, "limit": 3, "total_orders": 1, "total_pages": 1,
			"orders": [{
				"_id": "o1", "email": "user@example.com", "status": "unpaid",
				"created_at": "2025-01-15T10:30:00+00:00", "total_price": 39.98,
				"products": [{"_id": "p1", "name": "Chair", "price": 19.99, "quantity": 2}]
			}]
		}}`))
	}))
	defer server.Close()

	// Act
	page, err := NewClient(server.URL).GetOrders(context.Background(), OrdersQuery{
		Page: 1, Limit: 3, FilterEmail: "user@example.com", FilterStatus: "unpaid",
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	order := page.Orders[0]
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "unpaid", order.Status)
	assert.Equal(t, 2025, order.CreatedAt.Year())
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("39.98")))
	require.Len(t, order.Products, 1)
	assert.Equal(t, 2, order.Products[0].Quantity)
}

func TestCancelOrder_NoContentSignalsSuccess(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/orders/o1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	// Act
	err := NewClient(server.URL).CancelOrder(context.Background(), "o1")

	// Assert
	assert.NoError(t, err)
}

func TestCancelOrder_RejectionSurfacesMessage(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Order is already cancelled."}`))
	}))
	defer server.Close()

	// Act
	err := NewClient(server.URL).CancelOrder(context.Background(), "o1")

	// Assert
	require.Error(t, err)
	assert.Equal(t, KindServerRejected, KindOf(err))
	assert.Equal(t, "Order is already cancelled.", err.Error())
}
