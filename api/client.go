package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// EshopAPI is the contract of the remote catalog/order service.
// Consumers (catalog browser, checkout, orders browser) depend on this
// interface, not on the HTTP implementation.
type EshopAPI interface {
	GetProducts(ctx context.Context, query ProductsQuery) (*ProductsPage, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) error
	GetOrders(ctx context.Context, query OrdersQuery) (*OrdersPage, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// Client implements EshopAPI over HTTP using resty.
type Client struct {
	http *resty.Client
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	return &Client{http: httpClient}
}

// errorEnvelope is the failure body shape: {"error": "..."}.
type errorEnvelope struct {
	Error string `json:"error"`
}

// GetProducts fetches one catalog page.
func (c *Client) GetProducts(ctx context.Context, query ProductsQuery) (*ProductsPage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":       strconv.Itoa(query.Page),
			"limit":      strconv.Itoa(query.Limit),
			"name_query": query.NameQuery,
			"order_by":   query.OrderBy,
			"order":      query.Order,
		}).
		Get("/products")
	if err != nil {
		return nil, TransientNetwork()
	}

	var envelope struct {
		Data *ProductsPage `json:"data"`
	}
	if resp.IsSuccess() {
		if json.Unmarshal(resp.Body(), &envelope) != nil || envelope.Data == nil {
			// a success status with an unusable body is a parse failure
			return nil, TransientNetwork()
		}
		return envelope.Data, nil
	}
	return nil, serverError(resp.Body(), "Failed to get products.")
}

// CreateOrder submits a new order. The service signals success with 201 and
// no body contract beyond the status.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/orders")
	if err != nil {
		return TransientNetwork()
	}

	if resp.StatusCode() == http.StatusCreated {
		return nil
	}
	return serverError(resp.Body(), "Failed to create order.")
}

// GetOrders fetches one page of past orders.
func (c *Client) GetOrders(ctx context.Context, query OrdersQuery) (*OrdersPage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":          strconv.Itoa(query.Page),
			"limit":         strconv.Itoa(query.Limit),
			"filter_email":  query.FilterEmail,
			"filter_status": query.FilterStatus,
		}).
		Get("/orders")
	if err != nil {
		return nil, TransientNetwork()
	}

	var envelope struct {
		Data *OrdersPage `json:"data"`
	}
	if resp.IsSuccess() {
		if json.Unmarshal(resp.Body(), &envelope) != nil || envelope.Data == nil {
			return nil, TransientNetwork()
		}
		return envelope.Data, nil
	}
	return nil, serverError(resp.Body(), "Failed to get orders.")
}

// CancelOrder requests cancellation of an order. The service signals success
// with 204.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/orders/" + orderID)
	if err != nil {
		return TransientNetwork()
	}

	if resp.StatusCode() == http.StatusNoContent {
		return nil
	}
	return serverError(resp.Body(), "Failed to cancel order.")
}

// serverError maps a non-success body to a ServerRejected error, falling back
// to a fixed message when the body carries no usable error string.
func serverError(body []byte, fallback string) *Error {
	var envelope errorEnvelope
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		return ServerRejected(envelope.Error)
	}
	return ServerRejected(fallback)
}
