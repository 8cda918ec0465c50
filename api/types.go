package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog snapshot owned by the e-shop service.
type Product struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// ProductsQuery holds the query parameters for GET /products.
type ProductsQuery struct {
	Page      int
	Limit     int
	NameQuery string
	OrderBy   string
	Order     string
}

// ProductsPage is the paginated payload of GET /products.
type ProductsPage struct {
	Page          int       `json:"page"`
	Limit         int       `json:"limit"`
	TotalProducts int       `json:"total_products"`
	TotalPages    int       `json:"total_pages"`
	Products      []Product `json:"products"`
}

// OrderProductRef identifies one cart line in an order creation request.
// Prices and names are not sent, the service prices at submission time.
type OrderProductRef struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Email    string            `json:"email"`
	Products []OrderProductRef `json:"products"`
}

// OrderProduct is a frozen line-item snapshot inside an order, independent of
// the live catalog Product.
type OrderProduct struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Order is a read-only order projection owned by the e-shop service.
type Order struct {
	ID         string          `json:"_id"`
	Email      string          `json:"email"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Products   []OrderProduct  `json:"products"`
}

// OrdersQuery holds the query parameters for GET /orders.
type OrdersQuery struct {
	Page         int
	Limit        int
	FilterEmail  string
	FilterStatus string
}

// OrdersPage is the paginated payload of GET /orders.
type OrdersPage struct {
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	TotalOrders int     `json:"total_orders"`
	TotalPages  int     `json:"total_pages"`
	Orders      []Order `json:"orders"`
}
