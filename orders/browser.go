package orders

import (
	"context"
	"log"

	"github.com/matheusmosca/eshop-storefront/api"
	"github.com/matheusmosca/eshop-storefront/catalog"
)

// OrdersAPI is the slice of the collaborator contract the browser needs.
type OrdersAPI interface {
	GetOrders(ctx context.Context, query api.OrdersQuery) (*api.OrdersPage, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// Browser mirrors the catalog browser for past orders: pagination plus ANDed
// email/status filters, with a cancel transition that re-queries on success.
type Browser struct {
	client OrdersAPI

	emailFilter  string
	statusFilter string
	page         int
	pageSize     int

	totalPages int
	orders     []api.Order
}

// NewBrowser creates a Browser with the profile screen's initial state.
func NewBrowser(client OrdersAPI) *Browser {
	return &Browser{
		client:     client,
		page:       1,
		pageSize:   catalog.DefaultPageSize,
		totalPages: 1,
	}
}

// Refresh re-executes the current query without changing any parameter.
func (b *Browser) Refresh(ctx context.Context) error {
	return b.execute(ctx)
}

// SetEmailFilter updates the requester-email filter and re-executes. An empty
// value means no constraint.
func (b *Browser) SetEmailFilter(ctx context.Context, email string) error {
	b.emailFilter = email
	return b.execute(ctx)
}

// SetStatusFilter updates the status filter and re-executes. Only the known
// statuses and the empty string (no constraint) are accepted.
func (b *Browser) SetStatusFilter(ctx context.Context, status string) error {
	if !ValidStatusFilter(status) {
		return api.Validation("unknown status filter %q", status)
	}
	b.statusFilter = status
	return b.execute(ctx)
}

// SetPage moves to the given page and re-executes.
func (b *Browser) SetPage(ctx context.Context, page int) error {
	b.page = page
	return b.execute(ctx)
}

// SetPageSize updates the page size and re-executes.
func (b *Browser) SetPageSize(ctx context.Context, pageSize int) error {
	b.pageSize = pageSize
	return b.execute(ctx)
}

// Cancel requests cancellation of an order. Orders already in a terminal
// status are refused locally, no request is sent. On success the current
// query re-executes immediately so the projection reflects the new status, on
// failure the previously fetched list stays displayed.
func (b *Browser) Cancel(ctx context.Context, orderID string) error {
	for _, order := range b.orders {
		if order.ID == orderID && IsTerminal(order.Status) {
			return api.Validation("order is already cancelled")
		}
	}

	if err := b.client.CancelOrder(ctx, orderID); err != nil {
		return err
	}

	log.Printf("✅ Order cancelled: %s", orderID)
	return b.execute(ctx)
}

// execute derives the canonical query, runs it and reconciles the pagination
// state. On failure the previously fetched state stays intact.
func (b *Browser) execute(ctx context.Context) error {
	if b.page < 1 {
		b.page = 1
	}
	if !validPageSize(b.pageSize) {
		b.pageSize = catalog.DefaultPageSize
	}
	requested := b.page

	result, err := b.client.GetOrders(ctx, api.OrdersQuery{
		Page:         b.page,
		Limit:        b.pageSize,
		FilterEmail:  b.emailFilter,
		FilterStatus: b.statusFilter,
	})
	if err != nil {
		return err
	}

	b.orders = result.Orders
	b.totalPages = result.TotalPages

	// same silent page correction as the catalog browser
	if b.totalPages < requested {
		b.page = b.totalPages
	}
	if b.page < 1 {
		b.page = 1
	}
	return nil
}

func validPageSize(size int) bool {
	for _, allowed := range catalog.PageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}

// Orders returns the last successfully fetched page of orders.
func (b *Browser) Orders() []api.Order { return b.orders }

// Page returns the displayed page, clamped to the last reported page count.
func (b *Browser) Page() int { return b.page }

// TotalPages returns the page count reported by the last successful query.
func (b *Browser) TotalPages() int { return b.totalPages }

// PageSize returns the current page size.
func (b *Browser) PageSize() int { return b.pageSize }

// EmailFilter returns the current requester-email filter.
func (b *Browser) EmailFilter() string { return b.emailFilter }

// StatusFilter returns the current status filter.
func (b *Browser) StatusFilter() string { return b.statusFilter }
