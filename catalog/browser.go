package catalog

import (
	"context"

	"github.com/matheusmosca/eshop-storefront/api"
)

// ProductsGetter is the slice of the collaborator contract the browser needs.
type ProductsGetter interface {
	GetProducts(ctx context.Context, query api.ProductsQuery) (*api.ProductsPage, error)
}

// Browser keeps the catalog screen's filter state and executes deterministic
// paginated queries against the e-shop service. Every parameter change
// re-derives the full QuerySpec from current state and re-executes, there are
// no partial updates.
type Browser struct {
	client ProductsGetter

	term     string
	sort     SortKey
	page     int
	pageSize int

	totalPages int
	products   []api.Product
}

// NewBrowser creates a Browser with the storefront's initial state: first
// page, default page size, name ordering, no text filter.
func NewBrowser(client ProductsGetter) *Browser {
	return &Browser{
		client:     client,
		sort:       SortNameAsc,
		page:       1,
		pageSize:   DefaultPageSize,
		totalPages: 1,
	}
}

// Refresh re-executes the current query without changing any parameter.
func (b *Browser) Refresh(ctx context.Context) error {
	return b.execute(ctx)
}

// SetTerm updates the free-text filter and re-executes.
func (b *Browser) SetTerm(ctx context.Context, term string) error {
	b.term = term
	return b.execute(ctx)
}

// SetSort updates the sort mode and re-executes.
func (b *Browser) SetSort(ctx context.Context, sort SortKey) error {
	b.sort = sort
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

// execute derives the canonical spec, runs the query and reconciles the
// pagination state. On failure the previously fetched state stays intact.
func (b *Browser) execute(ctx context.Context) error {
	spec := BuildQuery(b.term, b.sort, b.page, b.pageSize)
	// keep the state canonical, the spec is the single source of truth
	b.sort, b.page, b.pageSize = spec.SortKey, spec.Page, spec.PageSize

	result, err := b.client.GetProducts(ctx, spec.WireQuery())
	if err != nil {
		return err
	}

	b.products = result.Products
	b.totalPages = result.TotalPages

	// A narrowing filter can report fewer pages than the page just requested.
	// The displayed page is corrected silently, without a retroactive re-fetch.
	if b.totalPages < spec.Page {
		b.page = b.totalPages
	}
	if b.page < 1 {
		b.page = 1
	}
	return nil
}

// Products returns the last successfully fetched page of products.
func (b *Browser) Products() []api.Product { return b.products }

// Page returns the displayed page, clamped to the last reported page count.
func (b *Browser) Page() int { return b.page }

// TotalPages returns the page count reported by the last successful query.
func (b *Browser) TotalPages() int { return b.totalPages }

// PageSize returns the current page size.
func (b *Browser) PageSize() int { return b.pageSize }

// Term returns the current free-text filter.
func (b *Browser) Term() string { return b.term }

// Sort returns the current sort mode.
func (b *Browser) Sort() SortKey { return b.sort }
