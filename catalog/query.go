package catalog

import "github.com/matheusmosca/eshop-storefront/api"

// SortKey is a catalog sort mode selectable in the storefront.
type SortKey string

const (
	SortNameAsc        SortKey = "name-asc"
	SortPriceAsc       SortKey = "price-asc"
	SortPriceDesc      SortKey = "price-desc"
	SortPopularityDesc SortKey = "popularity-desc"
)

// DefaultPageSize matches the storefront's initial products-per-page choice.
const DefaultPageSize = 3

// PageSizes is the fixed set of selectable page sizes.
var PageSizes = []int{3, 10, 25, 50}

// QuerySpec is a canonical, fully-specified set of pagination, sort and filter
// parameters for one catalog fetch.
type QuerySpec struct {
	Page       int
	PageSize   int
	TextFilter string
	SortKey    SortKey
}

// BuildQuery maps the storefront's current filter state to a canonical
// QuerySpec. Pure, no side effects. Pages below 1 become 1, page sizes outside
// the fixed set fall back to the default, unknown sort keys sort by name.
func BuildQuery(term string, sort SortKey, page, pageSize int) QuerySpec {
	if page < 1 {
		page = 1
	}
	if !validPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	switch sort {
	case SortNameAsc, SortPriceAsc, SortPriceDesc, SortPopularityDesc:
	default:
		sort = SortNameAsc
	}

	return QuerySpec{
		Page:       page,
		PageSize:   pageSize,
		TextFilter: term,
		SortKey:    sort,
	}
}

// WireQuery translates the spec into the collaborator's query parameters.
// The sort-key mapping is fixed:
//
//	name-asc        -> name, asc
//	price-asc       -> price, asc
//	price-desc      -> price, desc
//	popularity-desc -> units_sold, desc
func (s QuerySpec) WireQuery() api.ProductsQuery {
	orderBy, order := "name", "asc"
	switch s.SortKey {
	case SortPriceAsc:
		orderBy, order = "price", "asc"
	case SortPriceDesc:
		orderBy, order = "price", "desc"
	case SortPopularityDesc:
		orderBy, order = "units_sold", "desc"
	}

	return api.ProductsQuery{
		Page:      s.Page,
		Limit:     s.PageSize,
		NameQuery: s.TextFilter,
		OrderBy:   orderBy,
		Order:     order,
	}
}

func validPageSize(size int) bool {
	for _, allowed := range PageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}
