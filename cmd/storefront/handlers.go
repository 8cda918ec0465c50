package main

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/eshop-storefront/api"
	"github.com/matheusmosca/eshop-storefront/cart"
	"github.com/matheusmosca/eshop-storefront/catalog"
	"github.com/matheusmosca/eshop-storefront/orders"
)

// StorefrontHandler exposes the storefront flows as JSON endpoints. The
// gateway serves a single local user, so one cart, one catalog browser and
// one orders browser are shared across requests behind a mutex.
type StorefrontHandler struct {
	mu sync.Mutex

	catalog  *catalog.Browser
	orders   *orders.Browser
	cart     *cart.Store
	checkout *orders.Checkout

	tracer   trace.Tracer
	requests metric.Int64Counter
}

// NewStorefrontHandler creates the handler and its request counter.
func NewStorefrontHandler(
	catalogBrowser *catalog.Browser,
	ordersBrowser *orders.Browser,
	cartStore *cart.Store,
	checkout *orders.Checkout,
	tracer trace.Tracer,
) (*StorefrontHandler, error) {
	requests, err := otel.Meter("storefront").Int64Counter("storefront.requests")
	if err != nil {
		return nil, err
	}

	return &StorefrontHandler{
		catalog:  catalogBrowser,
		orders:   ordersBrowser,
		cart:     cartStore,
		checkout: checkout,
		tracer:   tracer,
		requests: requests,
	}, nil
}

// RequestID tags every request with a correlation id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// BrowseProducts applies the requested catalog parameters. Each changed
// parameter re-derives the full query and re-executes, matching the original
// screen's one-change-per-interaction behavior.
func (h *StorefrontHandler) BrowseProducts(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "browse_products")
	defer span.End()
	h.count(c)

	h.mu.Lock()
	defer h.mu.Unlock()

	term := c.DefaultQuery("q", h.catalog.Term())
	sort := catalog.SortKey(c.DefaultQuery("sort", string(h.catalog.Sort())))
	page := intQuery(c, "page", h.catalog.Page())
	pageSize := intQuery(c, "page_size", h.catalog.PageSize())

	changed := false
	var err error
	if term != h.catalog.Term() {
		changed = true
		err = h.catalog.SetTerm(ctx, term)
	}
	if err == nil && sort != h.catalog.Sort() {
		changed = true
		err = h.catalog.SetSort(ctx, sort)
	}
	if err == nil && pageSize != h.catalog.PageSize() {
		changed = true
		err = h.catalog.SetPageSize(ctx, pageSize)
	}
	if err == nil && page != h.catalog.Page() {
		changed = true
		err = h.catalog.SetPage(ctx, page)
	}
	if err == nil && !changed {
		err = h.catalog.Refresh(ctx)
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.Int("storefront.page", h.catalog.Page()),
		attribute.Int("storefront.total_pages", h.catalog.TotalPages()),
	)

	c.JSON(http.StatusOK, gin.H{
		"products":    h.catalog.Products(),
		"page":        h.catalog.Page(),
		"page_size":   h.catalog.PageSize(),
		"total_pages": h.catalog.TotalPages(),
	})
}

// GetCart returns the cart lines and total.
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	h.count(c)
	c.JSON(http.StatusOK, gin.H{
		"items": h.cart.Lines(),
		"total": h.cart.Total(),
	})
}

// AddToCart adds one unit of the posted product snapshot.
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	h.count(c)

	h.mu.Lock()
	defer h.mu.Unlock()

	var product api.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product _id required"})
		return
	}

	h.cart.AddOrIncrement(c.Request.Context(), product)
	c.JSON(http.StatusOK, gin.H{
		"items": h.cart.Lines(),
		"total": h.cart.Total(),
	})
}

// SetCartQuantity sets the quantity of one cart line. Zero removes the line.
func (h *StorefrontHandler) SetCartQuantity(c *gin.Context) {
	h.count(c)

	h.mu.Lock()
	defer h.mu.Unlock()

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.cart.SetQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, gin.H{
		"items": h.cart.Lines(),
		"total": h.cart.Total(),
	})
}

// RemoveFromCart removes one cart line entirely.
func (h *StorefrontHandler) RemoveFromCart(c *gin.Context) {
	h.count(c)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cart.SetQuantity(c.Request.Context(), c.Param("id"), 0)
	c.JSON(http.StatusOK, gin.H{
		"items": h.cart.Lines(),
		"total": h.cart.Total(),
	})
}

// SubmitOrder runs the order submission flow.
func (h *StorefrontHandler) SubmitOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "submit_order")
	defer span.End()
	h.count(c)

	// The submission flow snapshots the cart, posts the order and clears the
	// cart on success. Holding the handler mutex keeps a concurrent cart
	// mutation from landing between the snapshot and the clear.
	h.mu.Lock()
	defer h.mu.Unlock()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.checkout.Submit(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(
		attribute.String("storefront.email", receipt.Email),
		attribute.Int("storefront.lines", receipt.Lines),
	)

	c.JSON(http.StatusCreated, gin.H{
		"email": receipt.Email,
		"lines": receipt.Lines,
		"total": receipt.Total,
	})
}

// BrowseOrders applies the requested order filters, mirroring BrowseProducts.
func (h *StorefrontHandler) BrowseOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "browse_orders")
	defer span.End()
	h.count(c)

	h.mu.Lock()
	defer h.mu.Unlock()

	email := c.DefaultQuery("filter_email", h.orders.EmailFilter())
	status := c.DefaultQuery("filter_status", h.orders.StatusFilter())
	page := intQuery(c, "page", h.orders.Page())
	pageSize := intQuery(c, "page_size", h.orders.PageSize())

	changed := false
	var err error
	if email != h.orders.EmailFilter() {
		changed = true
		err = h.orders.SetEmailFilter(ctx, email)
	}
	if err == nil && status != h.orders.StatusFilter() {
		changed = true
		err = h.orders.SetStatusFilter(ctx, status)
	}
	if err == nil && pageSize != h.orders.PageSize() {
		changed = true
		err = h.orders.SetPageSize(ctx, pageSize)
	}
	if err == nil && page != h.orders.Page() {
		changed = true
		err = h.orders.SetPage(ctx, page)
	}
	if err == nil && !changed {
		err = h.orders.Refresh(ctx)
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":      h.orders.Orders(),
		"page":        h.orders.Page(),
		"page_size":   h.orders.PageSize(),
		"total_pages": h.orders.TotalPages(),
	})
}

// CancelOrder runs the cancel transition and returns the refreshed list.
func (h *StorefrontHandler) CancelOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "cancel_order")
	defer span.End()
	h.count(c)

	h.mu.Lock()
	defer h.mu.Unlock()

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("storefront.order_id", orderID))

	if err := h.orders.Cancel(ctx, orderID); err != nil {
		span.RecordError(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":      h.orders.Orders(),
		"page":        h.orders.Page(),
		"total_pages": h.orders.TotalPages(),
	})
}

// HealthCheck reports gateway liveness.
func (h *StorefrontHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "storefront-gateway",
	})
}

func (h *StorefrontHandler) count(c *gin.Context) {
	h.requests.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("storefront.route", c.FullPath())),
	)
}

// statusFor maps the client error taxonomy onto gateway status codes.
func statusFor(err error) int {
	switch api.KindOf(err) {
	case api.KindValidation:
		return http.StatusBadRequest
	case api.KindServerRejected:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func intQuery(c *gin.Context, name string, current int) int {
	raw := c.Query(name)
	if raw == "" {
		return current
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return current
	}
	return value
}
