package api

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingClient decorates an EshopAPI with OpenTelemetry spans, one per
// collaborator call.
type TracingClient struct {
	next   EshopAPI
	tracer trace.Tracer
}

// WithTracing wraps next with span instrumentation.
func WithTracing(next EshopAPI) *TracingClient {
	return &TracingClient{
		next:   next,
		tracer: otel.Tracer("eshop-api"),
	}
}

func (t *TracingClient) GetProducts(ctx context.Context, query ProductsQuery) (*ProductsPage, error) {
	ctx, span := t.tracer.Start(ctx, "eshop.get_products")
	defer span.End()

	span.SetAttributes(
		attribute.Int("eshop.page", query.Page),
		attribute.Int("eshop.limit", query.Limit),
		attribute.String("eshop.name_query", query.NameQuery),
		attribute.String("eshop.order_by", query.OrderBy),
		attribute.String("eshop.order", query.Order),
	)

	page, err := t.next.GetProducts(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get products failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("eshop.total_pages", page.TotalPages))
	return page, nil
}

func (t *TracingClient) CreateOrder(ctx context.Context, req CreateOrderRequest) error {
	ctx, span := t.tracer.Start(ctx, "eshop.create_order")
	defer span.End()

	span.SetAttributes(
		attribute.String("eshop.email", req.Email),
		attribute.Int("eshop.lines", len(req.Products)),
	)

	if err := t.next.CreateOrder(ctx, req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order failed")
		return err
	}
	return nil
}

func (t *TracingClient) GetOrders(ctx context.Context, query OrdersQuery) (*OrdersPage, error) {
	ctx, span := t.tracer.Start(ctx, "eshop.get_orders")
	defer span.End()

	span.SetAttributes(
		attribute.Int("eshop.page", query.Page),
		attribute.Int("eshop.limit", query.Limit),
		attribute.String("eshop.filter_email", query.FilterEmail),
		attribute.String("eshop.filter_status", query.FilterStatus),
	)

	page, err := t.next.GetOrders(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get orders failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("eshop.total_pages", page.TotalPages))
	return page, nil
}

func (t *TracingClient) CancelOrder(ctx context.Context, orderID string) error {
	ctx, span := t.tracer.Start(ctx, "eshop.cancel_order")
	defer span.End()

	span.SetAttributes(attribute.String("eshop.order_id", orderID))

	if err := t.next.CancelOrder(ctx, orderID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancel order failed")
		return err
	}
	return nil
}
