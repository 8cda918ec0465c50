package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/matheusmosca/eshop-storefront/api"
	"github.com/matheusmosca/eshop-storefront/cart"
	"github.com/matheusmosca/eshop-storefront/catalog"
	"github.com/matheusmosca/eshop-storefront/orders"
)

func main() {
	// Initialize OpenTelemetry
	tp, err := initTracer()
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	mp, err := initMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down meter: %v", err)
		}
	}()

	// Initialize the cart record store (file by default, Redis or Postgres
	// when configured)
	records, err := initRecordStore()
	if err != nil {
		log.Fatalf("Failed to initialize cart record store: %v", err)
	}

	cartStore, err := cart.NewStore(context.Background(), records)
	if err != nil {
		log.Fatalf("Failed to hydrate cart: %v", err)
	}
	log.Printf("🛒 Cart hydrated with %d line(s)", cartStore.Len())

	// Initialize the e-shop collaborator client
	eshop := api.WithTracing(api.NewClient(getEnv("STOREFRONT_API_URL", "http://localhost:5000")))

	catalogBrowser := catalog.NewBrowser(eshop)
	ordersBrowser := orders.NewBrowser(eshop)
	checkout := orders.NewCheckout(eshop, cartStore)

	tracer := tp.Tracer("storefront")
	handler, err := NewStorefrontHandler(catalogBrowser, ordersBrowser, cartStore, checkout, tracer)
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}

	// Setup Gin router
	r := gin.Default()
	r.Use(RequestID())
	r.Use(otelgin.Middleware(getEnv("SERVICE_NAME", "storefront-gateway")))

	// Health check
	r.GET("/health", handler.HealthCheck)

	// Catalog
	r.GET("/api/products", handler.BrowseProducts)

	// Cart
	r.GET("/api/cart", handler.GetCart)
	r.POST("/api/cart/items", handler.AddToCart)
	r.PUT("/api/cart/items/:id", handler.SetCartQuantity)
	r.DELETE("/api/cart/items/:id", handler.RemoveFromCart)

	// Checkout and past orders
	r.POST("/api/checkout", handler.SubmitOrder)
	r.GET("/api/orders", handler.BrowseOrders)
	r.DELETE("/api/orders/:id", handler.CancelOrder)

	port := getEnv("PORT", "8090")
	log.Printf("🚀 Storefront gateway listening on port %s", port)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initRecordStore picks the cart persistence backend from the environment.
// Exactly one record named "cart" is kept regardless of the backend.
func initRecordStore() (cart.RecordStore, error) {
	if dsn := os.Getenv("CART_DATABASE_URL"); dsn != "" {
		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			return nil, err
		}
		store := cart.NewPostgresRecordStore(pool)
		if err := store.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		log.Println("✅ Cart record store: postgres")
		return store, nil
	}

	if addr := os.Getenv("CART_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		log.Println("✅ Cart record store: redis")
		return cart.NewRedisRecordStore(client), nil
	}

	path := getEnv("CART_RECORD_PATH", "cart.json")
	log.Printf("✅ Cart record store: file (%s)", path)
	return cart.NewFileRecordStore(path), nil
}

func initTracer() (*sdktrace.TracerProvider, error) {
	ctx := context.Background()

	otlpEndpoint := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(otlpEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(getEnv("SERVICE_NAME", "storefront-gateway")),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otel.SetTracerProvider(tp)

	return tp, nil
}

func initMetrics() (*sdkmetric.MeterProvider, error) {
	ctx := context.Background()

	otlpEndpoint := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(otlpEndpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(getEnv("SERVICE_NAME", "storefront-gateway")),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
