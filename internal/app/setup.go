// Package app contains the application setup for the storefront.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/mangahaven/internal/cart"
	"github.com/abgdnv/mangahaven/internal/catalog"
	"github.com/abgdnv/mangahaven/internal/checkout"
	"github.com/abgdnv/mangahaven/internal/config"
	"github.com/abgdnv/mangahaven/internal/order"
	"github.com/abgdnv/mangahaven/internal/transport/rest"
	"github.com/abgdnv/mangahaven/pkg/messaging"
	natsclient "github.com/abgdnv/mangahaven/pkg/nats"
	"github.com/abgdnv/mangahaven/pkg/server"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the gRPC health service name reported for the storefront.
const HealthService = "mangahaven.storefront"

type Dependencies struct {
	CatalogService  catalog.CatalogService
	CartService     cart.CartService
	CheckoutService checkout.CheckoutService
	OrderService    order.OrderService
	// MetricsHandler is mounted on MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
	CatalogSize    int
	Logger         *slog.Logger
}

// LoadCatalog reads the configured catalog file, or the built-in catalog when none is set.
func LoadCatalog(cfg config.CatalogConfig) (*catalog.MemoryStore, error) {
	var (
		items []catalog.Item
		err   error
	)
	if cfg.File != "" {
		items, err = catalog.LoadFile(cfg.File)
	} else {
		items, err = catalog.DefaultItems()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.NewMemoryStore(items)
}

// SetupDependencies builds the storefront services over an in-memory catalog and order store.
func SetupDependencies(cfg *config.Config, publisher messaging.Publisher, logger *slog.Logger) (*Dependencies, error) {
	store, err := LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	carts := cart.NewService(cart.NewRegistry(cfg.Cart.Limit()), store, cfg.Pricing.Rules())
	orders := order.NewRecorder(order.NewMemoryStore())

	return &Dependencies{
		CatalogService:  catalog.NewService(store),
		CartService:     carts,
		CheckoutService: checkout.NewService(carts, orders, publisher, checkout.NewValidator()),
		OrderService:    orders,
		MetricsPath:     cfg.Telemetry.Metrics.Path,
		CatalogSize:     store.Len(),
		Logger:          logger,
	}, nil
}

// SetupPublisher connects to JetStream behind a circuit breaker. With NATS disabled events are
// only logged. The returned func releases the connection.
func SetupPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		logger.Warn("NATS is disabled, order events are logged only")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}
	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Nats.Stream != "" {
		if _, err := natsclient.EnsureStream(ctx, js, cfg.Nats.Stream, cfg.Nats.Subjects); err != nil {
			nc.Close()
			return nil, nil, err
		}
	}
	logger.Info("Connected to NATS", slog.String("url", nc.ConnectedUrlRedacted()))
	publisher := messaging.NewBreakerPublisher(natsclient.NewNatsPublisher(js), cfg.Resilience.CircuitBreaker, logger)
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.String("error", err.Error()))
		}
	}
	return publisher, closeFn, nil
}

// SetupHttpHandler initializes the router and routes of the storefront.
// Used by tests to exercise the full middleware chain.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes of the storefront.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.CatalogService, deps.CartService, deps.CheckoutService, deps.OrderService, deps.Logger)
	handler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil && deps.MetricsPath != "" {
		mux.Handle(deps.MetricsPath, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures the storefront HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(server.FromConfig(cfg.HTTPServer), "storefront", SetupHttpHandler(deps))
}

// SetupGrpcServer creates the gRPC server exposing the standard health service.
// The storefront reports SERVING only once its catalog holds items.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	hs := health.NewServer()
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if deps.CatalogSize > 0 {
		status = healthpb.HealthCheckResponse_SERVING
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(HealthService, status)
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, server.WithHealth(hs)), hs
}
