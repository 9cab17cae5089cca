// Package rest provides the HTTP API of the storefront: catalog browsing, the session cart,
// checkout and order administration.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abgdnv/mangahaven/internal/cart"
	"github.com/abgdnv/mangahaven/internal/catalog"
	"github.com/abgdnv/mangahaven/internal/checkout"
	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/abgdnv/mangahaven/internal/order"
	"github.com/abgdnv/mangahaven/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	catalog  catalog.CatalogService
	carts    cart.CartService
	checkout checkout.CheckoutService
	orders   order.OrderService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler over the storefront services.
func NewHandler(catalogService catalog.CatalogService, cartService cart.CartService,
	checkoutService checkout.CheckoutService, orderService order.OrderService, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:  catalogService,
		carts:    cartService,
		checkout: checkoutService,
		orders:   orderService,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes of the storefront.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/manga", func(r chi.Router) {
			r.Get("/", h.Browse)
			r.Get("/facets", h.Facets)
			r.Get("/featured", h.Featured)
			r.Get("/new-releases", h.NewReleases)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.FindManga)
				r.Get("/related", h.Related)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(web.SessionMiddleware(h.logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.ViewCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddToCart)
				r.Put("/items/{id}", h.UpdateCartItem)
				r.Delete("/items/{id}", h.RemoveCartItem)
			})
			r.Post("/checkout", h.Checkout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.FindOrder)
				r.Put("/", h.UpdateOrder)
				r.Delete("/", h.DeleteOrder)
			})
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondError maps a service error onto a status code. Client errors carry the error text,
// anything unexpected is logged and answered with fallback.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	var validationErr *checkout.ValidationError
	switch {
	case errors.As(err, &validationErr):
		logger.WarnContext(r.Context(), "Validation errors occurred", "errors", validationErr.Fields)
		web.RespondValidationErrors(w, logger, validationErr.Fields)
	case errors.Is(err, apperrors.ErrNotFound):
		logger.WarnContext(r.Context(), "Resource not found", "error", err)
		web.RespondError(w, logger, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrMalformed):
		logger.WarnContext(r.Context(), "Malformed request", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		logger.WarnContext(r.Context(), "Request conflicts with current state", "error", err)
		web.RespondError(w, logger, http.StatusConflict, err.Error())
	default:
		logger.ErrorContext(r.Context(), fallback, "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, fallback)
	}
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
