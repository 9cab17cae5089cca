package checkout

import (
	"context"
	"log/slog"
	"strings"

	"github.com/abgdnv/mangahaven/internal/cart"
	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/abgdnv/mangahaven/internal/order"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/abgdnv/mangahaven/pkg/messaging"
	"github.com/abgdnv/mangahaven/pkg/messaging/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// CheckoutService places orders from session carts.
type CheckoutService interface {
	// PlaceOrder validates form, records the cart contents as an order and empties the cart.
	// Returns a *ValidationError for an invalid form and ErrEmptyCart when there is nothing to order.
	PlaceOrder(ctx context.Context, sessionID uuid.UUID, form Form) (*order.Order, error)
}

// Service implements CheckoutService.
type Service struct {
	carts     cart.CartService
	orders    order.OrderService
	publisher messaging.Publisher
	validator *Validator
	tracer    trace.Tracer
}

var _ CheckoutService = (*Service)(nil)

// NewService creates a new instance of CheckoutService.
func NewService(carts cart.CartService, orders order.OrderService, publisher messaging.Publisher, validator *Validator) *Service {
	return &Service{
		carts:     carts,
		orders:    orders,
		publisher: publisher,
		validator: validator,
		tracer:    otel.Tracer("storefront/checkout"),
	}
}

func (s *Service) PlaceOrder(ctx context.Context, sessionID uuid.UUID, form Form) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "PlaceOrder")
	defer span.End()

	if fields := s.validator.Validate(form); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var (
		view    *cart.View
		created *order.Order
	)
	err := s.carts.Checkout(ctx, sessionID, func(v *cart.View) error {
		if len(v.Lines) == 0 {
			return apperrors.ErrEmptyCart
		}
		o, err := s.orders.Create(ctx, newDraft(form, v))
		if err != nil {
			return err
		}
		view, created = v, o
		return nil
	})
	switch {
	case err != nil && created == nil:
		return nil, err
	case err != nil:
		// the order is already recorded
		slog.ErrorContext(ctx, "Failed to clear cart after checkout", "order_id", created.ID, "error", err)
	}
	span.SetAttributes(order.Attributes(created)...)

	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	event := events.OrderConfirmedEvent{
		Carrier:      carrier,
		OrderID:      created.ID,
		OrderNumber:  created.Number,
		Email:        created.Billing.Email,
		CustomerName: strings.TrimSpace(created.Billing.FirstName + " " + created.Billing.LastName),
		ItemCount:    view.Summary.ItemCount,
		Total:        pricing.Format(created.Total),
		CreatedAt:    created.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish OrderConfirmedEvent", "order_id", created.ID, "error", err)
	}

	return created, nil
}

func newDraft(form Form, view *cart.View) order.Draft {
	items := make([]order.Item, len(view.Lines))
	for i, l := range view.Lines {
		items[i] = order.Item{ItemID: l.ItemID, Title: l.Title, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	b := form.Billing
	billing := order.Address{
		FirstName: strings.TrimSpace(b.FirstName),
		LastName:  strings.TrimSpace(b.LastName),
		Email:     strings.TrimSpace(b.Email),
		Phone:     strings.TrimSpace(b.Phone),
		Address:   strings.TrimSpace(b.Address),
		City:      strings.TrimSpace(b.City),
		State:     strings.TrimSpace(b.State),
		Zip:       strings.TrimSpace(b.Zip),
		Country:   strings.TrimSpace(b.Country),
	}
	shipping := billing
	shipping.Email, shipping.Phone = "", ""
	if !form.SameAsBilling {
		sh := form.Shipping
		shipping = order.Address{
			FirstName: strings.TrimSpace(sh.FirstName),
			LastName:  strings.TrimSpace(sh.LastName),
			Address:   strings.TrimSpace(sh.Address),
			City:      strings.TrimSpace(sh.City),
			State:     strings.TrimSpace(sh.State),
			Zip:       strings.TrimSpace(sh.Zip),
			Country:   strings.TrimSpace(sh.Country),
		}
	}
	return order.Draft{
		Items:           items,
		Subtotal:        view.Summary.Subtotal,
		Tax:             view.Summary.Tax,
		Shipping:        view.Summary.Shipping,
		Total:           view.Summary.Total,
		Billing:         billing,
		ShippingAddress: shipping,
		CardLast4:       last4(form.Payment.CardNumber),
	}
}
