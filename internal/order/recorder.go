package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OrderService defines the methods for managing placed orders.
type OrderService interface {
	// Create records a new confirmed order.
	Create(ctx context.Context, draft Draft) (*Order, error)

	// GetByID retrieves a single order by its identifier.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	GetByID(ctx context.Context, id string) (*Order, error)

	// Update merges patch into an order and stamps its update time.
	// Returns ErrOrderNotFound if no order exists with the given ID and ErrInvalidStatus for an unknown status.
	Update(ctx context.Context, id string, patch Patch) (*Order, error)

	// Delete removes an order and returns it.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	Delete(ctx context.Context, id string) (*Order, error)

	// FindAll returns every order, oldest first.
	FindAll(ctx context.Context) ([]Order, error)

	// FindByStatus returns the orders currently in status.
	FindByStatus(ctx context.Context, status Status) ([]Order, error)

	// FindByEmail returns the orders billed to email, compared case-insensitively.
	FindByEmail(ctx context.Context, email string) ([]Order, error)
}

// Recorder implements OrderService over a Store.
type Recorder struct {
	store         Store
	mu            sync.Mutex // serializes read-merge-write in Update
	now           func() time.Time
	ordersCounter metric.Int64Counter
}

var _ OrderService = (*Recorder)(nil)

// NewRecorder creates a new instance of OrderService with the provided store.
func NewRecorder(store Store) *Recorder {
	meter := otel.Meter("storefront")
	ordersCounter, err := meter.Int64Counter("orders_created", metric.WithDescription("Total number of created orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_created counter: %v", err))
	}
	return &Recorder{store: store, now: time.Now, ordersCounter: ordersCounter}
}

func (r *Recorder) Create(ctx context.Context, draft Draft) (*Order, error) {
	o, err := r.store.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	r.ordersCounter.Add(ctx, 1)
	return o, nil
}

func (r *Recorder) GetByID(ctx context.Context, id string) (*Order, error) {
	return r.store.GetByID(ctx, id)
}

func (r *Recorder) Update(ctx context.Context, id string, patch Patch) (*Order, error) {
	if patch.Status != nil {
		if _, err := ParseStatus(string(*patch.Status)); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.ShippingAddress != nil {
		o.ShippingAddress = *patch.ShippingAddress
	}
	now := r.now().UTC()
	o.UpdatedAt = &now
	return r.store.Update(ctx, *o)
}

func (r *Recorder) Delete(ctx context.Context, id string) (*Order, error) {
	return r.store.Delete(ctx, id)
}

func (r *Recorder) FindAll(ctx context.Context) ([]Order, error) {
	return r.store.GetAll(ctx)
}

func (r *Recorder) FindByStatus(ctx context.Context, status Status) ([]Order, error) {
	return r.filter(ctx, func(o Order) bool { return o.Status == status })
}

func (r *Recorder) FindByEmail(ctx context.Context, email string) ([]Order, error) {
	return r.filter(ctx, func(o Order) bool { return strings.EqualFold(o.Billing.Email, email) })
}

func (r *Recorder) filter(ctx context.Context, keep func(Order) bool) ([]Order, error) {
	all, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	out := make([]Order, 0, len(all))
	for _, o := range all {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Attributes describes o for traces and logs.
func Attributes(o *Order) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("order.id", o.ID),
		attribute.String("order.status", string(o.Status)),
		attribute.Int("order.items", len(o.Items)),
	}
}
