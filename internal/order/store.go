package order

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
)

// FirstID is the id given to the first order of the process.
const FirstID = 1000

// Store is an interface for order storage operations.
type Store interface {
	// GetAll returns every order, oldest first.
	GetAll(ctx context.Context) ([]Order, error)

	// GetByID retrieves a single order by its identifier.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	GetByID(ctx context.Context, id string) (*Order, error)

	// Create assigns the next id and number, stamps the creation time and stores the order as confirmed.
	Create(ctx context.Context, draft Draft) (*Order, error)

	// Update replaces the stored order that has o.ID.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	Update(ctx context.Context, o Order) (*Order, error)

	// Delete removes an order and returns it.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	Delete(ctx context.Context, id string) (*Order, error)
}

// MemoryStore keeps orders in memory. Ids grow by one from FirstID and are never reused.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	orders []*Order
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: FirstID, now: time.Now}
}

func (s *MemoryStore) GetAll(_ context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = *o.clone()
	}
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, id)
	}
	return s.orders[i].clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, d Draft) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	o := &Order{
		ID:              id,
		Number:          "MH-" + id,
		Items:           append([]Item(nil), d.Items...),
		Subtotal:        d.Subtotal,
		Tax:             d.Tax,
		Shipping:        d.Shipping,
		Total:           d.Total,
		Billing:         d.Billing,
		ShippingAddress: d.ShippingAddress,
		CardLast4:       d.CardLast4,
		Status:          StatusConfirmed,
		CreatedAt:       s.now().UTC(),
	}
	s.orders = append(s.orders, o)
	return o.clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, o Order) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(o.ID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, o.ID)
	}
	s.orders[i] = o.clone()
	return s.orders[i].clone(), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOrderNotFound, id)
	}
	removed := s.orders[i]
	s.orders = slices.Delete(s.orders, i, i+1)
	return removed, nil
}

func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.orders, func(o *Order) bool { return o.ID == id })
}
