package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/shopspring/decimal"
)

// DefaultMaxQuantity is the per-line cap used when none is configured.
const DefaultMaxQuantity = 10

// Cart maps catalog item ids to lines. It holds at most one line per item and
// every line has a quantity of at least one.
//
// Mutations are serialized: each one reads the lines, locates the target and
// writes back while holding the cart lock.
type Cart struct {
	mu          sync.Mutex
	store       LineStore
	maxQuantity int
	now         func() time.Time
}

// New creates a cart over store. A maxQuantity of zero leaves line quantities unbounded.
func New(store LineStore, maxQuantity int) *Cart {
	return &Cart{store: store, maxQuantity: maxQuantity, now: time.Now}
}

// Add puts quantity units of itemID in the cart. An existing line keeps its
// price snapshot and grows by quantity; otherwise unitPrice becomes the snapshot.
func (c *Cart) Add(ctx context.Context, itemID string, quantity int, unitPrice decimal.Decimal) (Line, error) {
	if quantity < 1 {
		return Line{}, fmt.Errorf("%w: got %d", apperrors.ErrInvalidQuantity, quantity)
	}
	if unitPrice.IsNegative() {
		return Line{}, fmt.Errorf("%w: got %s", apperrors.ErrInvalidPrice, unitPrice)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.find(ctx, itemID)
	if err != nil {
		return Line{}, err
	}
	if existing == nil {
		if err := c.checkLimit(itemID, quantity); err != nil {
			return Line{}, err
		}
		created, err := c.store.Create(ctx, Line{ItemID: itemID, Quantity: quantity, UnitPrice: unitPrice, AddedAt: c.now()})
		if err != nil {
			return Line{}, fmt.Errorf("failed to create cart line: %w", err)
		}
		return *created, nil
	}

	merged := existing.Quantity + quantity
	if err := c.checkLimit(itemID, merged); err != nil {
		return Line{}, err
	}
	updated, err := c.store.Update(ctx, existing.ID, LinePatch{Quantity: &merged})
	if err != nil {
		return Line{}, fmt.Errorf("failed to update cart line: %w", err)
	}
	return *updated, nil
}

// SetQuantity replaces the quantity of the line for itemID.
// Zero is rejected; use Remove to drop a line.
func (c *Cart) SetQuantity(ctx context.Context, itemID string, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, fmt.Errorf("%w: got %d", apperrors.ErrInvalidQuantity, quantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.find(ctx, itemID)
	if err != nil {
		return Line{}, err
	}
	if existing == nil {
		return Line{}, fmt.Errorf("%w: %s", apperrors.ErrLineNotFound, itemID)
	}
	if err := c.checkLimit(itemID, quantity); err != nil {
		return Line{}, err
	}
	updated, err := c.store.Update(ctx, existing.ID, LinePatch{Quantity: &quantity})
	if err != nil {
		return Line{}, fmt.Errorf("failed to update cart line: %w", err)
	}
	return *updated, nil
}

// Remove deletes the line for itemID and returns it.
func (c *Cart) Remove(ctx context.Context, itemID string) (Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.find(ctx, itemID)
	if err != nil {
		return Line{}, err
	}
	if existing == nil {
		return Line{}, fmt.Errorf("%w: %s", apperrors.ErrLineNotFound, itemID)
	}
	removed, err := c.store.Delete(ctx, existing.ID)
	if err != nil {
		return Line{}, fmt.Errorf("failed to delete cart line: %w", err)
	}
	return *removed, nil
}

// Clear empties the cart and returns what it held. Clearing an empty cart returns an empty slice.
func (c *Cart) Clear(ctx context.Context) ([]Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	return c.deleteAll(ctx, lines)
}

// Take hands the current lines to fn and empties the cart once fn succeeds.
// The cart stays locked while fn runs, so no mutation can land between the
// read and the clear. When fn fails the cart is left as it was.
func (c *Cart) Take(ctx context.Context, fn func(lines []Line) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines, err := c.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart lines: %w", err)
	}
	if lines == nil {
		lines = []Line{}
	}
	if err := fn(lines); err != nil {
		return err
	}
	_, err = c.deleteAll(ctx, lines)
	return err
}

func (c *Cart) deleteAll(ctx context.Context, lines []Line) ([]Line, error) {
	removed := make([]Line, 0, len(lines))
	for _, l := range lines {
		r, err := c.store.Delete(ctx, l.ID)
		if err != nil {
			return removed, fmt.Errorf("failed to delete cart line: %w", err)
		}
		removed = append(removed, *r)
	}
	return removed, nil
}

// List returns a snapshot of the lines in the order they were added.
func (c *Cart) List(ctx context.Context) ([]Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// ItemCount returns the total number of units in the cart.
func (c *Cart) ItemCount(ctx context.Context) (int, error) {
	lines, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n, nil
}

func (c *Cart) find(ctx context.Context, itemID string) (*Line, error) {
	lines, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	i := slices.IndexFunc(lines, func(l Line) bool { return l.ItemID == itemID })
	if i < 0 {
		return nil, nil
	}
	return &lines[i], nil
}

func (c *Cart) checkLimit(itemID string, quantity int) error {
	if c.maxQuantity > 0 && quantity > c.maxQuantity {
		return fmt.Errorf("%w: %d of item %s is above %d", apperrors.ErrQuantityLimit, quantity, itemID, c.maxQuantity)
	}
	return nil
}

// PricingLines converts lines to the pricing pipeline input.
func PricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, len(lines))
	for i, l := range lines {
		out[i] = pricing.Line{Price: l.UnitPrice, Quantity: l.Quantity}
	}
	return out
}
