package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/abgdnv/mangahaven/internal/catalog"
	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/google/uuid"
)

// CartService defines the cart operations available to a shopper session.
type CartService interface {
	// AddItem adds quantity units of a catalog item at its current price.
	// Returns ErrItemNotFound for an unknown item and ErrOutOfStock for an unavailable one.
	AddItem(ctx context.Context, sessionID uuid.UUID, itemID string, quantity int) (*Line, error)

	// UpdateQuantity sets the quantity of an item already in the cart.
	// Returns ErrLineNotFound if the item is not in the cart.
	UpdateQuantity(ctx context.Context, sessionID uuid.UUID, itemID string, quantity int) (*Line, error)

	// RemoveItem drops an item from the cart.
	// Returns ErrLineNotFound if the item is not in the cart.
	RemoveItem(ctx context.Context, sessionID uuid.UUID, itemID string) (*Line, error)

	// Clear empties the cart and returns the removed lines.
	Clear(ctx context.Context, sessionID uuid.UUID) ([]Line, error)

	// View returns the cart lines with catalog details and the pricing summary.
	View(ctx context.Context, sessionID uuid.UUID) (*View, error)

	// Checkout passes the current view to place and empties the cart if place succeeds.
	// The cart cannot change between the view and the clear.
	Checkout(ctx context.Context, sessionID uuid.UUID, place func(*View) error) error
}

// ViewLine is a cart line joined with the catalog item it refers to.
// Title and CoverImage are empty when the item has left the catalog.
type ViewLine struct {
	Line
	Title      string
	Author     string
	CoverImage string
	InStock    bool
}

// View is what a shopper sees on the cart page.
type View struct {
	Lines   []ViewLine
	Summary pricing.Summary
}

// Service implements CartService on top of a Registry and the catalog.
type Service struct {
	carts   *Registry
	catalog catalog.Source
	rules   pricing.Rules
}

var _ CartService = (*Service)(nil)

// NewService creates a new instance of CartService.
func NewService(carts *Registry, source catalog.Source, rules pricing.Rules) *Service {
	return &Service{carts: carts, catalog: source, rules: rules}
}

func (s *Service) AddItem(ctx context.Context, sessionID uuid.UUID, itemID string, quantity int) (*Line, error) {
	item, err := s.catalog.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.InStock {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrOutOfStock, item.Title)
	}
	line, err := s.carts.Get(sessionID).Add(ctx, item.ID, quantity, item.Price)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID uuid.UUID, itemID string, quantity int) (*Line, error) {
	c, ok := s.carts.Lookup(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrLineNotFound, itemID)
	}
	line, err := c.SetQuantity(ctx, itemID, quantity)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID uuid.UUID, itemID string) (*Line, error) {
	c, ok := s.carts.Lookup(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrLineNotFound, itemID)
	}
	line, err := c.Remove(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *Service) Clear(ctx context.Context, sessionID uuid.UUID) ([]Line, error) {
	c, ok := s.carts.Lookup(sessionID)
	if !ok {
		return []Line{}, nil
	}
	return c.Clear(ctx)
}

func (s *Service) View(ctx context.Context, sessionID uuid.UUID) (*View, error) {
	c, ok := s.carts.Lookup(sessionID)
	if !ok {
		return s.view(ctx, nil)
	}
	lines, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, lines)
}

func (s *Service) Checkout(ctx context.Context, sessionID uuid.UUID, place func(*View) error) error {
	c, ok := s.carts.Lookup(sessionID)
	if !ok {
		view, err := s.view(ctx, nil)
		if err != nil {
			return err
		}
		return place(view)
	}
	return c.Take(ctx, func(lines []Line) error {
		view, err := s.view(ctx, lines)
		if err != nil {
			return err
		}
		return place(view)
	})
}

func (s *Service) view(ctx context.Context, lines []Line) (*View, error) {
	view := &View{Lines: make([]ViewLine, 0, len(lines)), Summary: s.rules.Summarize(PricingLines(lines))}
	for _, l := range lines {
		vl := ViewLine{Line: l}
		item, err := s.catalog.GetByID(ctx, l.ItemID)
		switch {
		case err == nil:
			vl.Title = item.Title
			vl.Author = item.Author
			vl.CoverImage = item.CoverImage
			vl.InStock = item.InStock
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, fmt.Errorf("failed to load catalog item %s: %w", l.ItemID, err)
		}
		view.Lines = append(view.Lines, vl)
	}
	return view, nil
}
