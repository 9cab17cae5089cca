package catalog

import (
	"context"
	"fmt"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
)

// Source is the read side of the catalog.
type Source interface {
	// GetAll returns every item in catalog order.
	GetAll(ctx context.Context) ([]Item, error)

	// GetByID returns the item with the given id.
	// Returns ErrItemNotFound if no item exists with the given id.
	GetByID(ctx context.Context, id string) (*Item, error)
}

// MemoryStore is a Source over a fixed slice. Readers always get copies.
type MemoryStore struct {
	items []Item
	byID  map[string]int
}

var _ Source = (*MemoryStore)(nil)

// NewMemoryStore validates items and builds the store. Catalog order is the order of items.
func NewMemoryStore(items []Item) (*MemoryStore, error) {
	byID := make(map[string]int, len(items))
	for i, it := range items {
		if err := validateItem(it); err != nil {
			return nil, fmt.Errorf("item #%d: %w", i+1, err)
		}
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q: %w", it.ID, apperrors.ErrInvalidCatalog)
		}
		byID[it.ID] = i
	}
	return &MemoryStore{items: cloneAll(items), byID: byID}, nil
}

func (s *MemoryStore) GetAll(_ context.Context) ([]Item, error) {
	return cloneAll(s.items), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*Item, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrItemNotFound, id)
	}
	it := s.items[i].clone()
	return &it, nil
}

// Len returns the catalog size.
func (s *MemoryStore) Len() int {
	return len(s.items)
}
