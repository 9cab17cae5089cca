// Package cart implements the per-session shopping cart.
package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. UnitPrice is the catalog price at the time the item was first added.
type Line struct {
	ID        uuid.UUID
	ItemID    string
	Quantity  int
	UnitPrice decimal.Decimal
	AddedAt   time.Time
}

// LinePatch lists the fields Update may change. Nil fields are left alone.
type LinePatch struct {
	Quantity *int
}

// LineStore persists cart lines keyed by line id.
type LineStore interface {
	// GetAll returns every line in insertion order.
	GetAll(ctx context.Context) ([]Line, error)

	// Create stores a new line and assigns its id.
	Create(ctx context.Context, line Line) (*Line, error)

	// Update applies patch to the line with the given id.
	// Returns ErrLineNotFound if no line exists with the given id.
	Update(ctx context.Context, id uuid.UUID, patch LinePatch) (*Line, error)

	// Delete removes the line and returns it.
	// Returns ErrLineNotFound if no line exists with the given id.
	Delete(ctx context.Context, id uuid.UUID) (*Line, error)
}

// MemoryLineStore keeps lines in a slice, preserving insertion order.
type MemoryLineStore struct {
	mu    sync.RWMutex
	lines []Line
}

var _ LineStore = (*MemoryLineStore)(nil)

func NewMemoryLineStore() *MemoryLineStore {
	return &MemoryLineStore{}
}

func (s *MemoryLineStore) GetAll(_ context.Context) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lines), nil
}

func (s *MemoryLineStore) Create(_ context.Context, line Line) (*Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line.ID = uuid.New()
	s.lines = append(s.lines, line)
	return &line, nil
}

func (s *MemoryLineStore) Update(_ context.Context, id uuid.UUID, patch LinePatch) (*Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: line %s", apperrors.ErrLineNotFound, id)
	}
	if patch.Quantity != nil {
		s.lines[i].Quantity = *patch.Quantity
	}
	line := s.lines[i]
	return &line, nil
}

func (s *MemoryLineStore) Delete(_ context.Context, id uuid.UUID) (*Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: line %s", apperrors.ErrLineNotFound, id)
	}
	line := s.lines[i]
	s.lines = slices.Delete(s.lines, i, i+1)
	return &line, nil
}

func (s *MemoryLineStore) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.lines, func(l Line) bool { return l.ID == id })
}
