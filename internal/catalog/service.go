package catalog

import (
	"context"
	"fmt"
)

// CatalogService defines the read operations shoppers run against the catalog.
type CatalogService interface {
	// Browse filters and sorts the catalog.
	// Returns an empty result, not an error, when nothing matches.
	Browse(ctx context.Context, c Criteria) (*BrowseResult, error)

	// FindByID retrieves a single item by its id.
	// Returns ErrItemNotFound if no item exists with the given id.
	FindByID(ctx context.Context, id string) (*Item, error)

	// Facets returns the filter values available over the whole catalog.
	Facets(ctx context.Context) (*Facets, error)

	// Related returns items sharing the series or a genre with the given item.
	// Returns ErrItemNotFound if the item does not exist.
	Related(ctx context.Context, id string, limit int) ([]Item, error)

	// Featured returns the items shown first on the home page.
	Featured(ctx context.Context, limit int) ([]Item, error)

	// NewReleases returns the most recently released items.
	NewReleases(ctx context.Context, limit int) ([]Item, error)
}

// BrowseResult is a filtered page of the catalog. Total is the unfiltered catalog size.
type BrowseResult struct {
	Items []Item
	Total int
}

// Service implements CatalogService over a Source.
type Service struct {
	source Source
}

var _ CatalogService = (*Service)(nil)

// NewService creates a new instance of CatalogService with the provided source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

func (s *Service) Browse(ctx context.Context, c Criteria) (*BrowseResult, error) {
	items, err := s.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if c.IsZero() {
		all := cloneAll(items)
		sortItems(all, c.Sort)
		return &BrowseResult{Items: all, Total: len(items)}, nil
	}
	return &BrowseResult{Items: Apply(items, c), Total: len(items)}, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*Item, error) {
	return s.source.GetByID(ctx, id)
}

func (s *Service) Facets(ctx context.Context) (*Facets, error) {
	items, err := s.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	f := BuildFacets(items)
	return &f, nil
}

func (s *Service) Related(ctx context.Context, id string, limit int) ([]Item, error) {
	target, err := s.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return Related(items, *target, limit), nil
}

func (s *Service) Featured(ctx context.Context, limit int) ([]Item, error) {
	items, err := s.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return Featured(items, limit), nil
}

func (s *Service) NewReleases(ctx context.Context, limit int) ([]Item, error) {
	items, err := s.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return NewReleases(items, limit), nil
}
