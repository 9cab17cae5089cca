package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of a browse result.
type SortKey string

const (
	SortTitle     SortKey = "title"
	SortAuthor    SortKey = "author"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps the query spelling of a sort key. Unknown or empty values sort by title.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "author":
		return SortAuthor
	case "price-asc", "price-low":
		return SortPriceAsc
	case "price-desc", "price-high":
		return SortPriceDesc
	case "newest":
		return SortNewest
	default:
		return SortTitle
	}
}

// Criteria narrows and orders the catalog. Blank strings and a nil MaxPrice are unset.
type Criteria struct {
	Search      string
	Genre       string
	Author      string
	Publisher   string
	InStockOnly bool
	// MaxPrice is an inclusive upper bound.
	MaxPrice *decimal.Decimal
	Sort     SortKey
}

// IsZero reports whether no filter is set. Sort is not a filter.
func (c Criteria) IsZero() bool {
	n := c.normalized()
	return n.Search == "" && n.Genre == "" && n.Author == "" && n.Publisher == "" && !n.InStockOnly && n.MaxPrice == nil
}

func (c Criteria) normalized() Criteria {
	c.Search = strings.ToLower(strings.TrimSpace(c.Search))
	c.Genre = strings.TrimSpace(c.Genre)
	c.Author = strings.TrimSpace(c.Author)
	c.Publisher = strings.TrimSpace(c.Publisher)
	return c
}

// Apply returns the items matching every set criterion, ordered by c.Sort.
// The input is never modified and the result never shares genre slices with it.
// Sorting is stable: ties keep catalog order.
func Apply(items []Item, c Criteria) []Item {
	n := c.normalized()
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if n.matches(it) {
			out = append(out, it.clone())
		}
	}
	sortItems(out, n.Sort)
	return out
}

// matches runs the stages in order: search, genre, author, publisher, stock, price.
func (c Criteria) matches(it Item) bool {
	if c.Search != "" &&
		!strings.Contains(strings.ToLower(it.Title), c.Search) &&
		!strings.Contains(strings.ToLower(it.Author), c.Search) &&
		!strings.Contains(strings.ToLower(it.Series), c.Search) {
		return false
	}
	if c.Genre != "" && !hasGenre(it, c.Genre) {
		return false
	}
	if c.Author != "" && !strings.EqualFold(it.Author, c.Author) {
		return false
	}
	if c.Publisher != "" && !strings.EqualFold(it.Publisher, c.Publisher) {
		return false
	}
	if c.InStockOnly && !it.InStock {
		return false
	}
	if c.MaxPrice != nil && it.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	return true
}

func hasGenre(it Item, genre string) bool {
	return slices.ContainsFunc(it.Genres, func(g string) bool {
		return strings.EqualFold(g, genre)
	})
}

// newCollator is created per call; a collate.Collator is not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

func sortItems(items []Item, key SortKey) {
	switch key {
	case SortAuthor:
		col := newCollator()
		slices.SortStableFunc(items, func(a, b Item) int {
			return col.CompareString(a.Author, b.Author)
		})
	case SortPriceAsc:
		slices.SortStableFunc(items, func(a, b Item) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(items, func(a, b Item) int {
			return b.Price.Cmp(a.Price)
		})
	case SortNewest:
		slices.SortStableFunc(items, func(a, b Item) int {
			return b.ReleaseDate.Compare(a.ReleaseDate)
		})
	default:
		col := newCollator()
		slices.SortStableFunc(items, func(a, b Item) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
}
