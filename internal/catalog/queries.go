package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultRelatedLimit    = 4
	DefaultFeaturedLimit   = 4
	DefaultNewReleaseLimit = 6
)

// Facets lists the values a shopper can filter the catalog by.
type Facets struct {
	Genres     []string
	Authors    []string
	Publishers []string
	InStock    int
	OutOfStock int
	MinPrice   decimal.Decimal
	MaxPrice   decimal.Decimal
}

// BuildFacets collects the distinct genres, authors and publishers in collation order,
// the stock counts and the price range of items.
func BuildFacets(items []Item) Facets {
	f := Facets{Genres: []string{}, Authors: []string{}, Publishers: []string{}}
	genres := make(map[string]struct{})
	authors := make(map[string]struct{})
	publishers := make(map[string]struct{})
	for i, it := range items {
		for _, g := range it.Genres {
			addDistinct(&f.Genres, genres, g)
		}
		addDistinct(&f.Authors, authors, it.Author)
		addDistinct(&f.Publishers, publishers, it.Publisher)
		if it.InStock {
			f.InStock++
		} else {
			f.OutOfStock++
		}
		if i == 0 || it.Price.LessThan(f.MinPrice) {
			f.MinPrice = it.Price
		}
		if i == 0 || it.Price.GreaterThan(f.MaxPrice) {
			f.MaxPrice = it.Price
		}
	}
	col := newCollator()
	for _, values := range [][]string{f.Genres, f.Authors, f.Publishers} {
		slices.SortFunc(values, col.CompareString)
	}
	return f
}

func addDistinct(dst *[]string, seen map[string]struct{}, v string) {
	if v == "" {
		return
	}
	if _, ok := seen[v]; ok {
		return
	}
	seen[v] = struct{}{}
	*dst = append(*dst, v)
}

// Related returns up to limit other items that share target's series or at least one genre, in catalog order.
func Related(items []Item, target Item, limit int) []Item {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	out := make([]Item, 0, limit)
	for _, it := range items {
		if len(out) == limit {
			break
		}
		if it.ID == target.ID {
			continue
		}
		sameSeries := target.Series != "" && strings.EqualFold(it.Series, target.Series)
		if sameSeries || sharesGenre(it, target) {
			out = append(out, it.clone())
		}
	}
	return out
}

func sharesGenre(a, b Item) bool {
	for _, g := range b.Genres {
		if hasGenre(a, g) {
			return true
		}
	}
	return false
}

// Featured returns the first limit items in catalog order.
func Featured(items []Item, limit int) []Item {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return cloneAll(items[:min(limit, len(items))])
}

// NewReleases returns up to limit items, newest release first.
func NewReleases(items []Item, limit int) []Item {
	if limit <= 0 {
		limit = DefaultNewReleaseLimit
	}
	sorted := Apply(items, Criteria{Sort: SortNewest})
	return sorted[:min(limit, len(sorted))]
}
