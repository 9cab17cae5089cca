// Package catalog holds the manga catalog: the item model, its read-only store and the
// browse, filter and sort operations over it.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one purchasable manga volume. Items are immutable once loaded.
type Item struct {
	ID          string
	Title       string
	Author      string
	Series      string
	Publisher   string
	Genres      []string
	Volume      int
	Price       decimal.Decimal
	ReleaseDate time.Time
	InStock     bool
	Synopsis    string
	// CoverImage is a URI; empty means the client shows its placeholder cover.
	CoverImage string
}

// clone returns a copy that shares no mutable state with it.
func (it Item) clone() Item {
	it.Genres = append([]string(nil), it.Genres...)
	return it
}

func cloneAll(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}
