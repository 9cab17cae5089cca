package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

// fixtureItems is a small catalog with ties on price and release date.
func fixtureItems() []Item {
	return []Item{
		{ID: "1", Title: "Naruto, Vol. 1", Author: "Masashi Kishimoto", Series: "Naruto", Publisher: "VIZ Media",
			Genres: []string{"action", "Adventure"}, Volume: 1, Price: price("9.99"), ReleaseDate: date("2003-08-16"), InStock: true},
		{ID: "2", Title: "berserk, Vol. 1", Author: "Kentaro Miura", Series: "Berserk", Publisher: "Dark Horse",
			Genres: []string{"ACTION", "Dark Fantasy"}, Volume: 1, Price: price("49.99"), ReleaseDate: date("2019-02-26"), InStock: true},
		{ID: "3", Title: "Death Note, Vol. 1", Author: "Tsugumi Ohba", Series: "Death Note", Publisher: "VIZ Media",
			Genres: []string{"Mystery", "Actionable"}, Volume: 1, Price: price("9.99"), ReleaseDate: date("2005-10-10"), InStock: false},
		{ID: "4", Title: "Naruto, Vol. 2", Author: "Masashi Kishimoto", Series: "Naruto", Publisher: "VIZ Media",
			Genres: []string{"Adventure"}, Volume: 2, Price: price("10.00"), ReleaseDate: date("2019-02-26"), InStock: true},
		{ID: "5", Title: "Éclair Diaries", Author: "Aiko Tanaka", Series: "", Publisher: "Yen Press",
			Genres: []string{"Slice of Life"}, Volume: 1, Price: price("50.00"), ReleaseDate: date("2021-01-05"), InStock: true},
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
