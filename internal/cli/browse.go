package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/abgdnv/mangahaven/internal/catalog"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type browseFlags struct {
	search    string
	genre     string
	author    string
	publisher string
	inStock   bool
	maxPrice  string
	sort      string
}

func newBrowseCmd(opts *options) *cobra.Command {
	f := &browseFlags{}
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List catalog items matching the given filters",
		Example: `  mangactl browse --genre horror --sort price-desc
  mangactl browse --search "one piece" --in-stock --max-price 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := f.criteria()
			if err != nil {
				return err
			}
			store, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			result, err := catalog.NewService(store).Browse(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&f.search, "search", "", "substring of title, author or series")
	cmd.Flags().StringVar(&f.genre, "genre", "", "genre tag, case-insensitive")
	cmd.Flags().StringVar(&f.author, "author", "", "exact author name, case-insensitive")
	cmd.Flags().StringVar(&f.publisher, "publisher", "", "exact publisher name, case-insensitive")
	cmd.Flags().BoolVar(&f.inStock, "in-stock", false, "only items in stock")
	cmd.Flags().StringVar(&f.maxPrice, "max-price", "", "inclusive upper price bound")
	cmd.Flags().StringVar(&f.sort, "sort", "title", "title, author, price-asc, price-desc or newest")
	return cmd
}

func (f *browseFlags) criteria() (catalog.Criteria, error) {
	c := catalog.Criteria{
		Search:      f.search,
		Genre:       f.genre,
		Author:      f.author,
		Publisher:   f.publisher,
		InStockOnly: f.inStock,
		Sort:        catalog.ParseSortKey(f.sort),
	}
	if strings.TrimSpace(f.maxPrice) != "" {
		p, err := decimal.NewFromString(strings.TrimSpace(f.maxPrice))
		if err != nil || p.IsNegative() {
			return c, fmt.Errorf("invalid --max-price value: %q", f.maxPrice)
		}
		c.MaxPrice = &p
	}
	return c, nil
}

func printItems(out io.Writer, result *catalog.BrowseResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tPRICE\tSTOCK")
	for _, it := range result.Items {
		stock := "yes"
		if !it.InStock {
			stock = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Title, it.Author, pricing.Format(it.Price), stock)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d of %d items\n", len(result.Items), result.Total)
	return err
}
