package cli

import (
	"fmt"
	"strings"

	"github.com/abgdnv/mangahaven/internal/catalog"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/spf13/cobra"
)

func newFacetsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "Show the genres, authors, publishers and price range of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			f, err := catalog.NewService(store).Facets(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Genres:     %s\n", strings.Join(f.Genres, ", "))
			fmt.Fprintf(out, "Authors:    %s\n", strings.Join(f.Authors, ", "))
			fmt.Fprintf(out, "Publishers: %s\n", strings.Join(f.Publishers, ", "))
			fmt.Fprintf(out, "In stock:   %d (%d out of stock)\n", f.InStock, f.OutOfStock)
			_, err = fmt.Fprintf(out, "Price:      %s - %s\n", pricing.Format(f.MinPrice), pricing.Format(f.MaxPrice))
			return err
		},
	}
}
