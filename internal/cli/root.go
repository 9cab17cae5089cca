// Package cli implements mangactl, the operator tool for browsing the catalog, pricing
// a basket offline and probing a running storefront.
package cli

import (
	"fmt"

	"github.com/abgdnv/mangahaven/internal/catalog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	catalogFile string
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "mangactl",
		Short: "MangaHaven catalog and storefront tool",
		Long: `mangactl browses the MangaHaven catalog, prices baskets with the storefront rules
and checks the health of a running storefront over gRPC.

Without --catalog the catalog compiled into the binary is used.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "path to a catalog yaml file")

	cmd.AddCommand(newBrowseCmd(opts))
	cmd.AddCommand(newFacetsCmd(opts))
	cmd.AddCommand(newQuoteCmd(opts))
	cmd.AddCommand(newHealthCmd())
	return cmd
}

// loadCatalog opens the configured catalog file or the built-in one.
func (o *options) loadCatalog() (*catalog.MemoryStore, error) {
	var items []catalog.Item
	var err error
	if o.catalogFile == "" {
		items, err = catalog.DefaultItems()
	} else {
		items, err = catalog.LoadFile(o.catalogFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.NewMemoryStore(items)
}
