package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/abgdnv/mangahaven/internal/cart"
	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type quoteFlags struct {
	maxQuantity  int
	taxRate      string
	freeShipping string
	shippingFee  string
}

type quoteLine struct {
	itemID   string
	quantity int
}

func newQuoteCmd(opts *options) *cobra.Command {
	f := &quoteFlags{}
	defaults := pricing.DefaultRules()
	cmd := &cobra.Command{
		Use:   "quote <id>[:<qty>]...",
		Short: "Price a basket of catalog items",
		Long: `Quote adds the given items to an empty cart and prints the pricing summary the
storefront would show. A missing quantity means one copy; repeated ids add up.`,
		Example: "  mangactl quote 10:1 3:2",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := parseQuoteArgs(args)
			if err != nil {
				return err
			}
			rules, err := f.rules()
			if err != nil {
				return err
			}
			store, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			svc := cart.NewService(cart.NewRegistry(f.maxQuantity), store, rules)
			session := uuid.New()
			for _, l := range lines {
				if _, err := svc.AddItem(cmd.Context(), session, l.itemID, l.quantity); err != nil {
					return fmt.Errorf("cannot add %s: %w", l.itemID, err)
				}
			}
			view, err := svc.View(cmd.Context(), session)
			if err != nil {
				return err
			}
			return printQuote(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().IntVar(&f.maxQuantity, "max-quantity", cart.DefaultMaxQuantity, "per-item quantity cap, 0 for none")
	cmd.Flags().StringVar(&f.taxRate, "tax-rate", defaults.TaxRate.String(), "tax rate as a fraction")
	cmd.Flags().StringVar(&f.freeShipping, "free-shipping-threshold", pricing.Format(defaults.FreeShippingThreshold), "subtotal above which shipping is free")
	cmd.Flags().StringVar(&f.shippingFee, "shipping-fee", pricing.Format(defaults.ShippingFee), "flat shipping fee")
	return cmd
}

// parseQuoteArgs reads id[:qty] arguments.
func parseQuoteArgs(args []string) ([]quoteLine, error) {
	lines := make([]quoteLine, 0, len(args))
	for _, arg := range args {
		id, qty, found := strings.Cut(arg, ":")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: empty item id in %q", apperrors.ErrMalformed, arg)
		}
		l := quoteLine{itemID: id, quantity: 1}
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qty))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid quantity in %q", apperrors.ErrMalformed, arg)
			}
			l.quantity = n
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func (f *quoteFlags) rules() (pricing.Rules, error) {
	var r pricing.Rules
	for _, p := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"--tax-rate", f.taxRate, &r.TaxRate},
		{"--free-shipping-threshold", f.freeShipping, &r.FreeShippingThreshold},
		{"--shipping-fee", f.shippingFee, &r.ShippingFee},
	} {
		d, err := decimal.NewFromString(strings.TrimSpace(p.value))
		if err != nil || d.IsNegative() {
			return r, fmt.Errorf("invalid %s value: %q", p.name, p.value)
		}
		*p.dst = d
	}
	return r, nil
}

func printQuote(out io.Writer, view *cart.View) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tTITLE\tQTY\tPRICE\tLINE\t")
	for _, l := range view.Lines {
		total := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t\n", l.ItemID, l.Title, l.Quantity, pricing.Format(l.UnitPrice), pricing.Format(total))
	}
	s := view.Summary.Rounded()
	for _, row := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Subtotal", s.Subtotal},
		{"Tax", s.Tax},
		{"Shipping", s.Shipping},
		{"Total", s.Total},
	} {
		fmt.Fprintf(w, "\t%s\t\t\t%s\t\n", row.label, pricing.Format(row.amount))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d items\n", s.ItemCount)
	return err
}
