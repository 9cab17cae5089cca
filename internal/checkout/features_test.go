package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abgdnv/mangahaven/internal/cart"
	"github.com/abgdnv/mangahaven/internal/catalog"
	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/abgdnv/mangahaven/internal/order"
	"github.com/abgdnv/mangahaven/internal/pricing"
	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type checkoutTestContext struct {
	session   uuid.UUID
	carts     *cart.Service
	checkout  *Service
	publisher *mockPublisher
	placed    *order.Order
	err       error
}

func (c *checkoutTestContext) reset() {
	c.session = uuid.New()
	c.carts = nil
	c.checkout = nil
	c.publisher = &mockPublisher{}
	c.placed = nil
	c.err = nil
}

func (c *checkoutTestContext) theCatalogContains(table *godog.Table) error {
	items := make([]catalog.Item, 0, len(table.Rows))
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		price, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		items = append(items, catalog.Item{
			ID:          row.Cells[0].Value,
			Title:       row.Cells[1].Value,
			Genres:      []string{"Manga"},
			Volume:      1,
			Price:       price,
			ReleaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			InStock:     row.Cells[3].Value == "yes",
		})
	}
	source, err := catalog.NewMemoryStore(items)
	if err != nil {
		return err
	}
	c.carts = cart.NewService(cart.NewRegistry(cart.DefaultMaxQuantity), source, pricing.DefaultRules())
	c.checkout = NewService(c.carts, order.NewRecorder(order.NewMemoryStore()), c.publisher, NewValidator())
	return nil
}

func (c *checkoutTestContext) iAddOfItemToTheCart(quantity int, itemID string) error {
	_, c.err = c.carts.AddItem(context.Background(), c.session, itemID, quantity)
	return nil
}

func (c *checkoutTestContext) summary() (pricing.Summary, error) {
	view, err := c.carts.View(context.Background(), c.session)
	if err != nil {
		return pricing.Summary{}, err
	}
	return view.Summary, nil
}

func (c *checkoutTestContext) amountIs(name string, pick func(pricing.Summary) decimal.Decimal) func(string) error {
	return func(expected string) error {
		s, err := c.summary()
		if err != nil {
			return err
		}
		if got := pricing.Format(pick(s)); got != expected {
			return fmt.Errorf("expected %s %s, got %s", name, expected, got)
		}
		return nil
	}
}

func (c *checkoutTestContext) theCartHasLines(n int) error {
	view, err := c.carts.View(context.Background(), c.session)
	if err != nil {
		return err
	}
	if len(view.Lines) != n {
		return fmt.Errorf("expected %d lines, got %d", n, len(view.Lines))
	}
	return nil
}

func (c *checkoutTestContext) itemHasQuantity(itemID string, quantity int) error {
	view, err := c.carts.View(context.Background(), c.session)
	if err != nil {
		return err
	}
	for _, l := range view.Lines {
		if l.ItemID == itemID {
			if l.Quantity != quantity {
				return fmt.Errorf("expected quantity %d, got %d", quantity, l.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("item %s is not in the cart", itemID)
}

func (c *checkoutTestContext) theRequestFailsWith(target error) func() error {
	return func() error {
		if !errors.Is(c.err, target) {
			return fmt.Errorf("expected %v, got %v", target, c.err)
		}
		return nil
	}
}

func (c *checkoutTestContext) iCheckOutWithAValidForm() error {
	c.placed, c.err = c.checkout.PlaceOrder(context.Background(), c.session, validForm())
	return nil
}

func (c *checkoutTestContext) iCheckOutWithABlankFormShippingToASeparateAddress() error {
	c.placed, c.err = c.checkout.PlaceOrder(context.Background(), c.session, Form{SameAsBilling: false})
	return nil
}

func (c *checkoutTestContext) orderIsConfirmedWithTotal(number, total string) error {
	if c.err != nil {
		return fmt.Errorf("expected an order but got error: %v", c.err)
	}
	if c.placed.Number != number {
		return fmt.Errorf("expected order %s, got %s", number, c.placed.Number)
	}
	if c.placed.Status != order.StatusConfirmed {
		return fmt.Errorf("expected status confirmed, got %s", c.placed.Status)
	}
	if got := pricing.Format(c.placed.Total); got != total {
		return fmt.Errorf("expected total %s, got %s", total, got)
	}
	return nil
}

func (c *checkoutTestContext) anOrderConfirmationWasPublished() error {
	if len(c.publisher.events) != 1 {
		return fmt.Errorf("expected 1 published event, got %d", len(c.publisher.events))
	}
	return nil
}

func (c *checkoutTestContext) validationFields() (map[string]string, error) {
	var ve *ValidationError
	if !errors.As(c.err, &ve) {
		return nil, fmt.Errorf("expected a validation error, got %v", c.err)
	}
	return ve.Fields, nil
}

func (c *checkoutTestContext) theCheckoutIsRejectedWithFieldErrors(n int) error {
	fields, err := c.validationFields()
	if err != nil {
		return err
	}
	if len(fields) != n {
		return fmt.Errorf("expected %d field errors, got %d: %v", n, len(fields), fields)
	}
	return nil
}

func (c *checkoutTestContext) fieldReports(field, message string) error {
	fields, err := c.validationFields()
	if err != nil {
		return err
	}
	if fields[field] != message {
		return fmt.Errorf("expected %s to report %q, got %q", field, message, fields[field])
	}
	return nil
}

func (c *checkoutTestContext) fieldHasNoError(field string) error {
	fields, err := c.validationFields()
	if err != nil {
		return err
	}
	if msg, ok := fields[field]; ok {
		return fmt.Errorf("expected no error for %s, got %q", field, msg)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog contains:$`, tc.theCatalogContains)

	// When steps
	ctx.Step(`^I add (\d+) of item "([^"]*)" to the cart$`, tc.iAddOfItemToTheCart)
	ctx.Step(`^I check out with a valid form$`, tc.iCheckOutWithAValidForm)
	ctx.Step(`^I check out with a blank form shipping to a separate address$`, tc.iCheckOutWithABlankFormShippingToASeparateAddress)

	// Then steps
	ctx.Step(`^the cart subtotal is "([^"]*)"$`, tc.amountIs("subtotal", func(s pricing.Summary) decimal.Decimal { return s.Subtotal }))
	ctx.Step(`^the cart tax is "([^"]*)"$`, tc.amountIs("tax", func(s pricing.Summary) decimal.Decimal { return s.Tax }))
	ctx.Step(`^the cart shipping is "([^"]*)"$`, tc.amountIs("shipping", func(s pricing.Summary) decimal.Decimal { return s.Shipping }))
	ctx.Step(`^the cart total is "([^"]*)"$`, tc.amountIs("total", func(s pricing.Summary) decimal.Decimal { return s.Total }))
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^item "([^"]*)" has quantity (\d+)$`, tc.itemHasQuantity)
	ctx.Step(`^the request fails because the item is out of stock$`, tc.theRequestFailsWith(apperrors.ErrOutOfStock))
	ctx.Step(`^the request fails because the cart is empty$`, tc.theRequestFailsWith(apperrors.ErrEmptyCart))
	ctx.Step(`^order "([^"]*)" is confirmed with total "([^"]*)"$`, tc.orderIsConfirmedWithTotal)
	ctx.Step(`^an order confirmation was published$`, tc.anOrderConfirmationWasPublished)
	ctx.Step(`^the checkout is rejected with (\d+) field errors$`, tc.theCheckoutIsRejectedWithFieldErrors)
	ctx.Step(`^field "([^"]*)" reports "([^"]*)"$`, tc.fieldReports)
	ctx.Step(`^field "([^"]*)" has no error$`, tc.fieldHasNoError)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
