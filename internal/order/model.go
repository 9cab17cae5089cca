// Package order records finalized orders.
package order

import (
	"fmt"
	"time"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var statuses = []Status{StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus returns ErrInvalidStatus for anything but the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, s)
}

// Address is a billing or shipping address. Email and Phone are only set on billing.
type Address struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	Zip       string
	Country   string
}

// Item is an order line. Title and UnitPrice are copied from the cart at checkout.
type Item struct {
	ItemID    string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is a placed order. Amounts keep full precision.
type Order struct {
	ID              string
	Number          string
	Items           []Item
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
	Billing         Address
	ShippingAddress Address
	// CardLast4 holds the last four digits of the card used; the full number is never stored.
	CardLast4 string
	Status    Status
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Draft is everything the caller decides about a new order.
type Draft struct {
	Items           []Item
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Shipping        decimal.Decimal
	Total           decimal.Decimal
	Billing         Address
	ShippingAddress Address
	CardLast4       string
}

// Patch lists the fields Update may change. Nil fields are left alone.
type Patch struct {
	Status          *Status
	ShippingAddress *Address
}

func (o *Order) clone() *Order {
	c := *o
	c.Items = append([]Item(nil), o.Items...)
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
