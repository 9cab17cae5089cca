// Package checkout validates checkout forms and turns a session cart into an order.
package checkout

import (
	"fmt"
	"strings"

	apperrors "github.com/abgdnv/mangahaven/internal/errors"
)

// Form is the checkout form as submitted by the shopper.
type Form struct {
	Billing BillingInfo `json:"billing"`
	// SameAsBilling ships to the billing address; Shipping is then ignored.
	SameAsBilling bool         `json:"sameAsBilling"`
	Shipping      ShippingInfo `json:"shipping"`
	Payment       PaymentInfo  `json:"payment"`
}

type BillingInfo struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Email     string `json:"email" validate:"notblank,emailshape"`
	Phone     string `json:"phone"`
	Address   string `json:"address" validate:"notblank"`
	City      string `json:"city" validate:"notblank"`
	State     string `json:"state" validate:"notblank"`
	Zip       string `json:"zip" validate:"notblank"`
	Country   string `json:"country"`
}

type ShippingInfo struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Address   string `json:"address" validate:"notblank"`
	City      string `json:"city" validate:"notblank"`
	State     string `json:"state" validate:"notblank"`
	Zip       string `json:"zip" validate:"notblank"`
	Country   string `json:"country"`
}

// PaymentInfo is only validated, never stored apart from the last four card digits.
type PaymentInfo struct {
	CardNumber string `json:"cardNumber" validate:"notblank,cardnumber"`
	Expiry     string `json:"expiry" validate:"notblank,expiry"`
	CVV        string `json:"cvv" validate:"notblank,cvv"`
	CardName   string `json:"cardName" validate:"notblank"`
}

// ValidationError carries every violated field of a form, keyed like billing.firstName.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout form has %d invalid fields", len(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidationFailed
}

// last4 returns the last four digits of a card number, ignoring spaces.
func last4(cardNumber string) string {
	digits := strings.ReplaceAll(cardNumber, " ", "")
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
