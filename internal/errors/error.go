// Package errors provides the sentinel errors for storefront operations.
// Callers match categories with errors.Is: every specific error wraps its category.
package errors

import (
	"errors"
	"fmt"
)

// Categories.
var ErrNotFound = errors.New("not found")
var ErrMalformed = errors.New("malformed input")
var ErrValidationFailed = errors.New("validation failed")
var ErrConflict = errors.New("conflict")

var ErrItemNotFound = fmt.Errorf("catalog item %w", ErrNotFound)
var ErrLineNotFound = fmt.Errorf("cart item %w", ErrNotFound)
var ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)

var ErrInvalidQuantity = fmt.Errorf("%w: quantity must be at least 1", ErrMalformed)
var ErrQuantityLimit = fmt.Errorf("%w: quantity exceeds the allowed maximum", ErrMalformed)
var ErrInvalidPrice = fmt.Errorf("%w: price must not be negative", ErrMalformed)
var ErrInvalidStatus = fmt.Errorf("%w: unknown order status", ErrMalformed)
var ErrInvalidCatalog = fmt.Errorf("%w: invalid catalog record", ErrMalformed)

var ErrOutOfStock = fmt.Errorf("%w: item is out of stock", ErrConflict)
var ErrEmptyCart = fmt.Errorf("%w: cart is empty", ErrConflict)
