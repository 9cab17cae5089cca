// Package messaging defines the event contract shared by the storefront and the notifier.
package messaging

import (
	"context"
)

// Subjects the storefront publishes to.
const (
	OrdersStream          = "ORDERS"
	OrdersSubjectWildcard = "orders.>"
	OrderConfirmedSubject = "orders.confirmed"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event Event) error

func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}
