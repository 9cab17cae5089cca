// Package events holds the payloads published on the order subjects.
package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/mangahaven/pkg/messaging"
)

// OrderConfirmedEvent is published once an order has been recorded and the cart cleared.
// Amounts are decimal strings rounded to two places. Carrier transports the trace context.
type OrderConfirmedEvent struct {
	Carrier      map[string]string `json:"carrier,omitempty"`
	OrderID      string            `json:"order_id"`
	OrderNumber  string            `json:"order_number"`
	Email        string            `json:"email"`
	CustomerName string            `json:"customer_name"`
	ItemCount    int               `json:"item_count"`
	Total        string            `json:"total"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (o OrderConfirmedEvent) Subject() string {
	return messaging.OrderConfirmedSubject
}

func (o OrderConfirmedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}

// MessageID de-duplicates redeliveries of the same confirmation.
func (o OrderConfirmedEvent) MessageID() string {
	return "order-confirmed-" + o.OrderID
}
