// Package notification consumes order confirmations from JetStream and sends the shopper a notice.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/mangahaven/pkg/messaging/events"
)

// Notice is the message a shopper receives once an order is confirmed.
type Notice struct {
	OrderID      string
	OrderNumber  string
	Email        string
	CustomerName string
	ItemCount    int
	Total        string
}

func NoticeFromEvent(e events.OrderConfirmedEvent) Notice {
	return Notice{
		OrderID:      e.OrderID,
		OrderNumber:  e.OrderNumber,
		Email:        e.Email,
		CustomerName: e.CustomerName,
		ItemCount:    e.ItemCount,
		Total:        e.Total,
	}
}

// Text renders the notice body.
func (n Notice) Text() string {
	items := "items"
	if n.ItemCount == 1 {
		items = "item"
	}
	name := n.CustomerName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s, your MangaHaven order %s (%d %s, total $%s) is confirmed.",
		name, n.OrderNumber, n.ItemCount, items, n.Total)
}

// Sender delivers a notice. A returned error makes the message redeliver.
type Sender interface {
	Send(ctx context.Context, n Notice) error
}

// LogSender writes notices to the log instead of mailing them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "log-sender")}
}

func (s *LogSender) Send(ctx context.Context, n Notice) error {
	s.logger.InfoContext(ctx, "Order confirmation sent",
		slog.String("order_id", n.OrderID),
		slog.String("order_number", n.OrderNumber),
		slog.String("email", n.Email),
		slog.String("text", n.Text()))
	return nil
}
