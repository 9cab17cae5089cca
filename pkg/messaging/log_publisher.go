package messaging

import (
	"context"
	"fmt"
	"log/slog"
)

// LogPublisher writes events to the log instead of a broker. It is used when NATS is disabled.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "log-publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	p.logger.InfoContext(ctx, "event published", "subject", event.Subject(), "payload", string(data))
	return nil
}
