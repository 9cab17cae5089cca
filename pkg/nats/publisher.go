package nats

import (
	"context"
	"fmt"

	"github.com/abgdnv/mangahaven/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
)

// identified is implemented by events that carry a stable id for JetStream de-duplication.
type identified interface {
	MessageID() string
}

type NatsPublisher struct {
	js jetstream.JetStream
}

func NewNatsPublisher(js jetstream.JetStream) *NatsPublisher {
	return &NatsPublisher{js: js}
}

func (p *NatsPublisher) Publish(ctx context.Context, event messaging.Event) error {
	data, err := event.Payload()
	if err != nil {
		return fmt.Errorf("failed to get event payload: %w", err)
	}
	var opts []jetstream.PublishOpt
	if e, ok := event.(identified); ok && e.MessageID() != "" {
		opts = append(opts, jetstream.WithMsgID(e.MessageID()))
	}
	if _, err = p.js.Publish(ctx, event.Subject(), data, opts...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", event.Subject(), err)
	}
	return nil
}
