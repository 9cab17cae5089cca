package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/mangahaven/pkg/config"
	"github.com/abgdnv/mangahaven/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("notifier")

// ackableMsg is the part of jetstream.Msg the handler needs.
type ackableMsg interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak() error
	Term() error
}

// Start creates or updates the durable consumer and runs cfg.Workers workers until ctx is done.
func Start(ctx context.Context, js jetstream.JetStream, cfg config.SubscriberConfig, sender Sender, logger *slog.Logger) error {
	consumer, err := js.CreateOrUpdateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
		FilterSubject: cfg.Subject,
		Durable:       cfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s on %s: %w", cfg.Consumer, cfg.Stream, err)
	}
	logger = logger.With("component", "subscriber", "consumer", cfg.Consumer)
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			return runWorker(gCtx, consumer, cfg, sender, logger.With("worker", i))
		})
	}
	return g.Wait()
}

// runWorker fetches batches until ctx is cancelled. Fetch failures are retried after cfg.Interval.
func runWorker(ctx context.Context, consumer jetstream.Consumer, cfg config.SubscriberConfig, sender Sender, logger *slog.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := consumer.Fetch(cfg.Batch, jetstream.FetchMaxWait(cfg.Timeout))
		if err != nil {
			if !errors.Is(err, nats.ErrTimeout) {
				logger.ErrorContext(ctx, "Failed to fetch messages", "error", err)
				if !sleep(ctx, cfg.Interval) {
					return ctx.Err()
				}
			}
			continue
		}
		for msg := range batch.Messages() {
			handleMessage(ctx, msg, sender, logger)
		}
		if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) {
			logger.WarnContext(ctx, "Fetch ended with an error", "error", err)
		}
	}
}

// handleMessage sends the notice for one confirmation. Undecodable payloads are terminated
// since no redelivery can fix them; send failures are nacked for another attempt.
func handleMessage(ctx context.Context, msg ackableMsg, sender Sender, logger *slog.Logger) {
	var event events.OrderConfirmedEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorContext(ctx, "Failed to unmarshal message", "error", err, "subject", msg.Subject())
		if err := msg.Term(); err != nil {
			logger.ErrorContext(ctx, "Failed to terminate message", "error", err)
		}
		return
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(event.Carrier))
	ctx, span := tracer.Start(ctx, "notification.send", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()
	span.SetAttributes(attribute.String("order.id", event.OrderID))

	logger.InfoContext(ctx, "Received order confirmed event",
		slog.String("subject", msg.Subject()),
		slog.String("order_id", event.OrderID),
		slog.String("created_at", event.CreatedAt.Format(time.RFC3339)))

	if err := sender.Send(ctx, NoticeFromEvent(event)); err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "Failed to send notice", "error", err, "order_id", event.OrderID)
		nak(ctx, msg, logger)
		return
	}
	if err := msg.Ack(); err != nil {
		logger.ErrorContext(ctx, "Failed to ack message", "error", err)
	}
}

func nak(ctx context.Context, msg ackableMsg, logger *slog.Logger) {
	if err := msg.Nak(); err != nil {
		logger.ErrorContext(ctx, "Failed to nack message", "error", err)
	}
}

// sleep waits d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
