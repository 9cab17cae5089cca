// Package main runs the order confirmation notifier.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/mangahaven/internal/config"
	"github.com/abgdnv/mangahaven/internal/notification"
	"github.com/abgdnv/mangahaven/pkg/bootstrap"
	"github.com/abgdnv/mangahaven/pkg/config/configloader"
	"github.com/abgdnv/mangahaven/pkg/nats"
	"golang.org/x/sync/errgroup"
)

const serviceName = "notifier"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run connects to JetStream and consumes order confirmations until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.NotifierConfig](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	natsConn, err := nats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create NATS connection: %w", err)
	}
	defer func() {
		if err := natsConn.Drain(); err != nil {
			logger.Warn("Failed to drain NATS connection", "error", err)
		}
	}()
	js, err := nats.NewJetStreamContext(natsConn)
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}
	subjects := cfg.Nats.Subjects
	if len(subjects) == 0 {
		subjects = []string{cfg.Subscriber.Subject}
	}
	if _, err := nats.EnsureStream(ctx, js, cfg.Subscriber.Stream, subjects); err != nil {
		return err
	}

	sender := notification.NewLogSender(logger)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("NATS subscriber started", slog.String("consumer", cfg.Subscriber.Consumer))
		err := notification.Start(gCtx, js, cfg.Subscriber, sender, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("subscriber failed", "error", err)
			return err
		}
		logger.Info("subscriber stopped gracefully.")
		return nil
	})

	if cfg.Probes.Enabled {
		g.Go(func() error {
			err := bootstrap.RunProbes(gCtx, cfg.Probes, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}
