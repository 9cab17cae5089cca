package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/mangahaven/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// ErrPublisherUnavailable is returned while the breaker is open and events are dropped.
var ErrPublisherUnavailable = errors.New("event publisher unavailable")

// BreakerPublisher guards a Publisher with a circuit breaker so a failing broker is not
// called on every checkout. Payload errors do not count against the broker.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

type payloadError struct{ err error }

func (e payloadError) Error() string { return e.err.Error() }
func (e payloadError) Unwrap() error { return e.err }

func NewBreakerPublisher(next Publisher, cfg config.CircuitBreakerConfig, logger *slog.Logger) *BreakerPublisher {
	st := gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			var pe payloadError
			return err == nil || errors.As(err, &pe) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerPublisher{next: next, breaker: gobreaker.NewCircuitBreaker[struct{}](st)}
}

func (p *BreakerPublisher) Publish(ctx context.Context, event Event) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		if _, err := event.Payload(); err != nil {
			return struct{}{}, payloadError{err: err}
		}
		return struct{}{}, p.next.Publish(ctx, event)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrPublisherUnavailable, err)
	}
	return err
}

// State reports the breaker state, mainly for diagnostics.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.breaker.State()
}
