package messaging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/abgdnv/mangahaven/pkg/config"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	payloadErr error
}

func (e testEvent) Subject() string { return "orders.test" }

func (e testEvent) Payload() ([]byte, error) {
	if e.payloadErr != nil {
		return nil, e.payloadErr
	}
	return []byte(`{"ok":true}`), nil
}

// countingPublisher fails with err and counts calls.
type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Publish(_ context.Context, _ Event) error {
	p.calls++
	return p.err
}

func breakerCfg() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute, HalfOpenRequests: 1}
}

func Test_BreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	// given
	next := &countingPublisher{err: errors.New("nats: no responders")}
	p := NewBreakerPublisher(next, breakerCfg(), slog.New(slog.NewJSONHandler(io.Discard, nil)))

	// when
	err1 := p.Publish(context.Background(), testEvent{})
	err2 := p.Publish(context.Background(), testEvent{})
	err3 := p.Publish(context.Background(), testEvent{})

	// then
	require.Error(t, err1)
	require.Error(t, err2)
	require.ErrorIs(t, err3, ErrPublisherUnavailable)
	assert.Equal(t, 2, next.calls, "open breaker must not call the broker")
	assert.Equal(t, gobreaker.StateOpen, p.State())
}

func Test_BreakerPublisher_PayloadErrorsDoNotTrip(t *testing.T) {
	// given
	next := &countingPublisher{}
	p := NewBreakerPublisher(next, breakerCfg(), slog.New(slog.NewJSONHandler(io.Discard, nil)))
	payloadErr := errors.New("unsupported value")

	// when
	for i := 0; i < 3; i++ {
		err := p.Publish(context.Background(), testEvent{payloadErr: payloadErr})
		require.ErrorIs(t, err, payloadErr)
	}

	// then
	assert.Equal(t, gobreaker.StateClosed, p.State())
	assert.Equal(t, 0, next.calls)
	require.NoError(t, p.Publish(context.Background(), testEvent{}))
	assert.Equal(t, 1, next.calls)
}

func Test_LogPublisher(t *testing.T) {
	// given
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	// when
	err := p.Publish(context.Background(), testEvent{})

	// then
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"subject":"orders.test"`)
	assert.Contains(t, buf.String(), `"component":"log-publisher"`)
}

func Test_PublisherFunc(t *testing.T) {
	var got string
	p := PublisherFunc(func(_ context.Context, e Event) error {
		got = e.Subject()
		return nil
	})

	require.NoError(t, p.Publish(context.Background(), testEvent{}))
	assert.Equal(t, "orders.test", got)
}
