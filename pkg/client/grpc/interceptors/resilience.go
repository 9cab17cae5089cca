// Package interceptors provides client-side gRPC interceptors for deadlines, retries and circuit breaking.
package interceptors

import (
	"context"

	"github.com/abgdnv/mangahaven/pkg/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// transientCodes are retried and count as failures for the breaker.
var transientCodes = []codes.Code{codes.Unavailable, codes.ResourceExhausted, codes.Aborted}

// NewRetryInterceptor creates a gRPC unary client interceptor with retry logic.
func NewRetryInterceptor(cfg config.RetryConfig) grpc.UnaryClientInterceptor {
	opts := []retry.CallOption{
		retry.WithCodes(transientCodes...),
		retry.WithMax(cfg.MaxAttempts),
		retry.WithBackoff(retry.BackoffExponential(cfg.InitialBackoff)),
	}
	return retry.UnaryClientInterceptor(opts...)
}

// UnaryCircuitBreakerInterceptor returns a gRPC unary client interceptor that wraps calls in a Circuit Breaker.
// The breaker's IsSuccessful decides which errors trip it.
func UnaryCircuitBreakerInterceptor[T any](cb *gobreaker.CircuitBreaker[T]) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var zero T
		_, err := cb.Execute(func() (T, error) {
			err := invoker(ctx, method, req, reply, cc, opts...)
			return zero, err
		})
		return err
	}
}

// NewCircuitBreaker returns an interceptor guarded by a breaker named name. Only transient
// status codes count as failures; NotFound, InvalidArgument and the like pass through.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig) grpc.UnaryClientInterceptor {
	st := gobreaker.Settings{
		Name:         name,
		MaxRequests:  cfg.HalfOpenRequests,
		Timeout:      cfg.OpenTimeout,
		ReadyToTrip:  TripFunc(cfg),
		IsSuccessful: isSuccessfulCall,
	}
	breaker := gobreaker.NewCircuitBreaker[any](st)
	return UnaryCircuitBreakerInterceptor(breaker)
}

// TripFunc opens the breaker after more than ConsecutiveFailures failures in a row, or once
// the failure ratio exceeds ErrorRatePercent over more than ConsecutiveFailures requests.
func TripFunc(cfg config.CircuitBreakerConfig) func(counts gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		total := counts.TotalSuccesses + counts.TotalFailures
		return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
			(total > cfg.ConsecutiveFailures &&
				float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
	}
}

func isSuccessfulCall(err error) bool {
	if err == nil {
		return true
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	for _, code := range transientCodes {
		if st.Code() == code {
			return false
		}
	}
	return true
}
