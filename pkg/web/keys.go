package web

import (
	"context"

	"github.com/google/uuid"
)

type sessionIDKey struct{}

// WithSessionID adds the shopper session id to the context.
func WithSessionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFrom retrieves the session id from the context.
// Returns the id and a boolean indicating whether it was found.
func SessionIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(uuid.UUID)
	return id, ok
}
