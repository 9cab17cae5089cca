package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/mangahaven/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	XSessionID = "X-Session-Id"
	XRequestID = "X-Request-Id"
)

// SessionMiddleware requires a uuid X-Session-Id header and stores it in the request context.
// The session id identifies the shopper's cart; it is not an authentication mechanism.
func SessionMiddleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(XSessionID)
			if raw == "" {
				RespondError(w, log, http.StatusBadRequest, fmt.Sprintf("Missing %s header", XSessionID))
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				RespondError(w, log, http.StatusBadRequest, fmt.Sprintf("Invalid %s header: %s", XSessionID, raw))
				return
			}
			ctx := WithSessionID(r.Context(), id)
			ctx = logger.AppendCtx(ctx, slog.String("session_id", id.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDInjector reuses an incoming X-Request-Id or generates one, stores it where
// middleware.GetReqID finds it and echoes it back in the response.
func RequestIDInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(XRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(XRequestID, reqID)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StructuredLogger creates a middleware that logs HTTP requests in a structured format.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.InfoContext(r.Context(), "Request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes_written", ww.BytesWritten(),
					"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
					"remote_addr", r.RemoteAddr,
					"user_agent", r.UserAgent(),
				)
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// Recoverer is a middleware that recovers from panics and logs them using the provided logger.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.ErrorContext(r.Context(), "Panic recovered", "panic", rvr)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
