package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/mangahaven/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func Test_FromConfig(t *testing.T) {
	// given
	var cfg config.HTTPConfig
	cfg.Port = 8080
	cfg.MaxHeaderBytes = 1 << 20
	cfg.Timeout.Read = time.Second
	cfg.Timeout.Write = 2 * time.Second
	cfg.Timeout.Idle = 3 * time.Second
	cfg.Timeout.ReadHeader = 4 * time.Second

	// when
	srv := NewHTTPServer(FromConfig(cfg), "test", http.NotFoundHandler())

	// then
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4*time.Second, srv.ReadHeaderTimeout)
}

func Test_NewChiRouter_SetsRequestID(t *testing.T) {
	// given
	mux := NewChiRouter(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rr := httptest.NewRecorder()

	// when
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func Test_NewGRPCServer_Health(t *testing.T) {
	// given
	lis := bufconn.Listen(1024 * 1024)
	hs := health.NewServer()
	hs.SetServingStatus("catalog", healthpb.HealthCheckResponse_SERVING)
	srv := NewGRPCServer(slog.New(slog.NewJSONHandler(io.Discard, nil)), true, WithHealth(hs))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// when
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: "catalog"})

	// then
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
