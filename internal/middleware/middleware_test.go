package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"
)

const procedure = "/test.v1.TestService/Ping"

// newTestClient serves a single Ping procedure that fails when fail is true.
func newTestClient(t *testing.T, fail bool, interceptors ...connect.Interceptor) *connect.Client[emptypb.Empty, emptypb.Empty] {
	t.Helper()

	handler := connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
			if fail {
				return nil, connect.NewError(connect.CodeNotFound, errors.New("no such thing"))
			}
			return connect.NewResponse(&emptypb.Empty{}), nil
		},
		connect.WithInterceptors(interceptors...),
	)

	mux := http.NewServeMux()
	mux.Handle(procedure, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return connect.NewClient[emptypb.Empty, emptypb.Empty](http.DefaultClient, server.URL+procedure)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLoggingInterceptor(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		logs := captureLogs(t)
		client := newTestClient(t, false, LoggingInterceptor())

		_, err := client.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
		require.NoError(t, err)

		out := logs.String()
		assert.Contains(t, out, "RPC ok")
		assert.Contains(t, out, procedure)
	})

	t.Run("client error logs a warning", func(t *testing.T) {
		logs := captureLogs(t)
		client := newTestClient(t, true, LoggingInterceptor())

		_, err := client.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
		require.Error(t, err)

		out := logs.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "code=not_found")
	})
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	ok := newTestClient(t, false, metrics.Interceptor())
	failing := newTestClient(t, true, metrics.Interceptor())

	for range 2 {
		_, err := ok.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
		require.NoError(t, err)
	}
	_, err := failing.CallUnary(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues(procedure, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(procedure, "not_found")))

	expected := `
# HELP roomsplit_rpc_requests_total RPCs handled, by procedure and result code.
# TYPE roomsplit_rpc_requests_total counter
roomsplit_rpc_requests_total{code="not_found",procedure="/test.v1.TestService/Ping"} 1
roomsplit_rpc_requests_total{code="ok",procedure="/test.v1.TestService/Ping"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "roomsplit_rpc_requests_total"))
}
