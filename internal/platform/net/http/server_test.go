package http

import (
	"context"
	"io"
	"net"
	stdhttp "net/http"
	"testing"
	"time"

	"eventscope/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Config(t *testing.T) {
	t.Setenv("ESTEST_PORT", ":4999")
	t.Setenv("ESTEST_SHUTDOWN_GRACE", "2s")

	s := NewServer(config.New().Prefix("ESTEST_"))
	assert.Equal(t, ":4999", s.Addr())
	assert.Equal(t, 2*time.Second, s.grace)
	assert.NotNil(t, s.Handler())
}

func TestServe_DrainsOnCancel(t *testing.T) {
	t.Parallel()

	s := NewServer(config.New().Prefix("ESTEST_UNSET_"))
	s.Router().Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte("pong")) })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	res, err := stdhttp.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	s := NewServer(config.New().Prefix("ESTEST_UNSET_"))
	s.srv.Addr = ln.Addr().String()
	assert.ErrorContains(t, s.Run(context.Background()), "http: listen")
}
