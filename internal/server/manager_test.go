package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestManager_StartServeShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong")
	})

	m := NewManager(mux, testConfig(), zap.NewNop())
	require.NoError(t, m.Start())
	assert.True(t, m.IsRunning())

	resp, err := http.Get("http://" + m.Addr() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, m.Shutdown(context.Background()))
	assert.False(t, m.IsRunning())
}

func TestManager_DoubleStart(t *testing.T) {
	m := NewManager(http.NewServeMux(), testConfig(), zap.NewNop())
	require.NoError(t, m.Start())
	defer m.Shutdown(context.Background())

	assert.Error(t, m.Start())
}

func TestManager_ShutdownIdempotent(t *testing.T) {
	m := NewManager(http.NewServeMux(), testConfig(), zap.NewNop())
	require.NoError(t, m.Start())
	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestManager_StartAfterClose(t *testing.T) {
	m := NewManager(http.NewServeMux(), testConfig(), zap.NewNop())
	require.NoError(t, m.Start())
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Error(t, m.Start())
}
