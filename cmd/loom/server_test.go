package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/loom"
	"github.com/vango-dev/loom/internal/config"
	"github.com/vango-dev/loom/internal/demo"
	"github.com/vango-dev/loom/internal/host"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.New()
	reg := prometheus.NewRegistry()
	obs, shutdown := observers(cfg, reg)
	t.Cleanup(func() { shutdown(context.Background()) })

	el, _ := demo.App("counter", nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loop := host.New(el, host.WithLogger(logger), host.WithRootOptions(loom.WithObserver(obs)))

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	srv := httptest.NewServer(newRouter(loop, reg, cfg.Serve.MetricsPath, logger))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-loop.Done()
	})
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServerRenderAndDispatch(t *testing.T) {
	srv := startServer(t)

	status, body := get(t, srv.URL+"/render")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<span>\n    0\n  </span>")

	resp, err := http.Post(srv.URL+"/dispatch/inc", "text/plain", nil)
	require.NoError(t, err)
	out, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(out), "<span>\n    1\n  </span>")

	resp, err = http.Post(srv.URL+"/dispatch/missing", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	status, body = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `loom_render_passes_total{walked="true"} 2`)
	assert.Contains(t, body, "loom_fibers_mounted_total")
}

func TestServerLive(t *testing.T) {
	srv := startServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, first, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(first), "<span>\n    0\n  </span>")

	require.NoError(t, conn.WriteJSON(liveMessage{ID: "inc"}))
	_, next, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(next), "<span>\n    1\n  </span>")

	require.NoError(t, conn.WriteJSON(liveMessage{ID: "missing"}))
	var reply liveReply
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "E107", reply.Code)
}
