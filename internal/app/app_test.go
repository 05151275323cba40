package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/35niavlys/speedfng/internal/config"
	"github.com/35niavlys/speedfng/internal/net/proto"
	"github.com/35niavlys/speedfng/internal/telemetry"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	settings := config.Default()
	if mutate != nil {
		mutate(&settings)
	}
	s, err := New(Config{Logger: telemetry.NopLogger(), Settings: settings, Stdout: io.Discard})
	require.NoError(t, err)
	return s
}

func TestNewRejectsInvalidMap(t *testing.T) {
	settings := config.Default()
	settings.Map.Rows = []string{"###"}
	_, err := New(Config{Logger: telemetry.NopLogger(), Settings: settings, Stdout: io.Discard})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	t.Cleanup(s.close)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServeStreamsFrames(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.TickRate = 100
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()
	defer func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatalf("server did not stop")
		}
	}()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws?name=tee&client=custom", nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	kind, err := proto.Envelope(payload)
	require.NoError(t, err)
	require.Equal(t, proto.TypeJoin, kind)

	var lastTick int
	for {
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err, "no frame with the spawned character arrived")
		frame, err := proto.DecodeFrame(payload)
		if err != nil {
			continue
		}
		require.Greater(t, frame.Tick, lastTick, "frames arrive in tick order")
		lastTick = frame.Tick
		if len(frame.Snapshot) > 0 {
			break
		}
	}

	resp, err := http.Get("http://" + ln.Addr().String() + "/diagnostics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var diag struct {
		Status  string `json:"status"`
		Tick    int    `json:"tick"`
		Players []struct {
			Name  string `json:"name"`
			Alive bool   `json:"alive"`
		} `json:"players"`
		Metrics map[string]uint64 `json:"metrics"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&diag))
	assert.Equal(t, "ok", diag.Status)
	assert.Positive(t, diag.Tick)
	require.Len(t, diag.Players, 1)
	assert.Equal(t, "tee", diag.Players[0].Name)
	assert.Positive(t, diag.Metrics[telemetry.MetricFramesSent])
}
