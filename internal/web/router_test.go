package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/logging"
)

func newTestRouter(t *testing.T, limit int) (*httptest.Server, *Sessions) {
	t.Helper()
	tun := config.DefaultTuning()
	tun.Stars.Count = 0
	tun.Enemy.SpawnChance = 0

	m := NewMetrics()
	sessions := NewSessions(tun, m, logging.Discard(), limit)
	ts := httptest.NewServer(NewRouter(RouterConfig{
		Sessions:       sessions,
		Metrics:        m,
		SSHHost:        "play.example.org",
		DisableLogging: true,
	}))
	t.Cleanup(ts.Close)
	return ts, sessions
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestIndexShowsSSHHost(t *testing.T) {
	ts, _ := newTestRouter(t, 0)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "ssh -t play.example.org")
	assert.NotContains(t, string(body), "{{.SSHHost}}")
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestRouter(t, 0)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["sessions"])
}

func TestPreviewUnknownSession(t *testing.T) {
	ts, _ := newTestRouter(t, 0)

	resp, err := http.Get(ts.URL + "/sessions/nope/preview.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketSession(t *testing.T) {
	ts, sessions := newTestRouter(t, 0)
	conn := dial(t, ts)

	hello := readMessage(t, conn)
	require.Equal(t, "session", hello["type"])
	id, _ := hello["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, sessions.Len())

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "intent", "shoot": true}))

	sawDisplay, sawShot := false, false
	for i := 0; i < 200 && !(sawDisplay && sawShot); i++ {
		msg := readMessage(t, conn)
		switch msg["type"] {
		case "display":
			sawDisplay = true
			assert.Equal(t, float64(3), msg["lives"])
		case "frame":
			assert.NotContains(t, msg, "stars")
			if shots, _ := msg["projectiles"].([]any); len(shots) > 0 {
				sawShot = true
			}
		}
	}
	assert.True(t, sawDisplay, "initial display event delivered")
	assert.True(t, sawShot, "shoot intent reached the game")

	resp, err := http.Get(ts.URL + "/sessions/" + id + "/preview.png?w=160&h=100")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	assert.Eventually(t, func() bool { return sessions.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSessionLimit(t *testing.T) {
	ts, _ := newTestRouter(t, 1)
	conn := dial(t, ts)
	defer conn.Close()
	readMessage(t, conn)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestShutdownNotifiesSockets(t *testing.T) {
	ts, sessions := newTestRouter(t, 0)
	conn := dial(t, ts)
	defer conn.Close()
	readMessage(t, conn)

	sessions.Shutdown()

	for i := 0; i < 200; i++ {
		msg := readMessage(t, conn)
		if msg["type"] == "shutdown" {
			_, _, err := conn.ReadMessage()
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
			return
		}
	}
	t.Fatal("no shutdown message")
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestRouter(t, 0)
	conn := dial(t, ts)
	defer conn.Close()
	readMessage(t, conn)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), "starstrike_sessions_active 1")
	assert.Contains(t, string(body), "starstrike_tick_duration_seconds")
}
