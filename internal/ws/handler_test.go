//go:build !windows

package ws

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/graphein-app/termhub/internal/infrastructure/logging"
	"github.com/graphein-app/termhub/internal/infrastructure/monitoring"
	term "github.com/graphein-app/termhub/internal/terminal"
)

type shResolver struct{}

func (shResolver) Resolve(shellType string) term.Resolution {
	return term.Resolution{Command: "/bin/sh"}
}
func (shResolver) AvailableShells() []term.ShellOption { return nil }
func (shResolver) Environ() []string                   { return os.Environ() }

type wsEvent struct {
	Type string `json:"type"`
	Data string `json:"data"`
	Code *int   `json:"code"`
}

func newStreamServer(t *testing.T) (*httptest.Server, *term.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := term.NewRegistry(shResolver{}, term.NewReaper(), logging.NewNop(), term.Config{
		FlushInterval: 5 * time.Millisecond,
	})
	t.Cleanup(sessions.Cleanup)

	h := NewHandler(sessions, logging.NewNop(), monitoring.NewMetrics())
	router := gin.New()
	router.GET("/sessions/:id/stream", h.HandleSession)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, sessions
}

func dialStream(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/stream"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readUntil decodes data events until needle appears or an exit event fires.
func readUntil(t *testing.T, ws *websocket.Conn, needle string) (found bool, exitCode *int) {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var output []byte
	for {
		var ev wsEvent
		if err := ws.ReadJSON(&ev); err != nil {
			t.Fatalf("stream closed while waiting for %q, saw %q: %v", needle, output, err)
		}
		switch ev.Type {
		case "data":
			decoded, err := base64.StdEncoding.DecodeString(ev.Data)
			require.NoError(t, err)
			output = append(output, decoded...)
			if strings.Contains(string(output), needle) {
				return true, nil
			}
		case "exit":
			return strings.Contains(string(output), needle), ev.Code
		}
	}
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _ := newStreamServer(t)

	resp, err := http.Get(srv.URL + "/sessions/no-such-session/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStreamDeliversBufferedAndLiveOutput(t *testing.T) {
	srv, sessions := newStreamServer(t)

	s, err := sessions.Create("term-1", term.CreateOptions{})
	require.NoError(t, err)

	// Output produced before any client connects must not be lost.
	require.NoError(t, s.Write([]byte("echo early-marker\n")))
	time.Sleep(200 * time.Millisecond)

	ws := dialStream(t, srv, "term-1")
	found, _ := readUntil(t, ws, "early-marker")
	assert.True(t, found)

	// The same socket accepts input and streams the response.
	require.NoError(t, ws.WriteJSON(map[string]interface{}{
		"type": "write",
		"data": "echo live-marker\n",
	}))
	found, _ = readUntil(t, ws, "live-marker")
	assert.True(t, found)
}

func TestStreamDeliversExitEvent(t *testing.T) {
	srv, sessions := newStreamServer(t)

	_, err := sessions.Create("term-1", term.CreateOptions{})
	require.NoError(t, err)

	ws := dialStream(t, srv, "term-1")
	require.NoError(t, ws.WriteJSON(map[string]interface{}{
		"type": "write",
		"data": "exit 4\n",
	}))

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var ev wsEvent
		if err := ws.ReadJSON(&ev); err != nil {
			t.Fatalf("stream closed before exit event: %v", err)
		}
		if ev.Type == "exit" {
			require.NotNil(t, ev.Code)
			assert.Equal(t, 4, *ev.Code)
			return
		}
	}
}

func TestExitDeliveryFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	h := NewHandler(nil, &logging.Logger{Logger: zap.New(core)}, monitoring.NewMetrics())

	// A real upgraded pair whose server side is already closed, so the exit
	// write fails deterministically.
	serverConns := make(chan *websocket.Conn, 1)
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- c
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	serverSide := <-serverConns
	require.NoError(t, serverSide.Close())

	h.sendExit(&conn{ws: serverSide}, "term-1", 0)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "exit event delivery failed", entry.Message)
	assert.Equal(t, "term-1", entry.ContextMap()["session_id"])
}

func TestStreamResizeAndPing(t *testing.T) {
	srv, sessions := newStreamServer(t)

	s, err := sessions.Create("term-1", term.CreateOptions{})
	require.NoError(t, err)

	ws := dialStream(t, srv, "term-1")
	require.NoError(t, ws.WriteJSON(map[string]interface{}{
		"type": "resize",
		"cols": 132,
		"rows": 50,
	}))
	require.NoError(t, ws.WriteJSON(map[string]interface{}{"type": "ping"}))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		info := s.Info()
		if info.Cols == 132 && info.Rows == 50 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("resize never applied: %+v", s.Info())
}
