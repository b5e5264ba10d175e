package ws

import (
	"encoding/base64"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/graphein-app/termhub/internal/infrastructure/logging"
	"github.com/graphein-app/termhub/internal/infrastructure/monitoring"
	term "github.com/graphein-app/termhub/internal/terminal"
	"github.com/graphein-app/termhub/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Desktop webview origins vary; restrict for remote deployments
	},
}

// Handler streams session output over WebSocket connections.
type Handler struct {
	sessions *term.Registry
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a WebSocket handler over the session registry.
func NewHandler(sessions *term.Registry, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		sessions: sessions,
		log:      log,
		metrics:  metrics,
	}
}

// conn serializes writes: data batches, exit events, and control replies
// arrive from different goroutines.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(msg map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}

// HandleSession attaches the caller to a session's output stream.
//
// The first attachment drains everything buffered since the session was
// created; a re-attachment after a client reload receives only output
// produced since the previous attach. The client receives {type: "data"}
// messages with base64 payloads and a terminal {type: "exit", code} event.
// Input and resize may also be pushed over the same socket.
func (h *Handler) HandleSession(c *gin.Context) {
	id := c.Param("id")
	session, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found: " + id})
		return
	}

	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed",
			zap.String("session_id", id),
			zap.Error(err),
		)
		return
	}

	connID := uuid.NewString()
	client := &conn{ws: wsConn}
	h.metrics.WSConnected()
	h.log.Debug("stream attached",
		zap.String("session_id", id),
		zap.String("conn_id", connID),
	)

	exited := make(chan struct{})

	dataSub := session.Attach(func(data []byte) {
		h.metrics.RecordWSMessage("out", "data")
		if err := client.send(map[string]interface{}{
			"type": "data",
			"data": base64.StdEncoding.EncodeToString(data),
		}); err != nil {
			h.log.Debug("stream write failed",
				zap.String("session_id", id),
				zap.Error(err),
			)
		}
	})

	exitSub := session.OnExit(func(code int) {
		h.sendExit(client, id, code)
		close(exited)
		// Unblock the read loop; the session itself is already reclaimed.
		wsConn.Close()
	})

	defer func() {
		// Revoke subscriptions before the connection goes away so no
		// callback writes into a closed socket.
		select {
		case <-exited:
			// exit path already tore the socket down
		default:
			dataSub.Cancel()
			exitSub.Cancel()
		}
		wsConn.Close()
		h.metrics.WSDisconnected()
		h.log.Debug("stream detached",
			zap.String("session_id", id),
			zap.String("conn_id", connID),
		)
	}()

	h.readLoop(wsConn, id)
}

// sendExit delivers the terminal exit event. The stream is torn down right
// after either way, but a lost exit event must at least be observable.
func (h *Handler) sendExit(client *conn, id string, code int) {
	h.metrics.RecordWSMessage("out", "exit")
	if err := client.send(map[string]interface{}{
		"type": "exit",
		"code": code,
	}); err != nil {
		h.log.Warn("exit event delivery failed",
			zap.String("session_id", id),
			zap.Int("code", code),
			zap.Error(err),
		)
	}
}

// readLoop consumes client control messages until the socket closes. Input
// and resize are fire-and-forget against the registry.
func (h *Handler) readLoop(wsConn *websocket.Conn, id string) {
	for {
		var msg types.WSMessage
		if err := wsConn.ReadJSON(&msg); err != nil {
			return
		}

		h.metrics.RecordWSMessage("in", msg.Type)
		switch msg.Type {
		case "write":
			h.sessions.Write(id, []byte(msg.Data))
		case "resize":
			h.sessions.Resize(id, msg.Cols, msg.Rows)
		case "ping":
			// Keep-alive only; nothing to do.
		default:
			h.log.Warn("unknown stream message type",
				zap.String("session_id", id),
				zap.String("type", msg.Type),
			)
		}
	}
}
