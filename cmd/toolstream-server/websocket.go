package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"toolstream/internal/toolparse"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The transport §1 explicitly excludes from the core is exactly what
	// this endpoint provides: origin checking belongs to the deployer's
	// reverse proxy, not this demo harness.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsFrame struct {
	Type    string      `json:"type"` // "block" | "diagnostic"
	Payload interface{} `json:"payload,omitempty"`
}

// streamWebSocket implements GET /v1/sessions/:id/stream: the caller
// sends raw text frames, each treated as one chunk fed to the session's
// parser, and receives block/diagnostic JSON frames back. An empty text
// frame finalizes the session.
func (h *handlers) streamWebSocket(c *gin.Context) {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed for session %s: %v", id, err)
		return
	}
	defer conn.Close()

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		blocks, diags := sess.Feed(string(payload))
		if len(payload) == 0 {
			blocks = append(blocks, sess.Finalize()...)
		}
		h.recordMetrics(blocks, diags)

		if err := writeFrames(conn, blocks, diags); err != nil {
			return
		}
	}
}

func writeFrames(conn *websocket.Conn, blocks []toolparse.Block, diags []toolparse.Diagnostic) error {
	for _, b := range blocks {
		if err := conn.WriteJSON(wsFrame{Type: "block", Payload: b}); err != nil {
			return err
		}
	}
	for _, d := range diags {
		if err := conn.WriteJSON(wsFrame{Type: "diagnostic", Payload: d}); err != nil {
			return err
		}
	}
	return nil
}
