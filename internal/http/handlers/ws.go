package handlers

import (
	"net/http"
	"strconv"

	"github.com/samsil2/Real-Time-Chat-App/internal/ws"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
)

type WSHandler struct {
	Hub                  *ws.Hub
	WSInsecureSkipVerify bool
}

// Handle upgrades the connection and registers the user's presence. The
// handshake identifies the user via the userId query parameter; browser
// WebSocket clients cannot set headers.
func (h *WSHandler) Handle(c *gin.Context) {
	userID64, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil || userID64 == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid userId"})
		return
	}
	userID := uint(userID64)

	opts := &websocket.AcceptOptions{}
	// Accept rejects cross-origin by default; the SPA dev server runs on a
	// different origin. Only for dev.
	if h.WSInsecureSkipVerify {
		opts.InsecureSkipVerify = true
	}

	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		return // Accept already wrote the error response
	}

	// Push-only connection: still read so close/ping/pong frames are handled.
	// The returned context ends when the peer disconnects.
	readCtx := conn.CloseRead(c.Request.Context())

	client := h.Hub.Register(userID, conn)
	defer h.Hub.Unregister(client)

	<-readCtx.Done()
}
