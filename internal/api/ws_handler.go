package api

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"nutrifit/backend/internal/service"
	"nutrifit/backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, validate origin
	},
}

const writeWait = 10 * time.Second

// deadlineConn bounds every write with a deadline so one stalled client
// cannot block delivery to the rest, and serializes writers: the hub's
// delivery goroutine and the read loop's pong replies share the underlying
// connection, which allows at most one concurrent writer.
type deadlineConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (d *deadlineConn) WriteJSON(v interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return d.conn.WriteJSON(v)
}

func (d *deadlineConn) writeText(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return d.conn.WriteMessage(websocket.TextMessage, data)
}

func (d *deadlineConn) Close() error {
	return d.conn.Close()
}

// WSHandler upgrades HTTP requests to websocket connections registered
// with the notification hub.
type WSHandler struct {
	authService service.AuthService
	hub         *ws.Hub
}

func NewWSHandler(authService service.AuthService, hub *ws.Hub) *WSHandler {
	return &WSHandler{authService: authService, hub: hub}
}

// Serve godoc
// @Summary Open a notification websocket
// @Description Authenticates via the ?token= query parameter, browsers cannot set headers on websocket requests.
// @Tags Notifications
// @Param token query string true "JWT"
// @Success 101 "Switching protocols"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /ws/notifications [get]
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		abortWithError(c, http.StatusUnauthorized, "Missing token.")
		return
	}

	user, _, err := h.authService.Resolve(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to authenticate request")
		}
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("WARN: websocket upgrade failed for user %d: %v", user.ID, err)
		return
	}

	hubConn := &deadlineConn{conn: conn}
	h.hub.Connect(user.ID, hubConn)
	defer func() {
		h.hub.Disconnect(user.ID, hubConn)
		conn.Close()
	}()

	if err := hubConn.WriteJSON(&ws.Message{Type: "connected"}); err != nil {
		return
	}

	// Read loop. Clients only ever send pings, everything else is ignored.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if string(data) == "ping" {
			if err := hubConn.writeText([]byte("pong")); err != nil {
				return
			}
		}
	}
}
