package handler

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "bazaarflow/internal/infrastructure/websocket"
	"bazaarflow/pkg/errors"
)

type WebSocketHandler struct {
	wsManager  *ws.Manager
	authClient *auth.Client
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the frontend origin before exposing publicly
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, authClient *auth.Client) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:  wsManager,
		authClient: authClient,
	}
}

// HandleWebSocket upgrades the connection for push events. Browsers
// cannot set headers on WebSocket handshakes, so the token arrives as
// a query parameter instead of an Authorization header.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication required", nil)
	}

	verified, err := h.authClient.VerifyIDToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: verified.UID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
