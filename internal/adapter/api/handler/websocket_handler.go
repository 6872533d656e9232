package handler

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "usedmarket/internal/infrastructure/websocket"
	"usedmarket/pkg/logger"
)

type WebSocketHandler struct {
	manager    *ws.Manager
	authClient *auth.Client
	upgrader   gorilla.Upgrader
}

func NewWebSocketHandler(manager *ws.Manager, authClient *auth.Client) *WebSocketHandler {
	return &WebSocketHandler{
		manager:    manager,
		authClient: authClient,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Attach upgrades the connection and registers the caller for message
// pushes. Browsers cannot set headers on websocket dials, so the ID token
// arrives as a query param.
func (h *WebSocketHandler) Attach(c echo.Context) error {
	idToken := c.QueryParam("token")
	if idToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token query param is required")
	}

	token, err := h.authClient.VerifyIDToken(c.Request().Context(), idToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("ws upgrade failed for %s: %v", token.UID, err)
		return err
	}

	client := &ws.Client{
		UserID: token.UID,
		Conn:   conn,
		Send:   make(chan []byte, 32),
	}

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump(h.manager)

	return nil
}
