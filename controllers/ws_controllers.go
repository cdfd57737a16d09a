package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/realestate-app/realtime"
	"github.com/yeremiapane/realestate-app/utils"
)

type WSController struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWSController accepts upgrades from allowedOrigin; "*" accepts any.
func NewWSController(hub *realtime.Hub, allowedOrigin string) *WSController {
	return &WSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Notifications -> endpoint WebSocket; the hub writes, the read loop only
// notices the disconnect.
func (wc *WSController) Notifications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("websocket upgrade failed for user %s: %v", actor.UserID, err)
		return
	}

	wc.Hub.Register(ws, actor.UserID)
	utils.InfoLogger.Printf("websocket connected: user %s (%d open)", actor.UserID, wc.Hub.Connections(actor.UserID))

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.Hub.Unregister(ws)
	utils.InfoLogger.Printf("websocket disconnected: user %s (%d open)", actor.UserID, wc.Hub.Connections(actor.UserID))
}
