package handler

import (
	"log"
	"net/http"

	"mafia/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the game frontend's origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated connections and hands them to the hub.
type WSHandler struct {
	hub *hub.Hub
}

func NewWSHandler(h *hub.Hub) *WSHandler {
	return &WSHandler{hub: h}
}

// Connect godoc
// @Summary      Open the realtime event stream
// @Description  Upgrades to a WebSocket delivering room and participant events.
// @Tags         ws
// @Security     BearerAuth
// @Success      101 {string} string "Switching Protocols"
// @Router       /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	userID, _ := c.Get("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := hub.NewClient(userID.(uint), conn)
	h.hub.Register(client)
	h.hub.ReadLoop(client)
}
