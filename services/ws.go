package services

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bellapacxx/crupier/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS middleware on the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the request and streams round events to it.
func (h *Hub) HandleWebSocket(round *game.Round) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.log.Warnw("upgrade error", "error", err)
			return
		}

		client := &Client{
			id:    uuid.NewString(),
			conn:  conn,
			hub:   h,
			round: round,
			send:  make(chan []byte, sendBuffer),
		}
		h.addClient(client)

		snap := round.Snapshot()
		h.sendTo(client, reply{Type: "snapshot", Snapshot: &snap})

		go client.writePump()
		go client.readPump()
	}
}
