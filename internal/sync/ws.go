package sync

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsReadLimit = 4 << 10

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // OK for demo; restrict in production
	},
}

// WSHandler upgrades the request and streams store sync events until
// the client goes away. Clients only listen; anything they send is
// drained and ignored.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		ws.SetReadLimit(wsReadLimit)

		hub.AddWS(ws)
		log.Printf("[sync] ws client connected (%d ws total)", hub.Stats().WSClients)
		hub.WelcomeWS(ws)

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		log.Println("[sync] ws client disconnected")
	}
}
