package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/krishanu7/battleship-ai/internal/auth"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
)

type GeneralHandler struct {
	Hub *wsPkg.GeneralHub
}

func NewGeneralHandler(hub *wsPkg.GeneralHub) *GeneralHandler {
	return &GeneralHandler{
		Hub: hub,
	}
}

// ServeGeneralWS opens the notification connection for the authenticated
// player.
func (h *GeneralHandler) ServeGeneralWS(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerID(r.Context())
	if playerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := wsPkg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("General WS upgrade failed: %v", err)
		return
	}
	client := wsPkg.NewGeneralClient(playerID, conn)
	h.Hub.AddClient(client)

	go h.read(client)
	go h.write(client)
}

func (h *GeneralHandler) read(c *wsPkg.GeneralClient) {
	defer func() {
		h.Hub.RemoveClient(c)
		c.Conn.Close()
	}()
	for {
		// incoming messages are ignored; reading only detects the close
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *GeneralHandler) write(c *wsPkg.GeneralClient) {
	defer c.Conn.Close()

	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("Error writing message: %v", err)
			return
		}
	}
}
