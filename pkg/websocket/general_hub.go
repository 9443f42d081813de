package websocket

import (
	"log"
	"sync"
)

type GeneralHub struct {
	Clients map[string]*GeneralClient
	mu      sync.Mutex
}

func NewGeneralHub() *GeneralHub {
	return &GeneralHub{
		Clients: make(map[string]*GeneralClient),
	}
}

// AddClient registers c, replacing any older connection for the same player.
func (h *GeneralHub) AddClient(c *GeneralClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.Clients[c.ID]; ok && old != c {
		close(old.Send)
	}
	h.Clients[c.ID] = c
	log.Printf("General client %s connected", c.ID)
}

func (h *GeneralHub) RemoveClient(c *GeneralClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.Clients[c.ID]; ok && cur == c {
		delete(h.Clients, c.ID)
		close(c.Send)
		log.Printf("General client %s disconnected", c.ID)
	}
}

func (h *GeneralHub) SendToClient(playerID string, message []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, exists := h.Clients[playerID]
	if !exists {
		return false
	}

	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}
