package websocket

import (
	"log"
	"sync"
)

// Room groups the connections watching one game.
type Room struct {
	ID      string
	Clients map[*Client]struct{}
	mu      sync.Mutex
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Clients: make(map[*Client]struct{}),
	}
}

// Broadcast sends message to every client in the room except skip, which
// may be nil.
func (r *Room) Broadcast(skip *Client, message []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for client := range r.Clients {
		if client == skip {
			continue
		}
		if !client.Deliver(message) {
			log.Printf("Dropped message for client %s in room %s", client.ID, r.ID)
		}
	}
}

func (r *Room) AddClient(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clients[c] = struct{}{}
	c.Room = r
	log.Printf("Client %s joined room %s", c.ID, r.ID)
}

// RemoveClient drops c and reports how many clients remain.
func (r *Room) RemoveClient(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Clients[c]; ok {
		delete(r.Clients, c)
		close(c.Send)
		log.Printf("Client %s left room %s", c.ID, r.ID)
	}
	return len(r.Clients)
}

func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Clients)
}
