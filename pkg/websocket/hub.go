package websocket

import (
	"context"
	"log"
	"sync"
)

// RoomCheck reports whether a client may open a room for roomID.
type RoomCheck func(ctx context.Context, roomID, clientID string) error

type Hub struct {
	Rooms map[string]*Room
	mu    sync.Mutex
	check RoomCheck
}

func NewHub(check RoomCheck) *Hub {
	return &Hub{
		Rooms: make(map[string]*Room),
		check: check,
	}
}

// Join places c in the room for roomID, creating the room on first use.
func (h *Hub) Join(ctx context.Context, roomID string, c *Client) (*Room, error) {
	if h.check != nil {
		if err := h.check(ctx, roomID, c.ID); err != nil {
			return nil, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room, exists := h.Rooms[roomID]
	if !exists {
		room = NewRoom(roomID)
		h.Rooms[roomID] = room
		log.Printf("Initialized room %s", roomID)
	}
	room.AddClient(c)
	return room, nil
}

// Leave removes c from its room and drops the room once it is empty.
func (h *Hub) Leave(c *Client) {
	room := c.Room
	if room == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if room.RemoveClient(c) == 0 && h.Rooms[room.ID] == room {
		delete(h.Rooms, room.ID)
		log.Printf("Closed room %s", room.ID)
	}
}

func (h *Hub) Room(roomID string) (*Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.Rooms[roomID]
	return room, ok
}
