package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
)

const sendBuffer = 16

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one player's connection to a game room.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Room *Room
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}

// Deliver queues msg without blocking. A full buffer drops the message.
func (c *Client) Deliver(msg []byte) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}
