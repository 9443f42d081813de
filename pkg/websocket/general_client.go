package websocket

import (
	"github.com/gorilla/websocket"
)

// GeneralClient is a player's notification connection, independent of any
// game.
type GeneralClient struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

func NewGeneralClient(id string, conn *websocket.Conn) *GeneralClient {
	return &GeneralClient{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}
