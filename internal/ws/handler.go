package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/krishanu7/battleship-ai/internal/session"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
)

type Handler struct {
	Hub         *wsPkg.Hub
	gameService *session.Service
}

func NewHandler(gameService *session.Service) *Handler {
	h := &Handler{gameService: gameService}
	h.Hub = wsPkg.NewHub(h.canJoin)
	return h
}

func (h *Handler) canJoin(ctx context.Context, gameID, playerID string) error {
	_, err := h.gameService.Get(ctx, gameID, playerID)
	return err
}

type inbound struct {
	Type       string `json:"type"`
	Coordinate string `json:"coordinate"`
}

type attackResult struct {
	Type   string              `json:"type"`
	GameID string              `json:"gameId"`
	Result *session.TurnResult `json:"result"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ServeWS upgrades an authenticated request into a connection on the game
// named by ?gameId=.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := auth.PlayerID(r.Context())
	gameID := r.URL.Query().Get("gameId")
	if playerID == "" || gameID == "" {
		http.Error(w, "Missing gameId", http.StatusBadRequest)
		return
	}
	// join before the upgrade so a refused player gets a plain HTTP error
	client := wsPkg.NewClient(playerID, nil)
	if _, err := h.Hub.Join(r.Context(), gameID, client); err != nil {
		log.Printf("Player %s cannot join game %s: %v", playerID, gameID, err)
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	conn, err := wsPkg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade failed: %v", err)
		h.Hub.Leave(client)
		return
	}
	client.Conn = conn

	log.Printf("Player %s connected to game %s", playerID, gameID)
	go h.read(client)
	go h.write(client)
}

func (h *Handler) read(c *wsPkg.Client) {
	defer func() {
		h.Hub.Leave(c)
		c.Conn.Close()
	}()
	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Read error for client %s: %v", c.ID, err)
			}
			return
		}
		var message inbound
		if err := json.Unmarshal(msg, &message); err != nil {
			h.reply(c, errorMessage{Type: "error", Message: "invalid message"})
			continue
		}
		switch message.Type {
		case "attack":
			h.attack(c, message.Coordinate)
		default:
			h.reply(c, errorMessage{Type: "error", Message: "unknown message type: " + message.Type})
		}
	}
}

func (h *Handler) attack(c *wsPkg.Client, coordinate string) {
	res, err := h.gameService.Attack(context.Background(), c.Room.ID, c.ID, coordinate)
	if err != nil {
		h.reply(c, errorMessage{Type: "error", Message: err.Error()})
		return
	}
	payload, err := json.Marshal(attackResult{Type: "attack_result", GameID: c.Room.ID, Result: res})
	if err != nil {
		log.Printf("Failed to marshal attack_result: %v", err)
		return
	}
	c.Room.Broadcast(nil, payload)
}

// reply goes to the sender only.
func (h *Handler) reply(c *wsPkg.Client, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal reply: %v", err)
		return
	}
	c.Deliver(payload)
}

func (h *Handler) write(c *wsPkg.Client) {
	defer c.Conn.Close()

	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("Write error for client %s: %v", c.ID, err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
