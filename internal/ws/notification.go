package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/krishanu7/battleship-ai/internal/session"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
	"github.com/redis/go-redis/v9"
)

// NotificationWorker relays game events published on redis to the players'
// notification connections.
type NotificationWorker struct {
	RedisClient *redis.Client
	GeneralHub  *wsPkg.GeneralHub
	Channel     string
}

func NewNotificationWorker(rdb *redis.Client, hub *wsPkg.GeneralHub, channel string) *NotificationWorker {
	return &NotificationWorker{
		RedisClient: rdb,
		GeneralHub:  hub,
		Channel:     channel,
	}
}

// Run blocks until ctx is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) {
	log.Printf("Notification worker listening on %q", w.Channel)
	pubsub := w.RedisClient.Subscribe(ctx, w.Channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Println("Notification worker stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Dispatch([]byte(msg.Payload))
		}
	}
}

// Dispatch forwards one encoded session.Event to its player.
func (w *NotificationWorker) Dispatch(payload []byte) bool {
	var ev session.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("Failed to unmarshal notification: %v", err)
		return false
	}
	if ev.Player == "" {
		log.Printf("Dropping %s notification without player", ev.Type)
		return false
	}
	if !w.GeneralHub.SendToClient(ev.Player, payload) {
		log.Printf("Player %s is not connected for %s notification", ev.Player, ev.Type)
		return false
	}
	return true
}
