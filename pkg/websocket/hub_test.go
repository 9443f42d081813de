package websocket

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubJoinAndLeave(t *testing.T) {
	errNoGame := errors.New("no such game")
	hub := NewHub(func(_ context.Context, roomID, clientID string) error {
		if roomID != "game-1" {
			return errNoGame
		}
		return nil
	})
	ctx := context.Background()

	a, b := NewClient("p", nil), NewClient("p", nil)
	room, err := hub.Join(ctx, "game-1", a)
	require.NoError(t, err)
	again, err := hub.Join(ctx, "game-1", b)
	require.NoError(t, err)
	assert.Same(t, room, again)
	assert.Equal(t, 2, room.Len())

	_, err = hub.Join(ctx, "game-2", NewClient("p", nil))
	assert.ErrorIs(t, err, errNoGame)
	_, ok := hub.Room("game-2")
	assert.False(t, ok)

	hub.Leave(a)
	_, ok = hub.Room("game-1")
	assert.True(t, ok)
	hub.Leave(b)
	_, ok = hub.Room("game-1")
	assert.False(t, ok, "empty rooms are dropped")

	_, open := <-a.Send
	assert.False(t, open, "leaving closes the send queue")
}

func TestRoomBroadcast(t *testing.T) {
	room := NewRoom("game-1")
	a, b := NewClient("a", nil), NewClient("b", nil)
	room.AddClient(a)
	room.AddClient(b)

	room.Broadcast(nil, []byte("all"))
	room.Broadcast(a, []byte("others"))

	assert.Equal(t, "all", string(<-a.Send))
	assert.Equal(t, "all", string(<-b.Send))
	assert.Equal(t, "others", string(<-b.Send))
	assert.Empty(t, a.Send)
}

func TestDeliverDropsWhenFull(t *testing.T) {
	c := NewClient("a", nil)
	for i := 0; i < sendBuffer; i++ {
		require.True(t, c.Deliver([]byte("x")))
	}
	assert.False(t, c.Deliver([]byte("overflow")))
}

func TestGeneralHub(t *testing.T) {
	hub := NewGeneralHub()
	assert.False(t, hub.SendToClient("p", []byte("hello")))

	old := NewGeneralClient("p", nil)
	hub.AddClient(old)
	assert.True(t, hub.SendToClient("p", []byte("hello")))
	assert.Equal(t, "hello", string(<-old.Send))

	fresh := NewGeneralClient("p", nil)
	hub.AddClient(fresh)
	_, open := <-old.Send
	assert.False(t, open, "a reconnect replaces the old connection")

	hub.RemoveClient(old)
	assert.True(t, hub.SendToClient("p", []byte("still here")))
	assert.Equal(t, "still here", string(<-fresh.Send))

	hub.RemoveClient(fresh)
	assert.False(t, hub.SendToClient("p", []byte("gone")))
}
