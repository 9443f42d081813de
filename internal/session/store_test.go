package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/krishanu7/battleship-ai/internal/targeting"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playedSession(t *testing.T) *Session {
	t.Helper()
	s := newTestSession(t, 6, game.Roster{{Name: "Cruiser", Length: 3}, {Name: "Destroyer", Length: 2}}, targeting.HuntAndTarget)
	e := testEngine(8)
	for _, c := range []game.Coordinate{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 1, Y: 0}} {
		_, err := s.PlayerAttack(c, e, 1000)
		require.NoError(t, err)
	}
	return s
}

func assertSameSession(t *testing.T, want, got *Session) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Turn, got.Turn)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Roster, got.Roster)
	assert.Equal(t, want.Player.Board.Cells(), got.Player.Board.Cells())
	assert.Equal(t, want.AI.Board.Cells(), got.AI.Board.Cells())
	assert.Equal(t, want.Player.Fleet, got.Player.Fleet)
	assert.Equal(t, want.AI.Fleet, got.AI.Fleet)
	assert.Equal(t, want.Player.Shots.Shots(), got.Player.Shots.Shots())
	assert.Equal(t, want.AI.Shots.Shots(), got.AI.Shots.Shots())
	assert.Equal(t, want.Opponent.Strategy, got.Opponent.Strategy)
	assert.Equal(t, want.Opponent.Memory, got.Opponent.Memory)
	assert.Same(t, got.AI.Shots, got.Opponent.Shots)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := playedSession(t)

	require.NoError(t, store.Save(ctx, s))
	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assertSameSession(t, s, got)

	got.Turn = 99
	again, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Turn, again.Turn, "loads are independent copies")

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

// Runs against a real server when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	store := NewRedisStore(rdb, time.Minute)
	s := playedSession(t)
	s.ID = "test-" + time.Now().Format("150405.000000000")

	require.NoError(t, store.Save(ctx, s))
	ttl, err := rdb.TTL(ctx, gameKey(s.ID)).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0, "saved games expire")

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assertSameSession(t, s, got)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
