package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/krishanu7/battleship-ai/db"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when DB_URL is set.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("DB_URL")
	if url == "" {
		t.Skip("DB_URL not set")
	}
	conn, err := sql.Open("postgres", url)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))
	return conn
}

func statsOf(t *testing.T, conn *sql.DB, playerID string) (wins, losses, elo int) {
	t.Helper()
	err := conn.QueryRow("SELECT wins, losses, elo FROM stats WHERE player_id = $1", playerID).Scan(&wins, &losses, &elo)
	require.NoError(t, err)
	return wins, losses, elo
}

func TestRecordResult(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	svc := NewService(conn)

	suffix := fmt.Sprint(time.Now().UnixNano())
	winner, loser := "lb-winner-"+suffix, "ai:lb-"+suffix
	t.Cleanup(func() {
		conn.Exec("DELETE FROM stats WHERE player_id IN ($1, $2)", winner, loser)
	})

	require.NoError(t, svc.RecordResult(ctx, winner, loser))
	w, l, elo := statsOf(t, conn, winner)
	assert.Equal(t, [3]int{1, 0, 1516}, [3]int{w, l, elo})
	w, l, elo = statsOf(t, conn, loser)
	assert.Equal(t, [3]int{0, 1, 1484}, [3]int{w, l, elo})

	require.NoError(t, svc.RecordResult(ctx, winner, loser))
	wantW, wantL := EloUpdate(1516, 1484)
	w, _, elo = statsOf(t, conn, winner)
	assert.Equal(t, 2, w)
	assert.Equal(t, wantW, elo)
	_, l, elo = statsOf(t, conn, loser)
	assert.Equal(t, 2, l)
	assert.Equal(t, wantL, elo)
}

func TestGetLeaderboard(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	svc := NewService(conn)

	suffix := fmt.Sprint(time.Now().UnixNano())
	top, bottom := "lb-top-"+suffix, "lb-bottom-"+suffix
	t.Cleanup(func() {
		conn.Exec("DELETE FROM stats WHERE player_id IN ($1, $2)", top, bottom)
	})
	require.NoError(t, svc.RecordResult(ctx, top, bottom))

	entries, err := svc.GetLeaderboard(ctx, 100)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Elo, entries[i].Elo, "sorted by elo")
	}

	one, err := svc.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, entries[0].Elo, one[0].Elo)

	for _, e := range entries {
		if e.PlayerID == top {
			assert.Equal(t, top, e.Username, "players without an account show their id")
			assert.Equal(t, 1, e.Wins)
		}
	}
}
