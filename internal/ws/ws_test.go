package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/krishanu7/battleship-ai/internal/auth"
	"github.com/krishanu7/battleship-ai/internal/session"
	wsPkg "github.com/krishanu7/battleship-ai/pkg/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asPlayer(id string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithPlayerID(r.Context(), id)))
	})
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(msg, v))
}

func TestGameSocket(t *testing.T) {
	svc := session.NewService(session.NewMemoryStore(), nil, nil, session.Options{Seed: 3})
	sess, err := svc.NewGame(context.Background(), "p", session.NewGameRequest{})
	require.NoError(t, err)

	h := NewHandler(svc)
	srv := httptest.NewServer(asPlayer("p", h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv, "/?gameId="+sess.ID)
	watcher := dial(t, srv, "/?gameId="+sess.ID)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "attack", "coordinate": "B2"}))
	var got struct {
		Type   string              `json:"type"`
		GameID string              `json:"gameId"`
		Result session.TurnResult `json:"result"`
	}
	readJSON(t, conn, &got)
	assert.Equal(t, "attack_result", got.Type)
	assert.Equal(t, sess.ID, got.GameID)
	assert.Equal(t, "B2", got.Result.Player.Label)
	assert.Equal(t, 1, got.Result.Turn)

	var seen struct {
		Type string `json:"type"`
	}
	readJSON(t, watcher, &seen)
	assert.Equal(t, "attack_result", seen.Type, "results reach every connection on the game")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "attack", "coordinate": "B2"}))
	var errMsg errorMessage
	readJSON(t, conn, &errMsg)
	assert.Equal(t, "error", errMsg.Type)
	assert.Contains(t, errMsg.Message, "already attacked")
}

func TestGameSocketRejectsUnknownGame(t *testing.T) {
	svc := session.NewService(session.NewMemoryStore(), nil, nil, session.Options{Seed: 3})
	h := NewHandler(svc)
	srv := httptest.NewServer(asPlayer("p", h.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?gameId=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNotificationSocket(t *testing.T) {
	hub := wsPkg.NewGeneralHub()
	srv := httptest.NewServer(asPlayer("p", NewGeneralHandler(hub).ServeGeneralWS))
	defer srv.Close()
	conn := dial(t, srv, "/")

	worker := NewNotificationWorker(nil, hub, "notifications")
	payload, err := json.Marshal(session.Event{Type: "game_over", GameID: "g", Player: "p", Status: session.StatusPlayerWon})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return worker.Dispatch(payload) }, 2*time.Second, 10*time.Millisecond)
	var ev session.Event
	readJSON(t, conn, &ev)
	assert.Equal(t, "game_over", ev.Type)
	assert.Equal(t, session.StatusPlayerWon, ev.Status)
}

func TestDispatchSkipsBadPayloads(t *testing.T) {
	worker := NewNotificationWorker(nil, wsPkg.NewGeneralHub(), "notifications")
	assert.False(t, worker.Dispatch([]byte("not json")))
	assert.False(t, worker.Dispatch([]byte(`{"type":"game_over"}`)))
	assert.False(t, worker.Dispatch([]byte(`{"type":"game_over","player":"offline"}`)))
}
