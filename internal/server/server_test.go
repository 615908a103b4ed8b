package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/noodle-factory/config"
	"github.com/user/noodle-factory/internal/game"
	"github.com/user/noodle-factory/internal/types"
)

func newTestServer(t *testing.T) (*httptest.Server, *ChaosHub) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Game.Seed = 7
	gameManager := game.NewGameManager(cfg, game.NewMemoryStore(), nil)
	hub := NewChaosHub(nil)
	gameManager.SetChaosListener(hub)

	ts := httptest.NewServer(New(cfg, gameManager, hub, nil).Router())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return ts, hub
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestStateAndCards(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/state", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state stateResponse
	decode(t, resp, &state)
	assert.Equal(t, 10, state.State.ChaosLevel)
	assert.Equal(t, 0, state.ChaosTier)
	assert.Equal(t, 0, state.Turn)
	assert.NotEmpty(t, state.SessionID)

	resp = doRequest(t, http.MethodGet, ts.URL+"/cards", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cards []types.Card
	decode(t, resp, &cards)
	assert.Len(t, cards, game.DefaultCardCatalog().Len()-1)

	resp = doRequest(t, http.MethodPost, ts.URL+"/cards/draw", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card types.Card
	decode(t, resp, &card)
	assert.NotEmpty(t, card.Name)
	assert.NotEqual(t, game.ReturnOfReggie, card.Name)
}

func TestPlayCardRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	// Test case 1: successful play
	resp := doRequest(t, http.MethodPost, ts.URL+"/cards/Coffee%20Break/play", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result types.TurnResult
	decode(t, resp, &result)
	assert.Equal(t, 13, result.ChaosLevel)
	require.NotEmpty(t, result.Unlocked)
	assert.Equal(t, game.AchievementFirstShift, result.Unlocked[0].ID)

	// Test case 2: unmet requirement
	resp = doRequest(t, http.MethodPost, ts.URL+"/cards/Magic%20Noodle%20Spell/play", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Test case 3: gated card
	resp = doRequest(t, http.MethodPost, ts.URL+"/cards/Return%20of%20Reggie/play", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Test case 4: unknown card
	resp = doRequest(t, http.MethodPost, ts.URL+"/cards/Spaghetti%20Monster/play", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errBody map[string]string
	decode(t, resp, &errBody)
	assert.Contains(t, errBody["error"], "Spaghetti Monster")

	// Test case 5: names with an apostrophe
	resp = doRequest(t, http.MethodPost, ts.URL+"/cards/Reggie%27s%20Escape%20Plan/play", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []types.Decision
	decode(t, resp, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "Reggie's Escape Plan", history[1].Subject)
}

func TestEventRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/events/draw", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var event types.Event
	decode(t, resp, &event)
	require.NotEmpty(t, event.ID)

	resolveURL := ts.URL + "/events/" + event.ID + "/resolve"

	// Test case 1: bad body and bad choice keep the event pending
	resp = doRequest(t, http.MethodPost, resolveURL, "{")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = doRequest(t, http.MethodPost, resolveURL, `{"choice":"up"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Test case 2: resolve once
	resp = doRequest(t, http.MethodPost, resolveURL, `{"choice":"left"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result types.TurnResult
	decode(t, resp, &result)
	assert.Contains(t, result.Narrative, event.Left.Text)

	// Test case 3: second resolution is rejected
	resp = doRequest(t, http.MethodPost, resolveURL, `{"choice":"right"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Test case 4: unknown event
	resp = doRequest(t, http.MethodPost, ts.URL+"/events/alien_invasion/resolve", `{"choice":"left"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTurnAndGameRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/turn", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result types.TurnResult
	decode(t, resp, &result)
	assert.Equal(t, 1, result.Turn)
	assert.Equal(t, 1, result.State.ChaosControlTurns)

	resp = doRequest(t, http.MethodPost, ts.URL+"/game/new", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state types.ResourceState
	decode(t, resp, &state)
	assert.Equal(t, 0, state.ChaosControlTurns)
	assert.Equal(t, 10, state.ChaosLevel)
}

func TestAchievementRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/turn", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/achievements", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var statuses []types.AchievementStatus
	decode(t, resp, &statuses)
	require.NotEmpty(t, statuses)
	assert.Equal(t, game.AchievementFirstShift, statuses[0].ID)
	assert.True(t, statuses[0].Unlocked)

	resp = doRequest(t, http.MethodGet, ts.URL+"/achievements/share.png", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	png, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	resp = doRequest(t, http.MethodPost, ts.URL+"/progress/reset", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/achievements", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &statuses)
	for _, s := range statuses {
		assert.False(t, s.Unlocked, s.ID)
	}
}

func TestChaosFeed(t *testing.T) {
	ts, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/chaos"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	// The current level arrives on connect
	var update ChaosUpdate
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, ChaosUpdate{ChaosLevel: 10, ChaosTier: 0}, update)

	resp := doRequest(t, http.MethodPost, ts.URL+"/cards/Worker%20Strike/play", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, ChaosUpdate{ChaosLevel: 30, ChaosTier: 1}, update)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
