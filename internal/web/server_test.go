package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/hsk-life/config"
	"github.com/user/hsk-life/internal/game"
	"github.com/user/hsk-life/internal/types"
)

type stubDialogue struct {
	reply types.DialogueReply
}

func (s stubDialogue) Respond(context.Context, types.DialogueRequest) (types.DialogueReply, error) {
	return s.reply, nil
}

type testEnv struct {
	server *httptest.Server
	hub    *Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Game.TimeOfDayInterval = 3600
	cfg.Game.WeatherInterval = 3600
	cfg.Game.SurvivalInterval = 3600

	hub := NewHub(nil)
	manager := game.NewManager(cfg, game.ManagerOptions{
		Saves:    game.NewSaveStore(game.NewMemoryStore()),
		Dialogue: stubDialogue{reply: types.DialogueReply{Text: "你好！", FaceChange: 1}},
		Effects:  hub,
	})
	srv := httptest.NewServer(NewServer(cfg.Server, manager, hub, nil).Router())
	t.Cleanup(func() {
		hub.CloseAll()
		srv.Close()
		manager.Shutdown()
	})
	return &testEnv{server: srv, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type actionBody struct {
	Result json.RawMessage `json:"result"`
	State  struct {
		ID    string            `json:"id"`
		Mode  string            `json:"mode"`
		Stats types.PlayerStats `json:"stats"`
		Zone  struct {
			Zone   types.Zone `json:"zone"`
			Locked bool       `json:"locked"`
		} `json:"zone"`
	} `json:"state"`
}

func (e *testEnv) register(t *testing.T) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/players", map[string]string{"name": "Tester"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	view := decodeBody[game.View](t, resp)
	require.NotEmpty(t, view.ID)
	return view.ID
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterAndView(t *testing.T) {
	env := newTestEnv(t)

	// Test case 1: Register
	id := env.register(t)

	// Test case 2: View
	resp := env.do(t, http.MethodGet, "/players/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "exploring", view["mode"])
	assert.Equal(t, "Tester", view["name"])

	// Test case 3: Listed
	resp = env.do(t, http.MethodGet, "/players", nil)
	players := decodeBody[[]playerSummary](t, resp)
	require.Len(t, players, 1)
	assert.Equal(t, id, players[0].ID)

	// Test case 4: Unknown and malformed ids
	resp = env.do(t, http.MethodGet, "/players/nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/players", map[string]string{"id": "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/players", map[string]string{"id": id})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Test case 5: Remove
	resp = env.do(t, http.MethodDelete, "/players/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/players/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConversationOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t)

	// Test case 1: speaking without a conversation
	resp := env.do(t, http.MethodPost, "/players/"+id+"/speak", map[string]string{"text": "你好"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Test case 2: interact then speak
	resp = env.do(t, http.MethodPost, "/players/"+id+"/interact", map[string]string{"npc_id": "grandma_li"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "chatting", decodeBody[actionBody](t, resp).State.Mode)

	resp = env.do(t, http.MethodPost, "/players/"+id+"/speak", map[string]string{"text": "你好"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[actionBody](t, resp)
	var turn game.TurnResult
	require.NoError(t, json.Unmarshal(body.Result, &turn))
	require.NotNil(t, turn.Reply)
	assert.Equal(t, "你好！", turn.Reply.Text)
	assert.Equal(t, 51, body.State.Stats.Face)
	assert.Equal(t, 95, body.State.Stats.Stamina)

	// Test case 3: close
	resp = env.do(t, http.MethodPost, "/players/"+id+"/chat/close", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "exploring", decodeBody[actionBody](t, resp).State.Mode)

	// Test case 4: unknown NPC
	resp = env.do(t, http.MethodPost, "/players/"+id+"/interact", map[string]string{"npc_id": "nobody"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestZoneOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t)

	resp := env.do(t, http.MethodPost, "/players/"+id+"/zone", map[string]string{"direction": "next"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "park", decodeBody[actionBody](t, resp).State.Zone.Zone.ID)

	resp = env.do(t, http.MethodPost, "/players/"+id+"/zone", map[string]string{"zone_id": "cbd"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/players/"+id+"/zone", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t)

	resp := env.do(t, http.MethodPost, "/players/"+id+"/job/open", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "working", decodeBody[actionBody](t, resp).State.Mode)

	resp = env.do(t, http.MethodPost, "/players/"+id+"/job/task", map[string]string{"text": "你好"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/players/"+id+"/job/finish", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[actionBody](t, resp)
	assert.JSONEq(t, `{"earned":15}`, string(body.Result))
	assert.Equal(t, 215, body.State.Stats.Money)

	resp = env.do(t, http.MethodPost, "/players/"+id+"/job/finish", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestContentAndQR(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t)

	resp := env.do(t, http.MethodGet, "/content", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	content := decodeBody[map[string][]json.RawMessage](t, resp)
	assert.Len(t, content["zones"], 5)
	assert.Len(t, content["npcs"], 15)
	assert.NotEmpty(t, content["items"])
	assert.NotEmpty(t, content["jobs"])

	resp = env.do(t, http.MethodGet, "/players/"+id+"/qr", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	var png bytes.Buffer
	_, err := png.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))
}

func TestEffectStream(t *testing.T) {
	env := newTestEnv(t)
	id := env.register(t)

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/players/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.hub.Subscribers(id) == 1 }, time.Second, 5*time.Millisecond)

	resp := env.do(t, http.MethodPost, "/players/"+id+"/speech-error", map[string]string{"reason": "not-allowed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var effect types.Effect
	require.NoError(t, conn.ReadJSON(&effect))
	assert.Equal(t, types.Effect{PlayerID: id, Kind: types.EffectNotice, Text: "Mic Error"}, effect)

	// effects of other players are not delivered
	env.hub.Emit(types.Effect{PlayerID: "someone-else", Kind: types.EffectNotice, Text: "nope"})
	env.hub.Emit(types.Effect{PlayerID: id, Kind: types.EffectSound, Sound: types.SoundCoin})
	require.NoError(t, conn.ReadJSON(&effect))
	assert.Equal(t, types.SoundCoin, effect.Sound)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{game.ErrPlayerNotFound, http.StatusNotFound},
		{game.ErrZoneLocked, http.StatusForbidden},
		{game.ErrInvalidTransition, http.StatusConflict},
		{game.ErrGameOver, http.StatusConflict},
		{game.ErrUnknownZone, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
