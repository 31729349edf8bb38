package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/klondike/api"
	"github.com/wricardo/klondike/game/config"
	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
	"github.com/wricardo/klondike/game/session"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content in result")
	return text.Text
}

// newLiveClient points a client at a real REST server backed by in-memory sessions
func newLiveClient(t *testing.T) *Client {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)

	svc := service.NewGameServiceWithLogger(session.NewManager(), configs, log)
	server := httptest.NewServer(api.NewServerWithLogger(svc, nil, log))
	t.Cleanup(server.Close)

	return NewClient(server.URL)
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	require.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"echo": body["src"]})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]string
	err := client.apiCall(context.Background(), "PUT", "/api", map[string]string{"src": "draw"}, &response)
	require.NoError(t, err)
	assert.Equal(t, "draw", response["echo"])
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	assert.Error(t, err)
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"plain body", http.StatusInternalServerError, "Internal Server Error", "API error: 500"},
		{"error body", http.StatusBadRequest, `{"error":"illegal move"}`, "illegal move"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_createSessionForwardsOptions(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/sessions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		state := engine.DealFrom(engine.OrderedDeck())
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:         "ab12",
			ConfigName: "draw3",
			DrawCount:  3,
			State:      &state,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"config_id": "draw3",
		"draw":      "Draw 3",
		"color":     "",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "Created session: ab12")
	assert.Contains(t, text, "draw 3")
	assert.Equal(t, map[string]string{"config_id": "draw3", "draw": "Draw 3"}, got)
}

func TestClient_handlesMissingArguments(t *testing.T) {
	client := NewClient("http://localhost:0")

	request := mcp.CallToolRequest{}
	request.Params.Name = "game_state"

	result, err := client.handleGameState(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestClient_GameFlow(t *testing.T) {
	client := newLiveClient(t)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callTool("create_session", map[string]interface{}{"config_id": "draw1"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	result, err = client.handleListSessions(ctx, callTool("list_sessions", nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Sessions (1)")

	// Recover the generated ID through the REST API
	var listing struct {
		Sessions []service.SessionInfo `json:"sessions"`
	}
	require.NoError(t, client.apiCall(ctx, "GET", "/api/sessions", nil, &listing))
	require.Len(t, listing.Sessions, 1)
	id := listing.Sessions[0].ID
	args := map[string]interface{}{"session_id": id}

	result, err = client.handleGameState(ctx, callTool("game_state", args))
	require.NoError(t, err)
	state := resultText(t, result)
	assert.Contains(t, state, "DRAW: 24 cards")
	assert.Contains(t, state, "CARDS REMAINING: 52")

	result, err = client.handleHint(ctx, callTool("hint", args))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "draw -> discard")

	result, err = client.handleMove(ctx, callTool("move", map[string]interface{}{
		"session_id": id,
		"src":        engine.Draw,
		"dst":        engine.Discard,
		"intent":     "turn over the first card",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	moved := resultText(t, result)
	assert.Contains(t, moved, "draw -> discard (move 1")
	assert.Contains(t, moved, "DRAW: 23 cards")

	result, err = client.handleUndo(ctx, callTool("undo", args))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "DRAW: 24 cards")

	result, err = client.handleRedo(ctx, callTool("redo", args))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "DRAW: 23 cards")

	result, err = client.handleRedo(ctx, callTool("redo", args))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = client.handleMoveHistory(ctx, callTool("move_history", map[string]interface{}{
		"session_id": id,
		"page":       float64(1),
		"limit":      float64(10),
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "#1: draw -> discard")

	result, err = client.handleGetSession(ctx, callTool("get_session", args))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Session: "+id)

	result, err = client.handleQuit(ctx, callTool("quit", args))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "quit")

	result, err = client.handleMove(ctx, callTool("move", map[string]interface{}{
		"session_id": id,
		"src":        engine.Draw,
		"dst":        engine.Discard,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "quit game should reject moves")
}

func TestClient_rejectedMove(t *testing.T) {
	client := newLiveClient(t)
	ctx := context.Background()

	var info service.SessionInfo
	require.NoError(t, client.apiCall(ctx, "POST", "/api/sessions", map[string]string{}, &info))

	result, err := client.handleMove(ctx, callTool("move", map[string]interface{}{
		"session_id": info.ID,
		"src":        engine.Discard,
		"dst":        engine.Pile1,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "discard -> pile1 rejected")

	result, err = client.handleGameState(ctx, callTool("game_state", map[string]interface{}{"session_id": "nope"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestClient_handleListConfigs(t *testing.T) {
	client := newLiveClient(t)

	result, err := client.handleListConfigs(context.Background(), callTool("list_configs", nil))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "draw1 (Draw One)")
	assert.Contains(t, text, "draw3 (Draw Three)")
	assert.Contains(t, text, "Draw: 3")
}

func TestShortCard(t *testing.T) {
	tests := []struct {
		card engine.Card
		want string
	}{
		{engine.Card{Suit: engine.Spades, Value: engine.Ace, Up: true}, "AS"},
		{engine.Card{Suit: engine.Hearts, Value: 10, Up: true}, "10H"},
		{engine.Card{Suit: engine.Diamonds, Value: engine.Queen, Up: true}, "QD"},
		{engine.Card{Suit: engine.Clubs, Value: engine.King}, "##"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, shortCard(tt.card))
	}
}

func TestFormatState(t *testing.T) {
	state := engine.DealFrom(engine.OrderedDeck())
	text := formatState(&state)

	for _, name := range engine.FoundationNames {
		assert.Contains(t, text, name+": (empty)")
	}
	assert.Contains(t, text, "DISCARD: 0 cards, top (empty)")

	// pile1 holds a single face-up card; pile7 shows six face-down cards first
	pile7 := state.Tableau()[6]
	assert.Contains(t, text, "pile7: ## ## ## ## ## ## "+shortCard(pile7[6]))

	assert.Equal(t, "(no state)", formatState(nil))
}

func TestFormatMoveResult(t *testing.T) {
	state := engine.DealFrom(engine.OrderedDeck())

	text := formatMoveResult(&service.MoveResult{
		State:  &state,
		Result: engine.ResultWon,
		Move:   engine.Move{Src: engine.Pile1, Dst: engine.Stack1},
		Moves:  7,
		Events: []service.GameEvent{{Type: "won", Message: "All foundations complete"}},
	})

	assert.Contains(t, text, "pile1 -> stack1 (move 7, result: won)")
	assert.Contains(t, text, "[won] All foundations complete")
	assert.Contains(t, text, "GAME WON!")

	lost := formatMoveResult(&service.MoveResult{State: &state, Result: engine.ResultLost})
	assert.Contains(t, lost, "Try undo or quit")
}

func TestFormatHint(t *testing.T) {
	assert.Equal(t, "No legal moves.", formatHint(nil))

	text := formatHint([]engine.Move{{Src: engine.Draw, Dst: engine.Discard}})
	assert.Contains(t, text, "Legal moves (1)")
	assert.Contains(t, text, "draw -> discard")
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	require.NoError(t, err)

	text := resultText(t, result)
	for _, section := range []string{
		"Klondike Solitaire - Complete Instructions",
		"GAME OBJECTIVE:",
		"PILES:",
		"MOVES (src -> dst):",
		"PLACEMENT RULES:",
		"CARD NOTATION:",
	} {
		assert.Contains(t, text, section)
	}
}
