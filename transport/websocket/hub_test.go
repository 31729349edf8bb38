package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/klondike/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case data := <-client.send:
		var message Message
		require.NoError(t, json.Unmarshal(data, &message))
		return message
	case <-time.After(time.Second):
		t.Fatal("no message received within timeout")
		return Message{}
	}
}

func startServer(t *testing.T, hub *Hub) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount(sessionID) == want
	}, time.Second, 10*time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	require.NotNil(t, hub)
	assert.NotNil(t, hub.sessions)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "Test-Session")

	hub.registerClient(client)

	require.Contains(t, hub.sessions, "test-session")
	assert.True(t, hub.sessions["test-session"][client])
	assert.Len(t, hub.sessions["test-session"], 1)
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-session")

	hub.registerClient(client)
	hub.unregisterClient(client)

	assert.NotContains(t, hub.sessions, "test-session")
	_, open := <-client.send
	assert.False(t, open, "send channel should be closed")

	// A second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "multi")
	client2 := newTestClient(hub, "multi")

	hub.registerClient(client1)
	hub.registerClient(client2)
	assert.Len(t, hub.sessions["multi"], 2)

	hub.unregisterClient(client1)
	assert.Len(t, hub.sessions["multi"], 1)
	assert.True(t, hub.sessions["multi"][client2])
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	watcher := newTestClient(hub, "broadcast-test")
	other := newTestClient(hub, "elsewhere")
	hub.register <- watcher
	hub.register <- other

	state := engine.DealFrom(engine.OrderedDeck())
	hub.BroadcastToSession("BROADCAST-TEST", &state)

	message := receive(t, watcher)
	assert.Equal(t, "BROADCAST-TEST", message.SessionID)
	assert.Equal(t, EventStateUpdate, message.Event)
	require.NotNil(t, message.State)
	assert.Equal(t, state, *message.State)

	select {
	case <-other.send:
		t.Error("client of another session received the broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, "event-test")
	hub.register <- client

	hub.BroadcastEvent("event-test", EventMove, map[string]string{"result": "continue"})

	message := receive(t, client)
	assert.Equal(t, EventMove, message.Event)
	assert.Nil(t, message.State)
	assert.Equal(t, map[string]interface{}{"result": "continue"}, message.Data)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventStateUpdate})

	assert.NotContains(t, hub.sessions, "slow")
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	wsURL := startServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=ws-test", nil)
	require.NoError(t, err)

	waitForClients(t, hub, "ws-test", 1)

	conn.Close()
	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	wsURL := startServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=msg-test", nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, "msg-test", 1)

	state := engine.DealFrom(engine.OrderedDeck())
	hub.BroadcastToSession("msg-test", &state)
	hub.BroadcastEvent("msg-test", EventQuit, "bye")

	conn.SetReadDeadline(time.Now().Add(time.Second))

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, EventStateUpdate, first.Event)
	require.NotNil(t, first.State)
	assert.Len(t, first.State.Draw, engine.InitialDraw)

	var second Message
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, EventQuit, second.Event)
	assert.Equal(t, "bye", second.Data)
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	wsURL := startServer(t, hub)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=stop-test", nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, "stop-test", 1)
	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount("stop-test"))
}
