// Package websocket pushes Klondike session updates to browsers.
//
// A client connects with /ws?session=<id> and receives JSON messages for
// that session only:
//
//	{"session_id": "a1b2", "event": "state_update", "state": {"pile1": [...], ...}}
//	{"session_id": "a1b2", "event": "move", "data": {"result": "continue", ...}}
//
// The Hub runs a single event loop that owns the client registry.
// Broadcasts are queued and never block the caller; a client that falls
// behind is disconnected. Messages from clients are read and discarded.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(sessionID, &state)
package websocket
