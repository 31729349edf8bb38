// Package mcp exposes the Klondike REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one HTTP request
// against a running API server and the JSON reply is rendered as text an
// agent can read. Cards print as rank plus suit letter (AS, 10H, QD) and
// face-down cards print as ##.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, move, undo, redo, hint, quit
//   - move_history, list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
