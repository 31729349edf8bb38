// Package api provides the HTTP REST API for the Klondike server.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions              create a game {config_id?, draw?, draw_count?, color?}
//   - GET    /api/sessions              list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified      several boards at once (?sessionIds=a,b or ?configName=draw3)
//   - GET    /api/sessions/{id}         session info with state, moves, cards_remaining and status
//   - DELETE /api/sessions/{id}         delete a session
//
// Play:
//   - GET  /api/sessions/{id}/state     per-pile layout
//   - PUT  /api/sessions/{id}/move      {src, dst}
//   - POST /api/sessions/{id}/undo      step back one move
//   - POST /api/sessions/{id}/redo      step forward one move
//   - PUT  /api/sessions/{id}/quit      end the game
//   - GET  /api/sessions/{id}/hint      legal moves from the current layout
//   - GET  /api/sessions/{id}/history   paginated move log with post-move layouts (?page&limit&order)
//
// Presets and deck:
//   - GET  /api/configs, POST /api/configs, GET /api/configs/{name}
//   - GET  /api/cards/shuffle (?jokers=true), GET /api/cards/initial
//
// Unknown sessions and presets answer 404. Rejected moves, empty undo or
// redo history, a quit game and bad create options answer 400. Every error
// body is {"error": "..."}.
//
// Accepted changes are pushed to WebSocket clients at /ws?session=<id>.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
