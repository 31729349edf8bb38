// Package service provides the business logic layer for the Klondike server.
//
// The service package implements:
//   - Multi-session game management
//   - Rule preset selection with per-session draw count and color overrides
//   - Move, undo, redo and quit with persistence after every accepted change
//   - Paginated move history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages rule preset loading and validation.
//
// Concurrency:
//
// Each Session carries its own mutex and the service holds it for the whole
// of a move, undo or redo, so a session sees one operation at a time.
// Different sessions proceed in parallel.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateOptions{Draw: "Draw 3"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, engine.Move{Src: "draw", Dst: "discard"})
//	if errors.Is(err, engine.ErrIllegalMove) {
//		// rejected, nothing changed
//	}
package service
