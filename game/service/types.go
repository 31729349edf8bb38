package service

import (
	"time"

	"github.com/wricardo/klondike/game/engine"
)

// CreateOptions selects the preset and overrides for a new session.
// Draw accepts the client forms "Draw 1" and "Draw 3"; DrawCount, when set,
// takes precedence.
type CreateOptions struct {
	ConfigID  string `json:"config_id,omitempty"`
	Draw      string `json:"draw,omitempty"`
	DrawCount int    `json:"draw_count,omitempty"`
	Color     string `json:"color,omitempty"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	DrawCount      int                `json:"draw_count"`
	Color          string             `json:"color,omitempty"`
	Moves          int                `json:"moves"`
	CardsRemaining int                `json:"cards_remaining"`
	Status         engine.GameStatus  `json:"status"`
	Active         bool               `json:"active"`
	CanUndo        bool               `json:"can_undo"`
	CanRedo        bool               `json:"can_redo"`
	State          *engine.State      `json:"state"`
	GameConfig     *engine.GameConfig `json:"game_config,omitempty"`
}

// MoveResult contains the result of an accepted move
type MoveResult struct {
	State          *engine.State     `json:"state"`
	Result         engine.Result     `json:"result"`
	Move           engine.Move       `json:"move"`
	Moves          int               `json:"moves"`
	CardsRemaining int               `json:"cards_remaining"`
	Status         engine.GameStatus `json:"status"`
	Message        string            `json:"message,omitempty"`
	Events         []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents something notable that happened during a move
type GameEvent struct {
	Type      string    `json:"type"` // "move", "refill", "foundation", "won", "lost"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveLogEntry `json:"moves"`
	TotalMoves  int                   `json:"total_moves"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
	TotalPages  int                   `json:"total_pages"`
	HasNext     bool                  `json:"has_next"`
	HasPrevious bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a rule preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	DrawCount   int    `json:"draw_count"`
	Color       string `json:"color,omitempty"`
}
