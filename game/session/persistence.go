package session

import (
	"fmt"
	"time"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// SessionPersistence defines the interface for persisting sessions.
// Save reads the session's engine; callers hold the session lock.
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the stored form of a session. It carries
// everything needed to resume play, undo and redo stacks included.
type PersistedSessionData struct {
	ID             string                `json:"id"`
	ConfigName     string                `json:"config_name"`
	DrawCount      int                   `json:"draw_count"`
	Color          string                `json:"color,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	State          engine.State          `json:"state"`
	Undo           []engine.State        `json:"undo"`
	Redo           []engine.State        `json:"redo"`
	Moves          int                   `json:"moves"`
	Status         engine.GameStatus     `json:"status"`
	Active         bool                  `json:"active"`
	MoveLog        []engine.MoveLogEntry `json:"move_log"`
}

// configIDFor returns the config ID (filename without extension) for a display name
func configIDFor(configs service.ConfigManager, displayName string) (string, error) {
	list, err := configs.ListConfigs()
	if err != nil {
		return "", fmt.Errorf("failed to list configs: %w", err)
	}

	for _, config := range list {
		if config.Name == displayName {
			return config.ConfigID, nil
		}
	}

	// If not found, assume the displayName is already the config ID
	return displayName, nil
}

// encodeSession builds the stored document for a session
func encodeSession(session *service.Session, configs service.ConfigManager) (*PersistedSessionData, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	configID, err := configIDFor(configs, session.Config.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get config ID: %w", err)
	}

	saved := session.Engine.Save()
	return &PersistedSessionData{
		ID:             session.ID,
		ConfigName:     configID, // Store config ID, not display name
		DrawCount:      saved.DrawCount,
		Color:          session.Config.Color,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          saved.State,
		Undo:           saved.Undo,
		Redo:           saved.Redo,
		Moves:          saved.Moves,
		Status:         saved.Status,
		Active:         saved.Active,
		MoveLog:        saved.MoveLog,
	}, nil
}

// decodeSession rebuilds a session from its stored document. The stored
// state and every history snapshot are validated before play resumes.
func decodeSession(data *PersistedSessionData, configs service.ConfigManager) (*service.Session, error) {
	preset, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	config := *preset
	config.DrawCount = data.DrawCount
	if data.Color != "" {
		config.Color = data.Color
	}

	gameEngine, err := engine.RestoreEngine(engine.SavedGame{
		State:     data.State,
		Undo:      data.Undo,
		Redo:      data.Redo,
		DrawCount: data.DrawCount,
		Moves:     data.Moves,
		Status:    data.Status,
		Active:    data.Active,
		MoveLog:   data.MoveLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", data.ID, err)
	}

	return &service.Session{
		ID:             data.ID,
		Engine:         gameEngine,
		Config:         &config,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
