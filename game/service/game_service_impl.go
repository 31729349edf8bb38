package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/klondike/game/engine"
)

// ErrInvalidColor is returned when a session is created with an unknown card color
var ErrInvalidColor = errors.New("unknown card color")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	log      logrus.FieldLogger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return NewGameServiceWithLogger(sessions, configs, logrus.StandardLogger())
}

// NewGameServiceWithLogger creates a game service that logs to log
func NewGameServiceWithLogger(sessions SessionManager, configs ConfigManager, log logrus.FieldLogger) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      log,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// getSession looks up a session and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// persist saves a session after a change. Failures are logged, not returned:
// the in-memory game has already moved on.
func (s *gameServiceImpl) persist(sess *Session) {
	if err := s.sessions.Save(sess.ID); err != nil {
		s.log.WithError(err).WithField("session", sess.ID).Warn("failed to persist session")
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if opts.ConfigID != "" {
		config, err = s.configs.LoadConfig(opts.ConfigID)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, opts.ConfigID, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, opts.ConfigID)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", opts.ConfigID, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Apply per-session overrides to a copy of the preset
	effective := *config
	switch {
	case opts.DrawCount != 0:
		effective.DrawCount = opts.DrawCount
	case opts.Draw != "":
		effective.DrawCount = engine.ParseDrawOption(opts.Draw)
	}
	if !engine.ValidDrawCount(effective.DrawCount) {
		return nil, fmt.Errorf("%w: got %d", engine.ErrInvalidDrawCount, effective.DrawCount)
	}
	if opts.Color != "" {
		if !engine.ValidColor(opts.Color) {
			return nil, fmt.Errorf("%w: '%s'. Available colors: %v", ErrInvalidColor, opts.Color, engine.CardColors)
		}
		effective.Color = strings.ToLower(opts.Color)
	}

	// Let session manager generate the ID
	session, err := s.sessions.Create("", &effective)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := opts.ConfigID
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.log.WithFields(logrus.Fields{
		"session": session.ID,
		"config":  configID,
		"draw":    effective.DrawCount,
	}).Info("session created")

	session.Lock()
	defer session.Unlock()
	return newSessionInfo(session, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	configID := s.getConfigID(sess.Config.Name)
	sess.Lock()
	defer sess.Unlock()
	return newSessionInfo(sess, configID), nil
}

// ListSessions returns all sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		configID := s.getConfigID(sess.Config.Name)
		sess.Lock()
		info := newSessionInfo(sess, configID)
		sess.Unlock()
		info.GameConfig = nil
		result = append(result, info)
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.log.WithField("session", sessionID).Info("session deleted")
	return nil
}

// Move applies a single move to a session. Engine errors are returned
// unwrapped so callers can match them with errors.Is.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, move engine.Move) (*MoveResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	before := sess.Engine.GetState()
	prevStatus := sess.Engine.Status()

	result, err := sess.Engine.Move(move)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"session": sessionID,
			"src":     move.Src,
			"dst":     move.Dst,
		}).WithError(err).Debug("move rejected")
		return nil, err
	}

	state := sess.Engine.GetState()
	events := moveEvents(sess, move, &before, prevStatus)
	s.persist(sess)

	s.log.WithFields(logrus.Fields{
		"session": sessionID,
		"src":     move.Src,
		"dst":     move.Dst,
		"result":  result,
		"moves":   sess.Engine.Moves(),
	}).Debug("move applied")

	moveResult := &MoveResult{
		State:          &state,
		Result:         result,
		Move:           move,
		Moves:          sess.Engine.Moves(),
		CardsRemaining: sess.Engine.CardsRemaining(),
		Status:         sess.Engine.Status(),
		Events:         events,
	}
	if n := len(events); n > 0 {
		moveResult.Message = events[n-1].Message
	}
	return moveResult, nil
}

// Undo reverts the most recent move of a session
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*engine.State, error) {
	return s.navigate(sessionID, "undo", func(e *engine.GameEngine) (engine.State, error) {
		return e.Undo()
	})
}

// Redo reapplies the most recently undone move of a session
func (s *gameServiceImpl) Redo(ctx context.Context, sessionID string) (*engine.State, error) {
	return s.navigate(sessionID, "redo", func(e *engine.GameEngine) (engine.State, error) {
		return e.Redo()
	})
}

func (s *gameServiceImpl) navigate(sessionID, op string, step func(*engine.GameEngine) (engine.State, error)) (*engine.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	state, err := step(sess.Engine)
	if err != nil {
		return nil, err
	}
	s.persist(sess)

	s.log.WithFields(logrus.Fields{"session": sessionID, "op": op}).Debug("history navigated")
	return &state, nil
}

// Quit marks a session inactive
func (s *gameServiceImpl) Quit(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	configID := s.getConfigID(sess.Config.Name)

	sess.Lock()
	defer sess.Unlock()

	sess.Engine.Quit()
	s.persist(sess)
	s.log.WithField("session", sessionID).Info("session quit")

	return newSessionInfo(sess, configID), nil
}

// Hint lists the legal moves from the current state
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) ([]engine.Move, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if !sess.Engine.IsActive() {
		return nil, engine.ErrGameInactive
	}
	moves := engine.LegalMoves(sess.Engine.GetState(), sess.Engine.DrawCount())
	if moves == nil {
		moves = []engine.Move{}
	}
	return moves, nil
}

// GetGameState returns the current state of a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	state := sess.Engine.GetState()
	return &state, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := sess.Engine.GetMoveLog()
	sess.Unlock()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveLogEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveLogEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available rule presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific rule preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a rule preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// newSessionInfo builds the API view of a session. The caller holds the session lock.
func newSessionInfo(sess *Session, configID string) *SessionInfo {
	state := sess.Engine.GetState()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		DrawCount:      sess.Engine.DrawCount(),
		Color:          sess.Config.Color,
		Moves:          sess.Engine.Moves(),
		CardsRemaining: sess.Engine.CardsRemaining(),
		Status:         sess.Engine.Status(),
		Active:         sess.Engine.IsActive(),
		CanUndo:        sess.Engine.CanUndo(),
		CanRedo:        sess.Engine.CanRedo(),
		State:          &state,
		GameConfig:     sess.Config,
	}
}

// moveEvents describes an accepted move. before is the state prior to the move.
func moveEvents(sess *Session, move engine.Move, before *engine.State, prevStatus engine.GameStatus) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	if move.Src == engine.Draw && move.Dst == engine.Discard && len(before.Draw) == 0 {
		events = append(events, GameEvent{
			Type:      "refill",
			Message:   fmt.Sprintf("Turned %d cards from discard back into draw", len(before.Discard)),
			Timestamp: now,
		})
	} else {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s to %s", move.Src, move.Dst),
			Timestamp: now,
		})
	}

	if strings.HasPrefix(move.Dst, "stack") {
		if stack, ok := before.Pile(move.Dst); ok {
			after := sess.Engine.GetState()
			if pile, _ := after.Pile(move.Dst); len(pile) > len(stack) {
				events = append(events, GameEvent{
					Type:      "foundation",
					Message:   fmt.Sprintf("%s placed on %s", pile[len(pile)-1], move.Dst),
					Timestamp: now,
				})
			}
		}
	}

	status := sess.Engine.Status()
	if status == prevStatus {
		return events
	}
	switch status {
	case engine.StatusWon:
		msg := sess.Config.Messages.Victory
		if msg == "" {
			msg = "All four foundations complete. You win!"
		}
		events = append(events, GameEvent{Type: "won", Message: msg, Timestamp: now})
	case engine.StatusLost:
		msg := sess.Config.Messages.Lost
		if msg == "" {
			msg = "No productive moves remain."
		}
		events = append(events, GameEvent{Type: "lost", Message: msg, Timestamp: now})
	}
	return events
}
