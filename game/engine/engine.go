package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Engine provides the operations of a single game session
type Engine interface {
	// Game state
	GetState() State
	Status() GameStatus
	DrawCount() int
	Moves() int
	IsActive() bool
	CardsRemaining() int

	// Play
	Move(move Move) (Result, error)
	Undo() (State, error)
	Redo() (State, error)
	CanUndo() bool
	CanRedo() bool
	Quit()

	// History
	GetMoveLog() []MoveLogEntry
	GetLastMove() *MoveLogEntry

	// Persistence
	Save() SavedGame
}

// GameEngine implements Engine. It is not safe for concurrent use; callers
// serialize access per session.
type GameEngine struct {
	state     State
	history   *History
	drawCount int
	moves     int
	status    GameStatus
	active    bool
	moveLog   []MoveLogEntry
	clock     func() time.Time
}

// ValidDrawCount reports whether n is a supported draw count
func ValidDrawCount(n int) bool {
	return n == 1 || n == 3
}

// NewEngine deals a new game with the given draw count
func NewEngine(drawCount int) (*GameEngine, error) {
	return NewEngineWithShuffler(drawCount, defaultShuffler)
}

// NewEngineWithShuffler deals a new game from the given shuffler
func NewEngineWithShuffler(drawCount int, shuffler *Shuffler) (*GameEngine, error) {
	return NewEngineFromState(shuffler.Deal(), drawCount)
}

// NewEngineFromState starts a game from an existing layout
func NewEngineFromState(state State, drawCount int) (*GameEngine, error) {
	if !ValidDrawCount(drawCount) {
		return nil, ErrInvalidDrawCount
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}

	state = state.Clone()
	return &GameEngine{
		state:     state,
		history:   &History{},
		drawCount: drawCount,
		status:    StatusFor(CheckStatus(&state, drawCount)),
		active:    true,
		clock:     time.Now,
	}, nil
}

// RestoreEngine rebuilds a game from a saved document
func RestoreEngine(saved SavedGame) (*GameEngine, error) {
	if !ValidDrawCount(saved.DrawCount) {
		return nil, ErrInvalidDrawCount
	}
	if err := saved.State.Validate(); err != nil {
		return nil, err
	}
	for i, s := range saved.Undo {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("undo snapshot %d: %w", i, err)
		}
	}
	for i, s := range saved.Redo {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("redo snapshot %d: %w", i, err)
		}
	}
	moveLog := make([]MoveLogEntry, len(saved.MoveLog))
	for i, entry := range saved.MoveLog {
		// entries saved before layouts were logged have no state
		if entry.State != nil {
			if err := entry.State.Validate(); err != nil {
				return nil, fmt.Errorf("move %d: %w", entry.MoveNumber, err)
			}
		}
		moveLog[i] = entry.clone()
	}

	status := saved.Status
	if status == "" {
		status = StatusFor(CheckStatus(&saved.State, saved.DrawCount))
	}

	return &GameEngine{
		state:     saved.State.Clone(),
		history:   NewHistory(saved.Undo, saved.Redo),
		drawCount: saved.DrawCount,
		moves:     saved.Moves,
		status:    status,
		active:    saved.Active,
		moveLog:   moveLog,
		clock:     time.Now,
	}, nil
}

// GetState returns a copy of the live state
func (e *GameEngine) GetState() State {
	return e.state.Clone()
}

// Status returns the session status after the last accepted change
func (e *GameEngine) Status() GameStatus {
	return e.status
}

// DrawCount returns the number of cards turned per draw
func (e *GameEngine) DrawCount() int {
	return e.drawCount
}

// Moves returns the number of accepted moves
func (e *GameEngine) Moves() int {
	return e.moves
}

// IsActive reports whether the game still accepts moves
func (e *GameEngine) IsActive() bool {
	return e.active
}

// CardsRemaining returns the number of cards not yet on a foundation
func (e *GameEngine) CardsRemaining() int {
	return e.state.CardsRemaining()
}

// Move applies a move. The pre-move snapshot only enters the undo history
// once the move has been accepted.
func (e *GameEngine) Move(move Move) (Result, error) {
	if !e.active {
		return "", ErrGameInactive
	}

	before := e.state.Clone()
	result, err := ApplyMove(&e.state, move, e.drawCount)
	if err != nil {
		return "", err
	}

	e.history.Record(before)
	e.moves++
	e.status = StatusFor(result)
	after := e.state.Clone()
	e.moveLog = append(e.moveLog, MoveLogEntry{
		ID:         uuid.NewString(),
		Src:        move.Src,
		Dst:        move.Dst,
		Result:     result,
		MoveNumber: e.moves,
		Timestamp:  e.clock(),
		State:      &after,
	})
	return result, nil
}

// Undo restores the state before the most recent move
func (e *GameEngine) Undo() (State, error) {
	if !e.active {
		return State{}, ErrGameInactive
	}
	prev, err := e.history.Undo(e.state)
	if err != nil {
		return State{}, err
	}
	e.restore(prev)
	return e.state.Clone(), nil
}

// Redo reapplies the most recently undone move
func (e *GameEngine) Redo() (State, error) {
	if !e.active {
		return State{}, ErrGameInactive
	}
	next, err := e.history.Redo(e.state)
	if err != nil {
		return State{}, err
	}
	e.restore(next)
	return e.state.Clone(), nil
}

func (e *GameEngine) restore(s State) {
	e.state = s
	e.status = StatusFor(CheckStatus(&e.state, e.drawCount))
}

// CanUndo reports whether there is a move to undo
func (e *GameEngine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether there is a move to redo
func (e *GameEngine) CanRedo() bool {
	return e.history.CanRedo()
}

// Quit marks the game inactive; no further moves, undos or redos are accepted
func (e *GameEngine) Quit() {
	e.active = false
}

// GetMoveLog returns the accepted moves in order, each with the layout it produced
func (e *GameEngine) GetMoveLog() []MoveLogEntry {
	entries := make([]MoveLogEntry, len(e.moveLog))
	for i, entry := range e.moveLog {
		entries[i] = entry.clone()
	}
	return entries
}

// GetLastMove returns the last accepted move, or nil if none
func (e *GameEngine) GetLastMove() *MoveLogEntry {
	if len(e.moveLog) == 0 {
		return nil
	}
	last := e.moveLog[len(e.moveLog)-1].clone()
	return &last
}

// Save returns a document from which RestoreEngine can resume the game
func (e *GameEngine) Save() SavedGame {
	undo, redo := e.history.Stacks()
	return SavedGame{
		State:     e.state.Clone(),
		Undo:      undo,
		Redo:      redo,
		DrawCount: e.drawCount,
		Moves:     e.moves,
		Status:    e.status,
		Active:    e.active,
		MoveLog:   e.GetMoveLog(),
	}
}
