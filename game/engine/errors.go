package engine

import "errors"

var (
	ErrInvalidPile      = errors.New("invalid pile")
	ErrIllegalMove      = errors.New("illegal move")
	ErrNoCardsToRefill  = errors.New("no cards left in draw or discard pile to refill")
	ErrNothingToUndo    = errors.New("no moves to undo")
	ErrNothingToRedo    = errors.New("no moves to redo")
	ErrInvalidDrawCount = errors.New("draw count must be 1 or 3")
	ErrGameInactive     = errors.New("game is no longer active")
	ErrInvalidState     = errors.New("invalid game state")
)
