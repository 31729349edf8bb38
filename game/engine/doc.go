// Package engine implements the rules of Klondike solitaire.
//
// The package is pure: no I/O, no goroutines, no locks. It provides:
//   - Card, Suit and Value, plus shuffling and the initial triangular deal
//   - State, the 13 named piles (pile1..pile7, stack1..stack4, draw, discard)
//   - ApplyMove and CheckStatus, the rule engine
//   - History, undo and redo stacks of full state snapshots
//   - GameEngine, which coordinates one game: moves, undo, redo, quit
//
// Usage:
//
//	game, err := engine.NewEngine(3)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := game.Move(engine.Move{Src: engine.Draw, Dst: engine.Discard})
//	if errors.Is(err, engine.ErrIllegalMove) {
//		// state is unchanged
//	}
//
//	state, err := game.Undo()
//
// Move semantics:
//
// A move from draw to discard turns one card (draw one) or up to three
// cards (draw three), or recycles discard back into draw when draw is
// empty. Tableau moves carry the whole face-up run when its leading card
// fits, otherwise only the top card. Foundations build up by suit from
// the ace. After a card leaves a tableau pile or the discard pile, the new
// top card of that pile is turned face up.
//
// CheckStatus is a heuristic: it reports lost when no foundation play and
// no playable waste or stock card is visible, even if tableau
// rearrangements might still lead somewhere.
package engine
