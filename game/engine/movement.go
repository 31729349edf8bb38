package engine

import (
	"fmt"
	"strings"
)

type pileKind int

const (
	kindUnknown pileKind = iota
	kindTableau
	kindFoundation
	kindDraw
	kindDiscard
)

func kindOf(name string) pileKind {
	switch {
	case name == Draw:
		return kindDraw
	case name == Discard:
		return kindDiscard
	case strings.HasPrefix(name, "pile"):
		return kindTableau
	case strings.HasPrefix(name, "stack"):
		return kindFoundation
	}
	return kindUnknown
}

// moveCategory names the rule that governs a move
type moveCategory int

const (
	categoryInvalid moveCategory = iota
	categoryDraw
	categoryTableauToTableau
	categoryTableauToFoundation
	categoryFoundationToTableau
	categoryDiscard
	categoryFallback
)

func classify(s *State, move Move) moveCategory {
	if s.pile(move.Src) == nil || s.pile(move.Dst) == nil {
		return categoryInvalid
	}

	src, dst := kindOf(move.Src), kindOf(move.Dst)
	switch {
	case move.Src == Draw && move.Dst == Discard:
		return categoryDraw
	case src == kindTableau && dst == kindTableau:
		return categoryTableauToTableau
	case src == kindTableau && dst == kindFoundation:
		return categoryTableauToFoundation
	case src == kindFoundation && dst == kindTableau:
		return categoryFoundationToTableau
	case src == kindDiscard:
		return categoryDiscard
	}
	return categoryFallback
}

// IsFallbackMove reports whether a move between two existing piles matches
// none of the move rules (for example stack1 -> stack2 or pile1 -> draw).
// Such moves are accepted as no-ops; see applyFallback.
func IsFallbackMove(move Move) bool {
	s := NewEmptyState()
	return classify(&s, move) == categoryFallback
}

// CanPlaceOnTableau reports whether c may be placed on a tableau pile:
// a king onto an empty pile, otherwise alternating color and one rank lower.
func CanPlaceOnTableau(c Card, pile []Card) bool {
	t, ok := top(pile)
	if !ok {
		return c.Value == King
	}
	return alternatingColor(c, t) && c.Value == t.Value-1
}

// CanPlaceOnFoundation reports whether c may be placed on a foundation stack:
// an ace onto an empty stack, otherwise same suit and one rank higher.
func CanPlaceOnFoundation(c Card, stack []Card) bool {
	t, ok := top(stack)
	if !ok {
		return c.Value == Ace
	}
	return c.Suit == t.Suit && c.Value == t.Value+1
}

// ApplyMove validates and applies move to state, then evaluates the game status.
// On error state is left untouched.
func ApplyMove(state *State, move Move, drawCount int) (Result, error) {
	next := state.Clone()
	if err := applyMove(&next, move, drawCount); err != nil {
		return "", err
	}
	*state = next
	return CheckStatus(state, drawCount), nil
}

func applyMove(s *State, move Move, drawCount int) error {
	src, dst := s.pile(move.Src), s.pile(move.Dst)

	switch classify(s, move) {
	case categoryInvalid:
		return fmt.Errorf("%w: %s or %s does not exist", ErrInvalidPile, move.Src, move.Dst)

	case categoryDraw:
		return drawCards(s, drawCount)

	case categoryTableauToTableau:
		if err := moveTableauRun(src, dst); err != nil {
			return illegal(move)
		}
		flipTop(src)

	case categoryTableauToFoundation:
		if !moveTopCard(src, dst, CanPlaceOnFoundation) {
			return illegal(move)
		}
		flipTop(src)

	case categoryFoundationToTableau:
		if !moveTopCard(src, dst, CanPlaceOnTableau) {
			return illegal(move)
		}

	case categoryDiscard:
		accepts := CanPlaceOnTableau
		switch kindOf(move.Dst) {
		case kindTableau:
		case kindFoundation:
			accepts = CanPlaceOnFoundation
		default:
			return illegal(move)
		}
		if !moveTopCard(src, dst, accepts) {
			return illegal(move)
		}
		flipTop(src)

	case categoryFallback:
		if !applyFallback(src) {
			return illegal(move)
		}
	}
	return nil
}

// applyFallback handles a move between existing piles that no rule covers.
// Piles are left in place; only the source's top card is turned face up.
// It fails when the source is empty.
func applyFallback(src *[]Card) bool {
	if len(*src) == 0 {
		return false
	}
	flipTop(src)
	return true
}

// drawCards turns over one or up to three cards from draw onto discard, or
// recycles the discard pile into draw when draw is empty.
func drawCards(s *State, drawCount int) error {
	if len(s.Draw) == 0 {
		if len(s.Discard) == 0 {
			return ErrNoCardsToRefill
		}
		refilled := make([]Card, 0, len(s.Discard))
		for i := len(s.Discard) - 1; i >= 0; i-- {
			c := s.Discard[i]
			c.Up = false
			refilled = append(refilled, c)
		}
		s.Draw = refilled
		s.Discard = []Card{}
		return nil
	}

	n := 1
	if drawCount != 1 {
		n = min(3, len(s.Draw))
	}
	for i := 0; i < n; i++ {
		c := s.Draw[len(s.Draw)-1]
		s.Draw = s.Draw[:len(s.Draw)-1]
		c.Up = true
		s.Discard = append(s.Discard, c)
	}
	return nil
}

// moveTableauRun moves the whole face-up run when its leading card fits on
// dst, falling back to the single top card.
func moveTableauRun(src, dst *[]Card) error {
	run := faceUpRun(*src)
	if len(run) == 0 {
		return ErrIllegalMove
	}

	if CanPlaceOnTableau(run[0], *dst) {
		*dst = append(*dst, run...)
		*src = (*src)[:len(*src)-len(run)]
		return nil
	}

	if moveTopCard(src, dst, CanPlaceOnTableau) {
		return nil
	}
	return ErrIllegalMove
}

func moveTopCard(src, dst *[]Card, accepts func(Card, []Card) bool) bool {
	c, ok := top(*src)
	if !ok || !accepts(c, *dst) {
		return false
	}
	*dst = append(*dst, c)
	*src = (*src)[:len(*src)-1]
	return true
}

// faceUpRun returns the trailing face-up cards of a pile, bottom first
func faceUpRun(pile []Card) []Card {
	i := len(pile)
	for i > 0 && pile[i-1].Up {
		i--
	}
	return pile[i:]
}

func flipTop(pile *[]Card) {
	if n := len(*pile); n > 0 {
		(*pile)[n-1].Up = true
	}
}

func illegal(move Move) error {
	return fmt.Errorf("%w from %s to %s", ErrIllegalMove, move.Src, move.Dst)
}
