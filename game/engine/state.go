package engine

import (
	"encoding/json"
	"fmt"
)

// State is the layout of a game: seven tableau piles, four foundation
// stacks, the draw pile and the discard pile. Cards are ordered bottom to top.
type State struct {
	Pile1   []Card `json:"pile1"`
	Pile2   []Card `json:"pile2"`
	Pile3   []Card `json:"pile3"`
	Pile4   []Card `json:"pile4"`
	Pile5   []Card `json:"pile5"`
	Pile6   []Card `json:"pile6"`
	Pile7   []Card `json:"pile7"`
	Stack1  []Card `json:"stack1"`
	Stack2  []Card `json:"stack2"`
	Stack3  []Card `json:"stack3"`
	Stack4  []Card `json:"stack4"`
	Draw    []Card `json:"draw"`
	Discard []Card `json:"discard"`
}

// NewEmptyState returns a state with all 13 piles empty
func NewEmptyState() State {
	var s State
	s.normalize()
	return s
}

// pile returns a pointer to the named pile, or nil for an unknown name
func (s *State) pile(name string) *[]Card {
	switch name {
	case Pile1:
		return &s.Pile1
	case Pile2:
		return &s.Pile2
	case Pile3:
		return &s.Pile3
	case Pile4:
		return &s.Pile4
	case Pile5:
		return &s.Pile5
	case Pile6:
		return &s.Pile6
	case Pile7:
		return &s.Pile7
	case Stack1:
		return &s.Stack1
	case Stack2:
		return &s.Stack2
	case Stack3:
		return &s.Stack3
	case Stack4:
		return &s.Stack4
	case Draw:
		return &s.Draw
	case Discard:
		return &s.Discard
	}
	return nil
}

// Pile returns a copy of the named pile
func (s *State) Pile(name string) ([]Card, bool) {
	p := s.pile(name)
	if p == nil {
		return nil, false
	}
	return cloneCards(*p), true
}

// Tableau returns the seven tableau piles in order
func (s *State) Tableau() [][]Card {
	out := make([][]Card, 0, TableauPiles)
	for _, name := range TableauNames {
		out = append(out, *s.pile(name))
	}
	return out
}

// Foundations returns the four foundation stacks in order
func (s *State) Foundations() [][]Card {
	out := make([][]Card, 0, len(FoundationNames))
	for _, name := range FoundationNames {
		out = append(out, *s.pile(name))
	}
	return out
}

// Clone returns a deep copy. No pile of the copy shares memory with s.
func (s State) Clone() State {
	var c State
	for _, name := range PileNames {
		*c.pile(name) = cloneCards(*s.pile(name))
	}
	return c
}

// CardCount returns the total number of cards across all piles
func (s *State) CardCount() int {
	n := 0
	for _, name := range PileNames {
		n += len(*s.pile(name))
	}
	return n
}

// FoundationCount returns the number of cards on the foundation stacks
func (s *State) FoundationCount() int {
	n := 0
	for _, name := range FoundationNames {
		n += len(*s.pile(name))
	}
	return n
}

// CardsRemaining returns how many cards have not reached a foundation
func (s *State) CardsRemaining() int {
	return DeckSize - s.FoundationCount()
}

// Validate checks that the state holds exactly 52 unique, well-formed cards
func (s *State) Validate() error {
	type identity struct {
		suit  Suit
		value Value
	}
	seen := make(map[identity]string, DeckSize)

	for _, name := range PileNames {
		for _, c := range *s.pile(name) {
			if !validSuit(c.Suit) || !c.Value.Valid() {
				return fmt.Errorf("%w: malformed card %q/%d in %s", ErrInvalidState, c.Suit, int(c.Value), name)
			}
			id := identity{c.Suit, c.Value}
			if where, dup := seen[id]; dup {
				return fmt.Errorf("%w: duplicate %s in %s and %s", ErrInvalidState, c, where, name)
			}
			seen[id] = name
		}
	}

	if len(seen) != DeckSize {
		return fmt.Errorf("%w: expected %d cards, found %d", ErrInvalidState, DeckSize, len(seen))
	}
	return nil
}

// normalize replaces nil piles with empty ones so JSON never carries null
func (s *State) normalize() {
	for _, name := range PileNames {
		p := s.pile(name)
		if *p == nil {
			*p = []Card{}
		}
	}
}

type stateJSON State

// MarshalJSON writes every pile as an array, empty piles included
func (s State) MarshalJSON() ([]byte, error) {
	c := s.Clone()
	return json.Marshal(stateJSON(c))
}

// UnmarshalJSON reads a per-pile object; missing piles decode as empty
func (s *State) UnmarshalJSON(data []byte) error {
	var raw stateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = State(raw)
	s.normalize()
	return nil
}

func cloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

func top(cards []Card) (Card, bool) {
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[len(cards)-1], true
}
