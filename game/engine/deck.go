package engine

import "math/rand/v2"

// Shuffler builds shuffled decks and initial layouts from a random source
type Shuffler struct {
	intN func(n int) int
}

// NewShuffler returns a Shuffler backed by the global random source
func NewShuffler() *Shuffler {
	return &Shuffler{intN: rand.IntN}
}

// NewSeededShuffler returns a deterministic Shuffler, used by tests and replays
func NewSeededShuffler(seed1, seed2 uint64) *Shuffler {
	r := rand.New(rand.NewPCG(seed1, seed2))
	return &Shuffler{intN: r.IntN}
}

var defaultShuffler = NewShuffler()

// OrderedDeck returns the 52 cards in suit-major order, all face down
func OrderedDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for v := Ace; v <= King; v++ {
			cards = append(cards, NewCard(suit, v))
		}
	}
	return cards
}

// Shuffle returns a random permutation of the 52-card deck.
// Jokers are not supported; includeJokers is accepted and ignored.
func (s *Shuffler) Shuffle(includeJokers bool) []Card {
	cards := OrderedDeck()

	// Pick a uniformly random remaining card and move it to the output until none remain.
	deck := make([]Card, 0, len(cards))
	for len(cards) > 0 {
		i := s.intN(len(cards))
		deck = append(deck, cards[i])
		cards = append(cards[:i], cards[i+1:]...)
	}
	return deck
}

// Deal shuffles a fresh deck and lays it out for a new game
func (s *Shuffler) Deal() State {
	return DealFrom(s.Shuffle(false))
}

// DealFrom lays out the given 52-card deck. Pile i receives one face-up card and
// piles i+1..7 one face-down card each, for i = 1..7. The remainder
// becomes the face-down draw pile.
func DealFrom(deck []Card) State {
	state := NewEmptyState()
	next := 0
	take := func(up bool) Card {
		c := deck[next]
		next++
		c.Up = up
		return c
	}

	for i := 0; i < TableauPiles; i++ {
		pile := state.pile(TableauNames[i])
		*pile = append(*pile, take(true))
		for j := i + 1; j < TableauPiles; j++ {
			other := state.pile(TableauNames[j])
			*other = append(*other, take(false))
		}
	}

	for next < len(deck) {
		state.Draw = append(state.Draw, take(false))
	}
	return state
}

// Shuffle returns a shuffled deck using the default random source
func Shuffle(includeJokers bool) []Card {
	return defaultShuffler.Shuffle(includeJokers)
}

// Deal returns a freshly shuffled initial layout
func Deal() State {
	return defaultShuffler.Deal()
}
