package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stuckState has a red two on every tableau pile and nothing else, so only
// a black ace or any ace can be played.
func stuckState() State {
	s := NewEmptyState()
	for _, name := range TableauNames {
		*s.pile(name) = []Card{up(Hearts, 2)}
	}
	return s
}

func TestCheckStatusWon(t *testing.T) {
	s := NewEmptyState()
	for i, suit := range Suits {
		stack := s.pile(FoundationNames[i])
		for v := Ace; v <= King; v++ {
			*stack = append(*stack, up(suit, v))
		}
	}
	assert.Equal(t, ResultWon, CheckStatus(&s, 1))

	// Extra cards elsewhere do not matter once every foundation is full.
	s.Draw = []Card{down(Hearts, 5)}
	s.Discard = []Card{up(Spades, 9)}
	assert.Equal(t, ResultWon, CheckStatus(&s, 1))
	assert.Equal(t, ResultWon, CheckStatus(&s, 3))
}

func TestCheckStatusNotWonWithPartialFoundations(t *testing.T) {
	s := stuckState()
	for v := Ace; v <= King; v++ {
		s.Stack1 = append(s.Stack1, up(Spades, v))
	}
	assert.Equal(t, ResultLost, CheckStatus(&s, 1))
}

func TestCheckStatusTableau(t *testing.T) {
	t.Run("face-up ace on tableau", func(t *testing.T) {
		s := stuckState()
		s.Pile3 = []Card{up(Diamonds, Ace)}
		assert.Equal(t, ResultContinue, CheckStatus(&s, 1))
	})

	t.Run("face-down ace is not counted", func(t *testing.T) {
		s := stuckState()
		s.Pile3 = []Card{down(Diamonds, Ace)}
		assert.Equal(t, ResultLost, CheckStatus(&s, 1))
	})

	t.Run("tableau rearrangements are not counted", func(t *testing.T) {
		s := stuckState()
		s.Pile1 = []Card{up(Spades, 3)}
		s.Pile2 = []Card{up(Hearts, 2)}
		assert.Equal(t, ResultLost, CheckStatus(&s, 1))
	})
}

func TestCheckStatusDrawOne(t *testing.T) {
	t.Run("buried discard card", func(t *testing.T) {
		s := stuckState()
		s.Discard = []Card{up(Hearts, Ace), up(Spades, 9), up(Spades, 9)}
		assert.Equal(t, ResultContinue, CheckStatus(&s, 1))
	})

	t.Run("buried draw card", func(t *testing.T) {
		s := stuckState()
		s.Draw = []Card{down(Spades, 9), down(Clubs, Ace), down(Spades, 9)}
		assert.Equal(t, ResultContinue, CheckStatus(&s, 1))
	})

	t.Run("card fits a tableau pile", func(t *testing.T) {
		s := stuckState()
		s.Pile1 = []Card{up(Diamonds, 10)}
		s.Draw = []Card{down(Spades, 9)}
		assert.Equal(t, ResultContinue, CheckStatus(&s, 1))
	})

	t.Run("nothing playable", func(t *testing.T) {
		s := stuckState()
		s.Draw = []Card{down(Spades, 9), down(Hearts, 5)}
		s.Discard = []Card{up(Diamonds, 7)}
		assert.Equal(t, ResultLost, CheckStatus(&s, 1))
	})
}

func TestCheckStatusDrawThree(t *testing.T) {
	tests := []struct {
		name    string
		discard []Card
		draw    []Card
		want    Result
	}{
		{
			name:    "discard top",
			discard: []Card{up(Spades, 9), up(Spades, 9), up(Hearts, Ace)},
			want:    ResultContinue,
		},
		{
			name:    "discard three below top",
			discard: []Card{up(Hearts, Ace), up(Spades, 9), up(Spades, 9), up(Spades, 9)},
			want:    ResultContinue,
		},
		{
			name:    "discard off a three-card boundary",
			discard: []Card{up(Spades, 9), up(Hearts, Ace), up(Spades, 9), up(Spades, 9)},
			want:    ResultLost,
		},
		{
			name: "third card of the first flip",
			draw: []Card{down(Spades, 9), down(Spades, 9), down(Hearts, Ace), down(Spades, 9), down(Spades, 9)},
			want: ResultContinue,
		},
		{
			name: "last card of a short final flip",
			draw: []Card{down(Hearts, Ace), down(Spades, 9), down(Spades, 9), down(Spades, 9), down(Spades, 9)},
			want: ResultContinue,
		},
		{
			name: "draw card never on top",
			draw: []Card{down(Spades, 9), down(Hearts, Ace), down(Spades, 9), down(Spades, 9), down(Spades, 9)},
			want: ResultLost,
		},
		{
			name: "single draw card",
			draw: []Card{down(Clubs, Ace)},
			want: ResultContinue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stuckState()
			s.Discard = append([]Card{}, tt.discard...)
			s.Draw = append([]Card{}, tt.draw...)
			assert.Equal(t, tt.want, CheckStatus(&s, 3))
		})
	}
}

func TestCheckStatusDrawOneSeesEverything(t *testing.T) {
	s := stuckState()
	s.Draw = []Card{down(Spades, 9), down(Hearts, Ace), down(Spades, 9), down(Spades, 9), down(Spades, 9)}
	assert.Equal(t, ResultLost, CheckStatus(&s, 3))
	assert.Equal(t, ResultContinue, CheckStatus(&s, 1))
}
