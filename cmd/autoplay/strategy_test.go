package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/klondike/game/engine"
)

// orderedDeal deals the suit-ordered deck with the ace and two of hearts
// swapped, so the ace of spades sits alone on pile1 and the ace of hearts
// lies face up on pile7 over six face-down cards.
func orderedDeal() engine.State {
	deck := engine.OrderedDeck()
	deck[26], deck[27] = deck[27], deck[26]
	return engine.DealFrom(deck)
}

func TestOrderedDealLayout(t *testing.T) {
	state := orderedDeal()

	require.Len(t, state.Pile1, 1)
	assert.Equal(t, engine.Spades, state.Pile1[0].Suit)
	assert.Equal(t, engine.Ace, state.Pile1[0].Value)

	require.Len(t, state.Pile7, 7)
	top := state.Pile7[6]
	assert.True(t, top.Up)
	assert.Equal(t, engine.Hearts, top.Suit)
	assert.Equal(t, engine.Ace, top.Value)
	for _, c := range state.Pile7[:6] {
		assert.False(t, c.Up)
	}
}

func TestGreedyStrategyScore(t *testing.T) {
	state := orderedDeal()
	s := NewGreedyStrategy(1)

	tests := []struct {
		name string
		move engine.Move
		want int
	}{
		{"ace to foundation", engine.Move{Src: engine.Pile1, Dst: engine.Stack1}, weightFoundation},
		{"ace to foundation revealing a card", engine.Move{Src: engine.Pile7, Dst: engine.Stack1}, weightFoundation + weightReveal},
		{"draw", engine.Move{Src: engine.Draw, Dst: engine.Discard}, weightDraw},
		{"illegal", engine.Move{Src: engine.Discard, Dst: engine.Pile1}, 0},
		{"fallback", engine.Move{Src: engine.Stack1, Dst: engine.Stack2}, 0},
		{"off a foundation", engine.Move{Src: engine.Stack1, Dst: engine.Pile1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(state, tt.move))
		})
	}
}

func TestGreedyStrategyPrefersRevealingFoundationMove(t *testing.T) {
	state := orderedDeal()
	s := NewGreedyStrategy(1)

	move, ok := s.NextMove(state, []engine.Move{
		{Src: engine.Draw, Dst: engine.Discard},
		{Src: engine.Pile1, Dst: engine.Stack1},
		{Src: engine.Pile7, Dst: engine.Stack2},
	})

	assert.True(t, ok)
	assert.Equal(t, engine.Move{Src: engine.Pile7, Dst: engine.Stack2}, move)
}

func TestGreedyStrategyNothingWorthPlaying(t *testing.T) {
	state := orderedDeal()
	s := NewGreedyStrategy(1)

	_, ok := s.NextMove(state, []engine.Move{{Src: engine.Stack1, Dst: engine.Pile1}})
	assert.False(t, ok)

	_, ok = s.NextMove(state, nil)
	assert.False(t, ok)
}

func TestGreedyStrategyObserve(t *testing.T) {
	state := orderedDeal()
	s := NewGreedyStrategy(3)

	assert.True(t, s.Observe(state))
	assert.False(t, s.Observe(state))

	_, err := engine.ApplyMove(&state, engine.Move{Src: engine.Draw, Dst: engine.Discard}, 3)
	assert.NoError(t, err)
	assert.True(t, s.Observe(state))

	s.Reset()
	assert.True(t, s.Observe(state))
}
