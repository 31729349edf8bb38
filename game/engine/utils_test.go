package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalMovesOnFreshDeal(t *testing.T) {
	s := Deal()
	moves := LegalMoves(s, 1)
	assert.Contains(t, moves, Move{Src: Draw, Dst: Discard})
	for _, m := range moves {
		assert.False(t, IsFallbackMove(m), "%v", m)

		trial := s.Clone()
		_, err := ApplyMove(&trial, m, 1)
		assert.NoError(t, err, "%v", m)
	}
}

func TestLegalMovesDoesNotModifyState(t *testing.T) {
	s := aceOverFiveLayout()
	before := s.Clone()
	_ = LegalMoves(s, 3)
	assert.Equal(t, before, s)
}

func TestFoundationMoves(t *testing.T) {
	s := aceOverFiveLayout()
	moves := FoundationMoves(s, 1)
	require.Len(t, moves, 4)
	for i, m := range moves {
		assert.Equal(t, Pile1, m.Src)
		assert.Equal(t, FoundationNames[i], m.Dst)
	}
}

func TestCountFaceDown(t *testing.T) {
	assert.Equal(t, 21, CountFaceDown(Deal()))
	assert.Equal(t, 1, CountFaceDown(aceOverFiveLayout()))
}

func TestFoundationProgress(t *testing.T) {
	s := NewEmptyState()
	s.Stack2 = []Card{up(Clubs, Ace), up(Clubs, 2)}
	assert.Equal(t, [4]int{0, 2, 0, 0}, FoundationProgress(s))
}
