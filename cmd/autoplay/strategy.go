package main

import (
	"encoding/json"

	"github.com/wricardo/klondike/game/engine"
)

// Move weights. Anything scoring zero or less is never played.
const (
	weightFoundation = 100
	weightReveal     = 60
	weightDiscard    = 30
	weightDraw       = 5
)

// GreedyStrategy picks the highest scoring legal move, previewing each
// candidate on a local copy of the layout. It gives up once a layout
// repeats, which happens after a full pass through the stock with nothing
// else to play.
type GreedyStrategy struct {
	drawCount int
	seen      map[string]bool
}

// NewGreedyStrategy returns a strategy that previews moves with the given draw count
func NewGreedyStrategy(drawCount int) *GreedyStrategy {
	s := &GreedyStrategy{drawCount: drawCount}
	s.Reset()
	return s
}

// Reset forgets the layouts seen during the previous attempt
func (s *GreedyStrategy) Reset() {
	s.seen = make(map[string]bool)
}

// Observe records a layout. It reports false if the layout was already seen.
func (s *GreedyStrategy) Observe(state engine.State) bool {
	key := fingerprint(state)
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

// NextMove returns the best candidate, or false when none is worth playing
func (s *GreedyStrategy) NextMove(state engine.State, candidates []engine.Move) (engine.Move, bool) {
	var best engine.Move
	bestScore := 0
	for _, m := range candidates {
		if score := s.Score(state, m); score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, bestScore > 0
}

// Score rates a move by the progress it makes. Illegal moves, moves off a
// foundation and tableau shuffles that expose nothing score zero.
func (s *GreedyStrategy) Score(state engine.State, m engine.Move) int {
	if engine.IsFallbackMove(m) || isFoundation(m.Src) {
		return 0
	}

	after := state.Clone()
	if _, err := engine.ApplyMove(&after, m, s.drawCount); err != nil {
		return 0
	}

	score := (after.FoundationCount() - state.FoundationCount()) * weightFoundation
	score += (engine.CountFaceDown(state) - engine.CountFaceDown(after)) * weightReveal

	switch {
	case m.Src == engine.Draw:
		score += weightDraw
	case m.Src == engine.Discard && !isFoundation(m.Dst):
		score += weightDiscard
	}
	return score
}

func isFoundation(pile string) bool {
	for _, name := range engine.FoundationNames {
		if pile == name {
			return true
		}
	}
	return false
}

func fingerprint(state engine.State) string {
	data, _ := json.Marshal(state)
	return string(data)
}
