package engine

// LegalMoves lists the moves the rule engine would accept from state,
// skipping no-op fallback moves. Moves are ordered by source then
// destination in PileNames order.
func LegalMoves(state State, drawCount int) []Move {
	var moves []Move
	for _, src := range PileNames {
		for _, dst := range PileNames {
			if src == dst {
				continue
			}
			move := Move{Src: src, Dst: dst}
			if IsFallbackMove(move) {
				continue
			}
			trial := state.Clone()
			if err := applyMove(&trial, move, drawCount); err == nil {
				moves = append(moves, move)
			}
		}
	}
	return moves
}

// FoundationMoves returns the subset of LegalMoves that build a foundation
func FoundationMoves(state State, drawCount int) []Move {
	var moves []Move
	for _, m := range LegalMoves(state, drawCount) {
		if kindOf(m.Dst) == kindFoundation {
			moves = append(moves, m)
		}
	}
	return moves
}

// CountFaceDown counts the face-down cards left on the tableau
func CountFaceDown(state State) int {
	count := 0
	for _, pile := range state.Tableau() {
		for _, c := range pile {
			if !c.Up {
				count++
			}
		}
	}
	return count
}

// FoundationProgress returns the number of cards on each foundation, stack1 first
func FoundationProgress(state State) [4]int {
	var progress [4]int
	for i, stack := range state.Foundations() {
		progress[i] = len(stack)
	}
	return progress
}
