package engine

// CheckStatus reports whether the game is won, lost, or can continue.
//
// Won means every foundation holds 13 cards. Otherwise the game continues
// if any of these can be played:
//   - a face-up tableau top card onto a foundation
//   - with drawCount 1, any discard or draw card onto a foundation or tableau pile
//   - with drawCount 3, every third discard card counting down from the top,
//     or the card that would land on top after each 3-card flip of the draw pile
//
// This is a heuristic, not a solver: Lost only means none of the above apply.
// Rearrangements between tableau piles are not considered.
func CheckStatus(s *State, drawCount int) Result {
	foundations := s.Foundations()
	tableau := s.Tableau()

	won := true
	for _, stack := range foundations {
		if len(stack) != FoundationSize {
			won = false
			break
		}
	}
	if won {
		return ResultWon
	}

	for _, pile := range tableau {
		c, ok := top(pile)
		if !ok || !c.Up {
			continue
		}
		for _, stack := range foundations {
			if CanPlaceOnFoundation(c, stack) {
				return ResultContinue
			}
		}
	}

	playable := func(c Card) bool {
		for _, stack := range foundations {
			if CanPlaceOnFoundation(c, stack) {
				return true
			}
		}
		for _, pile := range tableau {
			if CanPlaceOnTableau(c, pile) {
				return true
			}
		}
		return false
	}

	switch drawCount {
	case 1:
		for _, c := range s.Discard {
			if playable(c) {
				return ResultContinue
			}
		}
		for _, c := range s.Draw {
			if playable(c) {
				return ResultContinue
			}
		}

	case 3:
		for i := len(s.Discard) - 1; i >= 0; i -= 3 {
			if playable(s.Discard[i]) {
				return ResultContinue
			}
		}
		remaining := s.Draw
		for len(remaining) > 0 {
			start := max(0, len(remaining)-3)
			if playable(remaining[start]) {
				return ResultContinue
			}
			remaining = remaining[:start]
		}
	}

	return ResultLost
}
