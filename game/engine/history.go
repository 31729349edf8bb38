package engine

// History holds undo and redo stacks of full state snapshots.
// Every state that enters or leaves a stack is deep-copied, so a snapshot
// never shares cards with the live state.
type History struct {
	undo []State
	redo []State
}

// NewHistory restores a history from saved stacks, bottom first
func NewHistory(undo, redo []State) *History {
	h := &History{}
	for _, s := range undo {
		h.undo = append(h.undo, s.Clone())
	}
	for _, s := range redo {
		h.redo = append(h.redo, s.Clone())
	}
	return h
}

// Record pushes the pre-move state onto the undo stack and clears the redo stack.
// Call it once per accepted move.
func (h *History) Record(before State) {
	h.undo = append(h.undo, before.Clone())
	h.redo = nil
}

// Undo moves live onto the redo stack and returns the most recent undo snapshot
func (h *History) Undo(live State) (State, error) {
	if len(h.undo) == 0 {
		return State{}, ErrNothingToUndo
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, live.Clone())
	return prev.Clone(), nil
}

// Redo moves live onto the undo stack and returns the most recent redo snapshot
func (h *History) Redo(live State) (State, error) {
	if len(h.redo) == 0 {
		return State{}, ErrNothingToRedo
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, live.Clone())
	return next.Clone(), nil
}

// CanUndo reports whether an earlier snapshot is available
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether an undone snapshot is available
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of snapshots on the undo stack
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of snapshots on the redo stack
func (h *History) RedoDepth() int { return len(h.redo) }

// Stacks returns deep copies of both stacks, bottom first
func (h *History) Stacks() (undo, redo []State) {
	undo = make([]State, 0, len(h.undo))
	for _, s := range h.undo {
		undo = append(undo, s.Clone())
	}
	redo = make([]State, 0, len(h.redo))
	for _, s := range h.redo {
		redo = append(redo, s.Clone())
	}
	return undo, redo
}
