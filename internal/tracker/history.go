package tracker

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one undoable step. Before and After are the document as it
// was on either side of Action. Entries without documents are moved between
// the stacks on undo/redo but restore nothing.
type HistoryEntry struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Kind      ActionType `json:"type"`
	Action    Action     `json:"-"`
	Timestamp time.Time  `json:"timestamp"`
	Before    *Document  `json:"-"`
	After     *Document  `json:"-"`
}

// NewHistoryEntry records action with the documents around it.
func NewHistoryEntry(label string, action Action, before, after *Document) HistoryEntry {
	entry := HistoryEntry{
		ID:        uuid.New().String(),
		Label:     label,
		Action:    action,
		Timestamp: time.Now(),
		Before:    before,
		After:     after,
	}
	if action != nil {
		entry.Kind = action.Type()
	}
	return entry
}

// pushBounded appends entry to a copy of stack, keeping at most limit entries.
func pushBounded(stack []HistoryEntry, entry HistoryEntry, limit int) []HistoryEntry {
	next := make([]HistoryEntry, 0, len(stack)+1)
	next = append(next, stack...)
	next = append(next, entry)
	if limit > 0 && len(next) > limit {
		next = next[len(next)-limit:]
	}
	return next
}

// pop returns the top entry and a copy of the remaining stack.
func pop(stack []HistoryEntry) (HistoryEntry, []HistoryEntry) {
	top := stack[len(stack)-1]
	rest := make([]HistoryEntry, len(stack)-1)
	copy(rest, stack[:len(stack)-1])
	return top, rest
}

func (r *Reducer) addToUndoStack(s State, entry HistoryEntry) State {
	s.UndoStack = pushBounded(s.UndoStack, entry, MaxUndo)
	s.RedoStack = []HistoryEntry{}
	return s
}

func (r *Reducer) undo(s State) State {
	if len(s.UndoStack) == 0 {
		return s
	}
	entry, rest := pop(s.UndoStack)
	s.UndoStack = rest
	s.RedoStack = pushBounded(s.RedoStack, entry, 0)
	if entry.Before != nil {
		s = entry.Before.applyTo(s)
	}
	return s
}

func (r *Reducer) redo(s State) State {
	if len(s.RedoStack) == 0 {
		return s
	}
	entry, rest := pop(s.RedoStack)
	s.RedoStack = rest
	s.UndoStack = pushBounded(s.UndoStack, entry, MaxUndo)
	if entry.After != nil {
		s = entry.After.applyTo(s)
	}
	return s
}
