package tracker

import (
	"sync"

	"billtrack/internal/log"
)

// Listener receives the state after every action that changed it.
type Listener func(State)

// Store owns one tracker session: the current State, the reducer and the
// subscribers. It is created by whoever composes the UI and passed down;
// there is no package-level store.
//
// Dispatches are serialised, so every subscriber observes states in dispatch
// order. Listeners run on the dispatching goroutine and must not call
// Dispatch themselves.
type Store struct {
	reducer *Reducer
	logger  log.Logging

	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     State
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithInitialState sets both the starting state and the RESET_STATE target.
func WithInitialState(s State) StoreOption {
	return func(st *Store) {
		st.reducer = NewReducer(s)
		st.state = s
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l log.Logging) StoreOption {
	return func(st *Store) { st.logger = l }
}

// NewStore creates a store starting from InitialState unless overridden.
func NewStore(opts ...StoreOption) *Store {
	initial := InitialState()
	st := &Store{
		reducer: NewReducer(initial),
		logger:  log.Default(),
		state:   initial,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// State returns the current snapshot.
func (st *Store) State() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state
}

// Subscribe registers fn and returns a function that removes it.
func (st *Store) Subscribe(fn Listener) func() {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.listeners = append(st.listeners, subscription{id: id, fn: fn})
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		for i, sub := range st.listeners {
			if sub.id == id {
				st.listeners = append(st.listeners[:i:i], st.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies action and notifies subscribers when the state changed.
func (st *Store) Dispatch(action Action) {
	st.dispatchMu.Lock()
	defer st.dispatchMu.Unlock()
	st.dispatchLocked(action)
}

// DispatchAll applies actions in order as one uninterrupted sequence.
func (st *Store) DispatchAll(actions ...Action) {
	st.dispatchMu.Lock()
	defer st.dispatchMu.Unlock()
	for _, a := range actions {
		st.dispatchLocked(a)
	}
}

// DispatchUndoable applies action and records it on the undo stack together
// with the document before and after, so Undo and Redo can restore it.
func (st *Store) DispatchUndoable(label string, action Action) {
	st.dispatchMu.Lock()
	defer st.dispatchMu.Unlock()

	before := st.State()
	if !st.dispatchLocked(action) {
		return
	}
	after := st.State()
	entry := NewHistoryEntry(label, action, DocumentOf(before), DocumentOf(after))
	st.dispatchLocked(AddToUndoStack{Entry: entry})
}

// Undo reverts the most recent undoable action. It reports false when there
// was nothing to undo.
func (st *Store) Undo() bool {
	st.dispatchMu.Lock()
	defer st.dispatchMu.Unlock()
	return st.dispatchLocked(Undo{})
}

// Redo re-applies the most recently undone action.
func (st *Store) Redo() bool {
	st.dispatchMu.Lock()
	defer st.dispatchMu.Unlock()
	return st.dispatchLocked(Redo{})
}

// dispatchLocked reports whether the state changed.
func (st *Store) dispatchLocked(action Action) bool {
	current := st.State()
	next, known := st.reducer.Step(current, action)
	if !known {
		kind := "<nil>"
		if action != nil {
			kind = string(action.Type())
		}
		st.logger.With(log.F("action", kind)).Debug("ignoring unknown action")
		return false
	}
	if next.Version == current.Version {
		return false
	}

	st.mu.Lock()
	st.state = next
	listeners := st.listeners
	st.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(next)
	}
	return true
}
