// Package history is the action log and rehydrator. The current game state
// is never stored authoritatively: it is the fold of the log prefix up to
// the cursor.
package history

import "github.com/jason-s-yu/gemduel/engine"

// Log is an append-only action log with an undo cursor. Folded states are
// memoised per prefix; they are immutable so sharing them is safe.
// A Log is not safe for concurrent use.
type Log struct {
	eng     *engine.Engine
	actions []engine.Action
	states  []*engine.GameState // states[i] = fold(actions[:i+1])
	cursor  int
}

// NewLog returns an empty log folding through eng.
func NewLog(eng *engine.Engine) *Log {
	return &Log{eng: eng}
}

// Fold applies actions in order starting from no state.
func Fold(eng *engine.Engine, actions []engine.Action) *engine.GameState {
	var s *engine.GameState
	for _, a := range actions {
		s = eng.Apply(s, a)
	}
	return s
}

// Record appends a after the cursor, discarding any undone actions, and
// returns the new current state.
func (l *Log) Record(a engine.Action) *engine.GameState {
	l.actions = l.actions[:l.cursor]
	l.states = l.states[:l.cursor]
	next := l.eng.Apply(l.State(), a)
	l.actions = append(l.actions, a)
	l.states = append(l.states, next)
	l.cursor++
	return next
}

// TryRecord is Record for untrusted input: an action the reducer rejects
// (it returns the unchanged state) is not appended.
func (l *Log) TryRecord(a engine.Action) (*engine.GameState, bool) {
	cur := l.State()
	next := l.eng.Apply(cur, a)
	if next == cur {
		return cur, false
	}
	l.actions = append(l.actions[:l.cursor], a)
	l.states = append(l.states[:l.cursor], next)
	l.cursor++
	return next, true
}

// Undo moves the cursor back one action.
func (l *Log) Undo() bool {
	if !l.CanUndo() {
		return false
	}
	l.cursor--
	return true
}

// Redo moves the cursor forward one action.
func (l *Log) Redo() bool {
	if !l.CanRedo() {
		return false
	}
	l.cursor++
	return true
}

func (l *Log) CanUndo() bool { return l.cursor > 0 }
func (l *Log) CanRedo() bool { return l.cursor < len(l.actions) }

// Cursor returns the number of actions currently applied.
func (l *Log) Cursor() int { return l.cursor }

// Len returns the number of recorded actions, undone ones included.
func (l *Log) Len() int { return len(l.actions) }

// Actions returns a copy of the applied prefix of the log.
func (l *Log) Actions() []engine.Action {
	return append([]engine.Action(nil), l.actions[:l.cursor]...)
}

// State returns the fold of the applied prefix, or nil before INIT.
func (l *Log) State() *engine.GameState {
	if l.cursor == 0 {
		return nil
	}
	return l.states[l.cursor-1]
}

// ImportHistory replaces the log wholesale and moves the cursor to the end.
func (l *Log) ImportHistory(actions []engine.Action) *engine.GameState {
	l.actions = append([]engine.Action(nil), actions...)
	l.states = make([]*engine.GameState, len(actions))
	var s *engine.GameState
	for i, a := range l.actions {
		s = l.eng.Apply(s, a)
		l.states[i] = s
	}
	l.cursor = len(actions)
	return s
}
