package history

import (
	"slices"
	"time"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/scene"
)

// DefaultCapacity is the number of entries kept when none is configured.
const DefaultCapacity = 50

// State is the phase a Manager is in.
type State int

const (
	Idle State = iota
	Applying
	Replaying
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Applying:
		return "applying"
	case Replaying:
		return "replaying"
	default:
		return "unknown"
	}
}

// Entry is one committed transition.
type Entry struct {
	Seq       int64
	Action    action.Action
	Before    *scene.Scene
	After     *scene.Scene
	Timestamp time.Time
}

// Manager owns the entry list and the cursor.
//
// Not safe for concurrent use: like the engine that drives it, a Manager is
// touched from a single logical thread.
type Manager struct {
	entries  []Entry
	cursor   int // index of the most recently applied entry, -1 if none
	capacity int
	state    State
	clock    *Clock

	// lastSource is the live scene whose snapshot is lastSnapshot. A commit
	// whose before scene is lastSource reuses the snapshot instead of cloning.
	lastSource   *scene.Scene
	lastSnapshot *scene.Scene
}

// New creates a Manager keeping at most capacity entries. A capacity below
// one selects DefaultCapacity.
func New(capacity int) *Manager {
	return NewWithClock(capacity, NewClock())
}

// NewWithClock is New with an explicit sequence clock.
func NewWithClock(capacity int, clock *Clock) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = NewClock()
	}
	return &Manager{cursor: -1, capacity: capacity, clock: clock}
}

// State returns the current phase.
func (m *Manager) State() State { return m.state }

// Cap returns the configured capacity.
func (m *Manager) Cap() int { return m.capacity }

// Len returns the number of stored entries.
func (m *Manager) Len() int { return len(m.entries) }

// Cursor returns the index of the most recently applied entry, -1 if none.
func (m *Manager) Cursor() int { return m.cursor }

// CanUndo reports whether an entry is available to undo.
func (m *Manager) CanUndo() bool { return m.cursor >= 0 }

// CanRedo reports whether an undone entry is available to redo.
func (m *Manager) CanRedo() bool { return m.cursor < len(m.entries)-1 }

// Entries returns the stored entries, oldest first. The slice is a copy;
// the snapshots are shared and must not be mutated.
func (m *Manager) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Begin enters Applying. Only legal from Idle.
func (m *Manager) Begin() error {
	if m.state != Idle {
		return &StateError{Op: "begin", State: m.state}
	}
	m.state = Applying
	return nil
}

// End leaves Applying. Only legal from Applying.
func (m *Manager) End() error {
	if m.state != Applying {
		return &StateError{Op: "end", State: m.state}
	}
	m.state = Idle
	return nil
}

// Commit records the transition before -> after caused by a.
//
// Any redo tail is discarded. When the capacity is exceeded the oldest entry
// is evicted. Commit is only legal while Applying.
func (m *Manager) Commit(a action.Action, before, after *scene.Scene, at time.Time) (Entry, error) {
	if m.state != Applying {
		return Entry{}, &StateError{Op: "commit", State: m.state}
	}

	beforeSnap := m.lastSnapshot
	if before != m.lastSource || beforeSnap == nil {
		beforeSnap = before.Clone()
	}
	afterSnap := after.Clone()

	// Drop the redo tail, clearing references so evicted snapshots can be
	// collected.
	clear(m.entries[m.cursor+1:])
	m.entries = m.entries[:m.cursor+1]

	e := Entry{
		Seq:       m.clock.Next(),
		Action:    a,
		Before:    beforeSnap,
		After:     afterSnap,
		Timestamp: at,
	}
	m.entries = append(m.entries, e)

	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = slices.Delete(m.entries, 0, over)
	}
	m.cursor = len(m.entries) - 1

	m.lastSource = after
	m.lastSnapshot = afterSnap
	return e, nil
}

// Undo restores the Before snapshot of the entry at the cursor and moves the
// cursor back. restore, when non-nil, is called with a fresh copy of the
// snapshot while the manager is Replaying. It returns false, restoring
// nothing, when there is nothing to undo or the manager is not Idle.
func (m *Manager) Undo(restore func(*scene.Scene)) (*scene.Scene, bool) {
	if m.state != Idle || !m.CanUndo() {
		return nil, false
	}
	e := m.entries[m.cursor]
	m.cursor--
	return m.replay(e.Before, restore), true
}

// Redo restores the After snapshot of the entry following the cursor and
// moves the cursor forward. It mirrors Undo.
func (m *Manager) Redo(restore func(*scene.Scene)) (*scene.Scene, bool) {
	if m.state != Idle || !m.CanRedo() {
		return nil, false
	}
	m.cursor++
	e := m.entries[m.cursor]
	return m.replay(e.After, restore), true
}

func (m *Manager) replay(snap *scene.Scene, restore func(*scene.Scene)) *scene.Scene {
	restored := snap.Clone()
	m.lastSource = restored
	m.lastSnapshot = snap

	m.state = Replaying
	defer func() { m.state = Idle }()
	if restore != nil {
		restore(restored)
	}
	return restored
}

// Clear drops every entry. Only legal from Idle.
func (m *Manager) Clear() error {
	if m.state != Idle {
		return &StateError{Op: "clear", State: m.state}
	}
	clear(m.entries)
	m.entries = nil
	m.cursor = -1
	m.lastSource = nil
	m.lastSnapshot = nil
	return nil
}
