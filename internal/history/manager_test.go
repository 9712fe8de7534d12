package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
	"github.com/roach88/scenekit/internal/testutil"
)

// driver reduces and commits the way the engine does.
type driver struct {
	t   *testing.T
	m   *Manager
	r   *reducer.Reducer
	cur *scene.Scene
}

func newDriver(t *testing.T, capacity int) *driver {
	return &driver{
		t: t,
		m: New(capacity),
		r: reducer.New(
			reducer.WithClock(testutil.NewStepClock()),
			reducer.WithIDGenerator(testutil.NewSequenceGenerator("gen")),
		),
		cur: scene.Default("scene-1", testutil.Epoch),
	}
}

func (d *driver) dispatch(a action.Action) {
	d.t.Helper()
	next := d.r.Reduce(d.cur, a)
	if next == d.cur {
		return
	}
	require.NoError(d.t, d.m.Begin())
	_, err := d.m.Commit(a, d.cur, next, testutil.Epoch)
	require.NoError(d.t, err)
	require.NoError(d.t, d.m.End())
	d.cur = next
}

func (d *driver) undo() bool {
	s, ok := d.m.Undo(nil)
	if ok {
		d.cur = s
	}
	return ok
}

func (d *driver) redo() bool {
	s, ok := d.m.Redo(nil)
	if ok {
		d.cur = s
	}
	return ok
}

func TestUndoRedo_RoundTrip(t *testing.T) {
	d := newDriver(t, 50)
	s0 := d.cur.MustFingerprint()

	steps := []action.Action{
		action.AddObject{ID: "a"},
		action.AddObject{ID: "b", Parent: "a"},
		action.Select{IDs: []string{"b"}, Mode: action.SelectSet},
		action.UpdateObject{ID: "a", Changes: action.ObjectPatch{Name: action.Ptr("Root")}},
		action.AddMaterial{ID: "red"},
		action.ApplyMaterial{ObjectIDs: []string{"b"}, MaterialID: "red"},
		action.RemoveObject{ID: "a"},
	}
	for _, a := range steps {
		d.dispatch(a)
	}
	final := d.cur.MustFingerprint()
	require.Equal(t, len(steps), d.m.Len())

	for range steps {
		require.True(t, d.undo())
	}
	assert.Equal(t, s0, d.cur.MustFingerprint())
	assert.False(t, d.m.CanUndo())
	assert.False(t, d.undo())

	for range steps {
		require.True(t, d.redo())
	}
	assert.Equal(t, final, d.cur.MustFingerprint())
	assert.False(t, d.m.CanRedo())
	assert.False(t, d.redo())
}

func TestCommit_TruncatesRedoTail(t *testing.T) {
	d := newDriver(t, 50)
	d.dispatch(action.AddObject{ID: "a"})
	d.dispatch(action.AddObject{ID: "b"})
	d.dispatch(action.AddObject{ID: "c"})

	require.True(t, d.undo())
	require.True(t, d.undo())
	assert.True(t, d.m.CanRedo())

	d.dispatch(action.AddObject{ID: "z"})

	assert.False(t, d.m.CanRedo())
	assert.Equal(t, 2, d.m.Len())
	assert.Equal(t, 1, d.m.Cursor())
	assert.True(t, d.cur.HasObject("z"))
	assert.False(t, d.cur.HasObject("b"))
}

func TestCommit_EvictsOldest(t *testing.T) {
	d := newDriver(t, 3)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		d.dispatch(action.AddObject{ID: id})
		assert.LessOrEqual(t, d.m.Len(), 3)
	}

	assert.Equal(t, 3, d.m.Len())
	assert.Equal(t, 2, d.m.Cursor())

	undone := 0
	for d.undo() {
		undone++
	}
	assert.Equal(t, 3, undone)
	// The oldest reachable state still holds a and b.
	assert.True(t, d.cur.HasObject("b"))
	assert.False(t, d.cur.HasObject("c"))
}

func TestCommit_SharesBoundarySnapshots(t *testing.T) {
	d := newDriver(t, 50)
	d.dispatch(action.AddObject{ID: "a"})
	d.dispatch(action.AddObject{ID: "b"})
	d.dispatch(action.AddObject{ID: "c"})

	entries := d.m.Entries()
	require.Len(t, entries, 3)
	assert.Same(t, entries[0].After, entries[1].Before)
	assert.Same(t, entries[1].After, entries[2].Before)

	// Sharing survives an undo followed by a new commit.
	require.True(t, d.undo())
	d.dispatch(action.AddObject{ID: "z"})
	entries = d.m.Entries()
	require.Len(t, entries, 3)
	assert.Same(t, entries[1].After, entries[2].Before)
}

func TestCommit_SnapshotsAreAliasFree(t *testing.T) {
	d := newDriver(t, 50)
	d.dispatch(action.AddObject{ID: "a", ObjectPatch: action.ObjectPatch{UserData: map[string]string{"k": "v"}}})

	e := d.m.Entries()[0]
	assert.NotSame(t, d.cur, e.After)

	// Mutating the live scene (which callers must never do) cannot reach
	// history.
	d.cur.Objects[0].UserData["k"] = "changed"
	assert.Equal(t, "v", e.After.Objects[0].UserData["k"])
}

func TestCommit_SequenceNumbers(t *testing.T) {
	m := NewWithClock(2, NewClockAt(40))
	s := scene.Default("s", testutil.Epoch)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Begin())
		e, err := m.Commit(action.ClearSelection{}, s, s, testutil.Epoch)
		require.NoError(t, err)
		assert.Equal(t, int64(41+i), e.Seq)
		require.NoError(t, m.End())
	}
}

func TestStateMachine(t *testing.T) {
	m := New(10)
	s := scene.Default("s", testutil.Epoch)

	t.Run("commit requires applying", func(t *testing.T) {
		_, err := m.Commit(action.ClearSelection{}, s, s, testutil.Epoch)
		require.Error(t, err)
		assert.True(t, IsStateError(err))
		assert.Equal(t, 0, m.Len())
	})

	t.Run("begin twice", func(t *testing.T) {
		require.NoError(t, m.Begin())
		assert.Error(t, m.Begin())
		assert.Error(t, m.Clear())
		require.NoError(t, m.End())
		assert.Error(t, m.End())
	})

	t.Run("undo refused while applying", func(t *testing.T) {
		require.NoError(t, m.Begin())
		_, err := m.Commit(action.ClearSelection{}, s, s, testutil.Epoch)
		require.NoError(t, err)

		_, ok := m.Undo(nil)
		assert.False(t, ok)
		require.NoError(t, m.End())
	})

	t.Run("no commit from replaying", func(t *testing.T) {
		var (
			commitErr error
			beginErr  error
			seen      State
		)
		_, ok := m.Undo(func(restored *scene.Scene) {
			seen = m.State()
			beginErr = m.Begin()
			_, commitErr = m.Commit(action.ClearSelection{}, restored, restored, testutil.Epoch)
			_, nested := m.Redo(nil)
			assert.False(t, nested)
		})
		require.True(t, ok)
		assert.Equal(t, Replaying, seen)
		assert.Error(t, beginErr)
		assert.Error(t, commitErr)
		assert.Equal(t, Idle, m.State())
		assert.Equal(t, 1, m.Len())
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, m.Clear())
		assert.Equal(t, 0, m.Len())
		assert.False(t, m.CanUndo())
		assert.False(t, m.CanRedo())
	})
}

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, 7, New(7).Cap())
}

func TestStateError_Message(t *testing.T) {
	err := &StateError{Op: "commit", State: Replaying}
	assert.Equal(t, "history: cannot commit while replaying", err.Error())
}
