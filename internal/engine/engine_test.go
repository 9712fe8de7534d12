package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/history"
	"github.com/roach88/scenekit/internal/reconcile"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
	"github.com/roach88/scenekit/internal/store"
	"github.com/roach88/scenekit/internal/testutil"
)

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithClock(testutil.NewStepClock()),
		WithIDGenerator(testutil.NewSequenceGenerator("gen")),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}
	return New(append(base, opts...)...)
}

func TestNew_DefaultScene(t *testing.T) {
	e := newTestEngine()
	s := e.Scene()

	assert.Equal(t, "gen-1", s.ID)
	assert.Equal(t, scene.SchemaVersion, s.Metadata.Version)
	assert.False(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestNew_InitialSceneIsCopied(t *testing.T) {
	initial := scene.Default("mine", testutil.Epoch)
	e := newTestEngine(WithInitialScene(initial))

	initial.Name = "mutated"
	assert.Equal(t, "mine", e.Scene().ID)
	assert.Equal(t, "Untitled Scene", e.Scene().Name)
}

func TestDispatch_UnknownActionKeepsScene(t *testing.T) {
	e := newTestEngine()
	before := e.Scene()

	notified := 0
	e.Subscribe(func(*scene.Scene) { notified++ })

	require.NoError(t, e.Dispatch(action.Unknown{Type: "TELEPORT"}))
	require.NoError(t, e.Dispatch(nil))

	assert.Same(t, before, e.Scene())
	assert.Zero(t, notified)
	assert.Zero(t, e.HistoryLen())
}

func TestDispatch_AddTwoObjects(t *testing.T) {
	e := newTestEngine()

	id1, err := e.AddObject(action.AddObject{ObjectPatch: action.ObjectPatch{Name: action.Ptr("Cube")}})
	require.NoError(t, err)
	id2, err := e.AddObject(action.AddObject{ObjectPatch: action.ObjectPatch{Name: action.Ptr("Sphere")}})
	require.NoError(t, err)

	assert.Len(t, e.Scene().Objects, 2)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, e.HistoryLen())
}

func TestDispatch_MoveCycleRejected(t *testing.T) {
	e := newTestEngine()
	_, err := e.AddObject(action.AddObject{ID: "obj-1"})
	require.NoError(t, err)
	_, err = e.AddObject(action.AddObject{ID: "obj-2"})
	require.NoError(t, err)

	require.NoError(t, e.MoveObject("obj-2", "obj-1", nil))
	p, ok := e.Parent("obj-2")
	require.True(t, ok)
	assert.Equal(t, "obj-1", p.ID)

	before := e.Scene()
	require.NoError(t, e.MoveObject("obj-1", "obj-2", nil))
	assert.Same(t, before, e.Scene())
	assert.Equal(t, 3, e.HistoryLen())
}

func TestDispatch_RemoveClearsSelection(t *testing.T) {
	e := newTestEngine()
	id, err := e.AddObject(action.AddObject{})
	require.NoError(t, err)
	require.NoError(t, e.SelectObjects([]string{id}, action.SelectSet))
	require.Len(t, e.SelectedObjects(), 1)

	require.NoError(t, e.RemoveObject(id))

	_, ok := e.Object(id)
	assert.False(t, ok)
	assert.Empty(t, e.Scene().Selection)
}

func TestUndoRedo_RestoresExactScenes(t *testing.T) {
	e := newTestEngine()
	s0 := e.Scene().MustFingerprint()

	_, err := e.AddObject(action.AddObject{ID: "p"})
	require.NoError(t, err)
	_, err = e.AddObject(action.AddObject{ID: "c", Parent: "p"})
	require.NoError(t, err)
	mat, err := e.AddMaterial(action.AddMaterial{MaterialPatch: action.MaterialPatch{Color: action.Ptr("#00ff00")}})
	require.NoError(t, err)
	require.NoError(t, e.ApplyMaterial([]string{"c"}, mat))
	require.NoError(t, e.UpdateEnvironment(action.EnvironmentPatch{Fog: &scene.Fog{Type: "linear", Color: "#fff", Near: 1, Far: 5}}))
	require.NoError(t, e.RemoveObject("p"))
	final := e.Scene().MustFingerprint()
	n := e.HistoryLen()

	for i := 0; i < n; i++ {
		require.True(t, e.Undo())
	}
	assert.Equal(t, s0, e.Scene().MustFingerprint())
	assert.False(t, e.Undo())

	for i := 0; i < n; i++ {
		require.True(t, e.Redo())
	}
	assert.Equal(t, final, e.Scene().MustFingerprint())
	assert.False(t, e.Redo())
}

func TestHistoryCapacity(t *testing.T) {
	e := newTestEngine(WithHistoryCapacity(3))

	for i := 0; i < 6; i++ {
		_, err := e.AddObject(action.AddObject{})
		require.NoError(t, err)
		assert.LessOrEqual(t, e.HistoryLen(), 3)
	}

	undone := 0
	for e.Undo() {
		undone++
	}
	assert.Equal(t, 3, undone)
	assert.Len(t, e.Scene().Objects, 3)
	assert.False(t, e.CanUndo())
}

func TestSubscribers_RegistrationOrderAndUnsubscribe(t *testing.T) {
	e := newTestEngine()

	var calls []string
	e.Subscribe(func(*scene.Scene) { calls = append(calls, "first") })
	unsub := e.Subscribe(func(*scene.Scene) { calls = append(calls, "second") })
	e.Subscribe(func(*scene.Scene) { calls = append(calls, "third") })

	_, err := e.AddObject(action.AddObject{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)

	calls = nil
	unsub()
	require.True(t, e.Undo())
	assert.Equal(t, []string{"first", "third"}, calls)
}

func TestSubscribers_ReceivePublishedScene(t *testing.T) {
	e := newTestEngine()

	var got *scene.Scene
	e.Subscribe(func(s *scene.Scene) { got = s })

	_, err := e.AddObject(action.AddObject{})
	require.NoError(t, err)
	assert.Same(t, e.Scene(), got)
}

func TestReentrantDispatch_Bounded(t *testing.T) {
	e := newTestEngine(WithMaxDepth(3))

	var errs []error
	e.Subscribe(func(s *scene.Scene) {
		// Every change triggers another change: unbounded without the quota.
		_, err := e.AddObject(action.AddObject{})
		if err != nil {
			errs = append(errs, err)
		}
	})

	_, err := e.AddObject(action.AddObject{})
	require.NoError(t, err)

	require.Len(t, errs, 1)
	assert.True(t, IsDepthError(errs[0]))
	assert.Len(t, e.Scene().Objects, 3)
	assert.Equal(t, 3, e.HistoryLen())

	var re *RuntimeError
	require.ErrorAs(t, errs[0], &re)
	assert.Equal(t, "4", re.Details["depth"])
	assert.Equal(t, "3", re.Details["max_depth"])
}

func TestReentrantDispatch_SubscriberReaction(t *testing.T) {
	e := newTestEngine()

	// Auto-select every newly added object.
	e.Subscribe(func(s *scene.Scene) {
		if len(s.Objects) == 0 {
			return
		}
		last := s.Objects[len(s.Objects)-1].ID
		if !s.IsSelected(last) {
			require.NoError(t, e.SelectObjects([]string{last}, action.SelectSet))
		}
	})

	id, err := e.AddObject(action.AddObject{})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, e.Scene().Selection)
	assert.Equal(t, 2, e.HistoryLen())
}

func TestReentrantDispatch_LaterSubscribersSeeLatestScene(t *testing.T) {
	e := newTestEngine()

	e.Subscribe(func(s *scene.Scene) {
		if s.HasObject("a") && len(s.Selection) == 0 {
			require.NoError(t, e.SelectObjects([]string{"a"}, action.SelectSet))
		}
	})

	var seen []*scene.Scene
	e.Subscribe(func(s *scene.Scene) {
		seen = append(seen, s)
	})

	_, err := e.AddObject(action.AddObject{ID: "a"})
	require.NoError(t, err)

	require.Len(t, seen, 1)
	last := seen[len(seen)-1]
	assert.Same(t, e.Scene(), last)
	assert.Equal(t, []string{"a"}, last.Selection)
}

func TestDuplicateObject_ReturnsCopyDespiteSubscriberAdds(t *testing.T) {
	e := newTestEngine()
	_, err := e.AddObject(action.AddObject{ID: "a"})
	require.NoError(t, err)

	// Adding an object in reaction to the copy leaves the copy out of last
	// place in the object list.
	e.Subscribe(func(s *scene.Scene) {
		if len(s.Objects) == 2 {
			_, err := e.AddObject(action.AddObject{ID: "follower"})
			require.NoError(t, err)
		}
	})

	dup, err := e.DuplicateObject("a")
	require.NoError(t, err)
	assert.Equal(t, "gen-2", dup)
	assert.True(t, e.Scene().HasObject(dup))
	assert.Equal(t, "follower", e.Scene().Objects[len(e.Scene().Objects)-1].ID)
}

func TestDispatchDuringReplay_Rejected(t *testing.T) {
	e := newTestEngine()
	_, err := e.AddObject(action.AddObject{ID: "a"})
	require.NoError(t, err)

	var (
		replayErr  error
		nestedUndo bool
		armed      bool
	)
	e.Subscribe(func(*scene.Scene) {
		if !armed {
			return
		}
		replayErr = e.Dispatch(action.AddObject{ID: "sneaky"})
		nestedUndo = e.Undo()
	})

	armed = true
	require.True(t, e.Undo())

	assert.True(t, IsReplayingError(replayErr))
	assert.False(t, nestedUndo)
	assert.False(t, e.Scene().HasObject("sneaky"))
	assert.True(t, e.CanRedo())
	assert.Equal(t, 1, e.HistoryLen())
}

func TestConvenienceWrappers(t *testing.T) {
	e := newTestEngine()

	p, err := e.AddObject(action.AddObject{ID: "p"})
	require.NoError(t, err)
	_, err = e.AddObject(action.AddObject{ID: "a", Parent: p})
	require.NoError(t, err)
	_, err = e.AddObject(action.AddObject{ID: "b", Parent: p})
	require.NoError(t, err)

	require.NoError(t, e.ReorderChildren(p, []string{"b", "a"}))
	kids := e.Children(p)
	require.Len(t, kids, 2)
	assert.Equal(t, "b", kids[0].ID)

	dup, err := e.DuplicateObject("a")
	require.NoError(t, err)
	assert.Equal(t, "gen-2", dup)

	missing, err := e.DuplicateObject("ghost")
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, e.UpdateObject("a", action.ObjectPatch{Visible: action.Ptr(false)}))
	hidden := e.FindObjects(func(o scene.Object) bool { return !o.Visible })
	require.Len(t, hidden, 1)
	assert.Equal(t, "a", hidden[0].ID)

	require.NoError(t, e.UpdateCamera(action.CameraPatch{FOV: action.Ptr(40.0)}))
	assert.Equal(t, 40.0, e.Scene().Camera.FOV)

	lid, err := e.AddLight(action.AddLight{})
	require.NoError(t, err)
	require.NoError(t, e.UpdateLight(lid, action.LightPatch{Intensity: action.Ptr(2.0)}))
	require.NoError(t, e.RemoveLight(lid))
	assert.Equal(t, -1, e.Scene().LightIndex(lid))

	mid, err := e.AddMaterial(action.AddMaterial{ID: "steel"})
	require.NoError(t, err)
	require.NoError(t, e.UpdateMaterial(mid, action.MaterialPatch{Metalness: action.Ptr(1.0)}))

	require.NoError(t, e.SelectObjects([]string{"a", "b"}, action.SelectSet))
	require.NoError(t, e.ClearSelection())
	assert.Empty(t, e.SelectedObjects())

	require.NoError(t, e.Reset())
	assert.Empty(t, e.Scene().Objects)
	assert.True(t, e.CanUndo())
}

func TestExportImport(t *testing.T) {
	e := newTestEngine()
	_, err := e.AddObject(action.AddObject{ID: "a"})
	require.NoError(t, err)

	exported := e.ExportScene()
	assert.NotSame(t, e.Scene(), exported)
	exported.Objects[0].Name = "mutated"
	assert.NotEqual(t, "mutated", e.Scene().Objects[0].Name)

	other := newTestEngine()
	require.NoError(t, other.ImportScene(exported))
	assert.Equal(t, "mutated", other.Scene().Objects[0].Name)
	assert.True(t, other.CanUndo())
}

func TestClearHistory(t *testing.T) {
	e := newTestEngine()
	_, err := e.AddObject(action.AddObject{})
	require.NoError(t, err)

	require.NoError(t, e.ClearHistory())
	assert.Zero(t, e.HistoryLen())
	assert.False(t, e.CanUndo())
	assert.Len(t, e.Scene().Objects, 1)
}

func TestIntegrityWarningsLogged(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEngine(
		WithRemovePolicy(reducer.RemoveLeave),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	_, err := e.AddObject(action.AddObject{ID: "p"})
	require.NoError(t, err)
	_, err = e.AddObject(action.AddObject{ID: "c", Parent: "p"})
	require.NoError(t, err)

	require.NoError(t, e.RemoveObject("p"))

	assert.Contains(t, buf.String(), "scene integrity violation")
	assert.Contains(t, buf.String(), "missing_parent")
}

// memJournal is an in-memory Journal.
type memJournal struct {
	mu   sync.Mutex
	recs []store.JournalRecord
	err  error
}

func (j *memJournal) AppendJournal(_ context.Context, rec store.JournalRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.recs = append(j.recs, rec)
	return nil
}

func TestJournal_RecordsCommittedEntries(t *testing.T) {
	j := &memJournal{}
	e := newTestEngine(WithJournal(j), WithHistoryClock(history.NewClockAt(10)))

	before := e.Scene().MustFingerprint()
	_, err := e.AddObject(action.AddObject{ID: "a"})
	require.NoError(t, err)
	require.NoError(t, e.Dispatch(action.RemoveObject{ID: "ghost"}))
	require.NoError(t, e.SelectObjects([]string{"a"}, action.SelectSet))

	require.Len(t, j.recs, 2)
	assert.Equal(t, int64(11), j.recs[0].Seq)
	assert.Equal(t, "ADD_OBJECT", j.recs[0].ActionType)
	assert.Equal(t, before, j.recs[0].BeforeHash)
	assert.Equal(t, j.recs[0].AfterHash, j.recs[1].BeforeHash)
	assert.Equal(t, e.Scene().MustFingerprint(), j.recs[1].AfterHash)

	decoded, err := action.Unmarshal(j.recs[0].Action)
	require.NoError(t, err)
	assert.Equal(t, action.AddObject{ID: "a"}, decoded)
}

func TestJournal_FailureDoesNotFailDispatch(t *testing.T) {
	var buf bytes.Buffer
	j := &memJournal{err: errors.New("disk full")}
	e := newTestEngine(WithJournal(j), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	_, err := e.AddObject(action.AddObject{})
	require.NoError(t, err)
	assert.Len(t, e.Scene().Objects, 1)
	assert.Contains(t, buf.String(), "journal append failed")
}

func TestJournal_SQLiteStore(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	e := newTestEngine(WithJournal(st))
	_, err = e.AddObject(action.AddObject{ID: "a"})
	require.NoError(t, err)

	recs, err := st.ReadJournal(context.Background(), e.Scene().ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ADD_OBJECT", recs[0].ActionType)
}

func TestRenderLoopSeesPublishedScenes(t *testing.T) {
	e := newTestEngine()
	rec := reconcile.NewRecorder()
	r := reconcile.New(rec.Target())

	// A renderer subscribed per dispatch and one pulling per tick see the
	// same scenes.
	e.Subscribe(func(s *scene.Scene) { require.NoError(t, r.Sync(s).Err()) })

	_, err := e.AddObject(action.AddObject{ID: "a"})
	require.NoError(t, err)
	require.NoError(t, e.RemoveObject("a"))

	assert.Contains(t, rec.Lines(), "create object a")
	assert.Contains(t, rec.Lines(), "dispose object a")
	assert.Same(t, e.Scene(), r.Last())
}
