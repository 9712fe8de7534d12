package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/history"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
)

// Listener receives every newly published scene. It must not mutate it.
type Listener func(*scene.Scene)

type subscription struct {
	id int
	fn Listener
}

// Engine owns the current scene, its history and its subscribers.
//
// Thread-safety model:
//   - Scene(): safe from any goroutine
//   - everything else: one logical thread, subscribers included
//
// INVARIANTS:
//   - the published scene is never mutated
//   - subscribers run in registration order
//   - history is only committed from Dispatch, never while replaying
type Engine struct {
	reducer *reducer.Reducer
	history *history.Manager
	current atomic.Pointer[scene.Scene]
	depth   *DepthQuota
	clock   reducer.Clock
	ids     reducer.IDGenerator
	logger  *slog.Logger
	journal Journal

	subs   []subscription
	nextID int
}

// New creates an Engine. Without WithInitialScene it starts from a fresh
// default scene.
func New(opts ...Option) *Engine {
	cfg := config{
		capacity: history.DefaultCapacity,
		policy:   reducer.RemoveOrphan,
		clock:    reducer.SystemClock{},
		ids:      reducer.UUIDv7Generator{},
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		reducer: reducer.New(
			reducer.WithClock(cfg.clock),
			reducer.WithIDGenerator(cfg.ids),
			reducer.WithRemovePolicy(cfg.policy),
		),
		history: history.NewWithClock(cfg.capacity, cfg.historyClock),
		depth:   NewDepthQuota(cfg.maxDepth),
		clock:   cfg.clock,
		ids:     cfg.ids,
		logger:  cfg.logger,
		journal: cfg.journal,
	}

	initial := cfg.initial.Clone()
	if initial == nil {
		initial = scene.Default(cfg.ids.Generate(), cfg.clock.Now())
	}
	e.current.Store(initial)

	if vs := reducer.CheckIntegrity(initial); len(vs) > 0 {
		e.warnViolations("initial scene", vs)
	}
	return e
}

// Scene returns the current scene. Callers must not mutate it; use
// ExportScene for a private copy.
func (e *Engine) Scene() *scene.Scene {
	return e.current.Load()
}

// Subscribe registers fn and returns a function that unregisters it.
// Unsubscribing during notification takes effect from the next change.
// A listener that dispatches causes the remaining listeners to receive the
// newer scene only.
func (e *Engine) Subscribe(fn Listener) (unsubscribe func()) {
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, fn: fn})
	return func() {
		e.subs = slices.DeleteFunc(slices.Clone(e.subs), func(s subscription) bool { return s.id == id })
	}
}

// Dispatch applies a. It returns nil both when the scene changed and when
// the action was a no-op; errors only come from re-entrancy limits.
func (e *Engine) Dispatch(a action.Action) error {
	return e.DispatchContext(context.Background(), a)
}

// DispatchContext is Dispatch with a context for the journal write.
func (e *Engine) DispatchContext(ctx context.Context, a action.Action) error {
	if a == nil {
		return nil
	}
	kind := a.Kind()

	if e.history.State() == history.Replaying {
		return NewReplayingError(kind)
	}
	if err := e.depth.Enter(kind); err != nil {
		return err
	}
	defer e.depth.Exit()

	cur := e.current.Load()
	next := e.reducer.Reduce(cur, a)
	if next == cur {
		e.logger.Debug("action was a no-op", "action", kind)
		return nil
	}

	if err := e.history.Begin(); err != nil {
		return fmt.Errorf("dispatch %s: %w", kind, err)
	}
	entry, err := e.history.Commit(a, cur, next, e.clock.Now())
	if endErr := e.history.End(); err == nil {
		err = endErr
	}
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", kind, err)
	}

	e.current.Store(next)
	e.logger.Debug("action applied",
		"action", kind,
		"seq", entry.Seq,
		"depth", e.depth.Current(),
	)
	e.record(ctx, entry)

	if needsAudit(a) {
		if vs := reducer.CheckIntegrity(next); len(vs) > 0 {
			e.warnViolations(string(kind), vs)
		}
	}

	e.notify(next)
	return nil
}

// Undo restores the scene before the most recent entry. It returns false
// when there is nothing to undo or a replay is already in progress.
func (e *Engine) Undo() bool {
	_, ok := e.history.Undo(e.restore)
	if ok {
		e.logger.Debug("undo", "cursor", e.history.Cursor())
	}
	return ok
}

// Redo reapplies the most recently undone entry. It mirrors Undo.
func (e *Engine) Redo() bool {
	_, ok := e.history.Redo(e.restore)
	if ok {
		e.logger.Debug("redo", "cursor", e.history.Cursor())
	}
	return ok
}

// CanUndo reports whether Undo would succeed.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// HistoryLen returns the number of stored history entries.
func (e *Engine) HistoryLen() int { return e.history.Len() }

// History returns the stored entries, oldest first.
func (e *Engine) History() []history.Entry { return e.history.Entries() }

// ClearHistory drops every history entry. The current scene is kept.
func (e *Engine) ClearHistory() error {
	return e.history.Clear()
}

// ExportScene returns a private deep copy of the current scene.
func (e *Engine) ExportScene() *scene.Scene {
	return e.current.Load().Clone()
}

// ImportScene replaces the scene with a copy of s through LOAD_SCENE, so
// the replacement is undoable.
func (e *Engine) ImportScene(s *scene.Scene) error {
	return e.Dispatch(action.LoadScene{Scene: s})
}

func (e *Engine) restore(s *scene.Scene) {
	e.current.Store(s)
	e.notify(s)
}

func (e *Engine) notify(s *scene.Scene) {
	// Iterate over the list as it was when the change happened; listeners
	// may subscribe or unsubscribe while being called.
	for _, sub := range e.subs {
		// A listener dispatched and the nested change has already been
		// delivered to everyone; s is stale for the remaining listeners.
		if e.current.Load() != s {
			return
		}
		sub.fn(s)
	}
}

func (e *Engine) warnViolations(after string, vs []reducer.Violation) {
	for _, v := range vs {
		e.logger.Warn("scene integrity violation",
			"after", after,
			"kind", v.Kind,
			"id", v.ID,
			"detail", v.Message,
		)
	}
}

func needsAudit(a action.Action) bool {
	switch a.(type) {
	case action.RemoveObject, action.LoadScene, action.Batch:
		return true
	default:
		return false
	}
}
