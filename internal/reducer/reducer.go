package reducer

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/scene"
)

// Reducer applies actions to scenes.
//
// A Reducer holds no scene state; the same instance may reduce any number of
// independent scenes. Thread-safety follows the injected Clock and
// IDGenerator; the defaults are safe for concurrent use.
type Reducer struct {
	clock  Clock
	ids    IDGenerator
	policy RemovePolicy
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithClock sets the wall clock used for metadata stamps.
func WithClock(c Clock) Option {
	return func(r *Reducer) {
		r.clock = c
	}
}

// WithIDGenerator sets the generator used for ids the caller left empty.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Reducer) {
		r.ids = g
	}
}

// WithRemovePolicy sets how RemoveObject treats the surrounding hierarchy.
func WithRemovePolicy(p RemovePolicy) Option {
	return func(r *Reducer) {
		r.policy = p
	}
}

// New creates a Reducer. Defaults: SystemClock, UUIDv7Generator, RemoveOrphan.
func New(opts ...Option) *Reducer {
	r := &Reducer{
		clock:  SystemClock{},
		ids:    UUIDv7Generator{},
		policy: RemoveOrphan,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the configured RemovePolicy.
func (r *Reducer) Policy() RemovePolicy {
	return r.policy
}

// Reduce returns the scene that results from applying a to s.
//
// It returns s itself when the action is a no-op. s is never mutated.
func (r *Reducer) Reduce(s *scene.Scene, a action.Action) *scene.Scene {
	if s == nil {
		return s
	}

	switch a := a.(type) {
	case action.AddObject:
		return r.addObject(s, a)
	case action.UpdateObject:
		return r.updateObject(s, a)
	case action.RemoveObject:
		return r.removeObject(s, a)
	case action.DuplicateObject:
		return r.duplicateObject(s, a)
	case action.MoveObject:
		return r.moveObject(s, a)
	case action.ReorderChildren:
		return r.reorderChildren(s, a)
	case action.AddMaterial:
		return r.addMaterial(s, a)
	case action.UpdateMaterial:
		return r.updateMaterial(s, a)
	case action.ApplyMaterial:
		return r.applyMaterial(s, a)
	case action.Select:
		return r.selectObjects(s, a)
	case action.ClearSelection:
		return r.clearSelection(s)
	case action.UpdateCamera:
		return r.updateCamera(s, a)
	case action.UpdateEnvironment:
		return r.updateEnvironment(s, a)
	case action.AddLight:
		return r.addLight(s, a)
	case action.UpdateLight:
		return r.updateLight(s, a)
	case action.RemoveLight:
		return r.removeLight(s, a)
	case action.Batch:
		cur := s
		for _, sub := range a.Actions {
			cur = r.Reduce(cur, sub)
		}
		return cur
	case action.ResetScene:
		return scene.Default(r.ids.Generate(), r.clock.Now())
	case action.LoadScene:
		if a.Scene == nil {
			return s
		}
		next := a.Scene.Clone()
		next.Metadata.Modified = r.clock.Now().UnixMilli()
		return next
	default:
		// Unknown and future action types leave the scene untouched.
		return s
	}
}

// derive returns a shallow copy of s, optionally stamping Modified.
func (r *Reducer) derive(s *scene.Scene, stamp bool) *scene.Scene {
	next := *s
	if stamp {
		next.Metadata.Modified = r.clock.Now().UnixMilli()
	}
	return &next
}

func (r *Reducer) newID(requested string) string {
	if requested != "" {
		return requested
	}
	return r.ids.Generate()
}

func normalizeName(name string) string {
	return norm.NFC.String(name)
}
