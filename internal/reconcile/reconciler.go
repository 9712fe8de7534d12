package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/roach88/scenekit/internal/scene"
)

// Target bundles the collaborators a Reconciler drives. Camera and
// Environment are optional hooks called once per Sync; a nil collection
// collaborator tracks ids without side effects.
type Target[MH, OH, LH any] struct {
	Materials   Collaborator[scene.Material, MH]
	Objects     Collaborator[scene.Object, OH]
	Lights      Collaborator[scene.Light, LH]
	Camera      func(scene.Camera) error
	Environment func(scene.Environment) error
}

// SceneReport aggregates the reports of one Sync.
type SceneReport struct {
	SceneID        string
	Materials      Report
	Objects        Report
	Lights         Report
	CameraErr      error
	EnvironmentErr error
}

// Err joins every error of the sync, or returns nil.
func (r SceneReport) Err() error {
	return errors.Join(r.Materials.Err, r.Objects.Err, r.Lights.Err, r.CameraErr, r.EnvironmentErr)
}

// Reconciler keeps the retained id -> handle mappings between syncs.
//
// Not safe for concurrent use. Run it from the goroutine that owns the
// collaborator, typically the render loop.
type Reconciler[MH, OH, LH any] struct {
	target    Target[MH, OH, LH]
	materials map[string]MH
	objects   map[string]OH
	lights    map[string]LH
	last      *scene.Scene
	logger    *slog.Logger
}

// Option configures a Reconciler.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used by Run. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates a Reconciler with empty mappings.
func New[MH, OH, LH any](t Target[MH, OH, LH], opts ...Option) *Reconciler[MH, OH, LH] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if t.Materials == nil {
		t.Materials = Funcs[scene.Material, MH]{}
	}
	if t.Objects == nil {
		t.Objects = Funcs[scene.Object, OH]{}
	}
	if t.Lights == nil {
		t.Lights = Funcs[scene.Light, LH]{}
	}
	return &Reconciler[MH, OH, LH]{
		target:    t,
		materials: make(map[string]MH),
		objects:   make(map[string]OH),
		lights:    make(map[string]LH),
		logger:    o.logger,
	}
}

// Sync reconciles s in order: materials, objects, lights, camera,
// environment.
func (r *Reconciler[MH, OH, LH]) Sync(s *scene.Scene) SceneReport {
	rep := SceneReport{SceneID: s.ID}
	rep.Materials = Collection("material", r.materials, s.Materials, materialKey, r.target.Materials)
	rep.Objects = Collection("object", r.objects, s.Objects, objectKey, r.target.Objects)
	rep.Lights = Collection("light", r.lights, s.Lights, lightKey, r.target.Lights)
	if r.target.Camera != nil {
		if err := r.target.Camera(s.Camera); err != nil {
			rep.CameraErr = fmt.Errorf("camera: %w", err)
		}
	}
	if r.target.Environment != nil {
		if err := r.target.Environment(s.Environment); err != nil {
			rep.EnvironmentErr = fmt.Errorf("environment: %w", err)
		}
	}
	if rep.Err() == nil {
		r.last = s
	} else {
		r.last = nil
	}
	return rep
}

// MaterialHandle returns the handle created for material id, if any.
// Object collaborators use it to resolve material references.
func (r *Reconciler[MH, OH, LH]) MaterialHandle(id string) (MH, bool) {
	h, ok := r.materials[id]
	return h, ok
}

// ObjectHandle returns the handle created for object id, if any.
func (r *Reconciler[MH, OH, LH]) ObjectHandle(id string) (OH, bool) {
	h, ok := r.objects[id]
	return h, ok
}

// LightHandle returns the handle created for light id, if any.
func (r *Reconciler[MH, OH, LH]) LightHandle(id string) (LH, bool) {
	h, ok := r.lights[id]
	return h, ok
}

// Last returns the scene most recently synced without error, or nil when
// the latest sync failed.
func (r *Reconciler[MH, OH, LH]) Last() *scene.Scene {
	return r.last
}

// Reset disposes every handle, objects and lights before the materials they
// may reference, and forgets the last synced scene.
func (r *Reconciler[MH, OH, LH]) Reset() error {
	errs := []error{
		disposeAll("object", r.objects, r.target.Objects),
		disposeAll("light", r.lights, r.target.Lights),
		disposeAll("material", r.materials, r.target.Materials),
	}
	r.last = nil
	return errors.Join(errs...)
}

// Run syncs the scene returned by source once per interval until ctx is
// done. A tick whose scene pointer equals the last synced one is skipped:
// published scenes are immutable, so pointer equality means nothing changed.
//
// Sync errors are logged and do not stop the loop; a failed scene is synced
// again on the next tick even when source still returns it. Run returns
// ctx.Err().
func (r *Reconciler[MH, OH, LH]) Run(ctx context.Context, interval time.Duration, source func() *scene.Scene) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.tick(source)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(source)
		}
	}
}

func (r *Reconciler[MH, OH, LH]) tick(source func() *scene.Scene) {
	s := source()
	if s == nil || s == r.last {
		return
	}
	rep := r.Sync(s)
	if err := rep.Err(); err != nil {
		r.logger.Warn("reconcile sync failed",
			"scene_id", s.ID,
			"error", err,
		)
		return
	}
	r.logger.Debug("reconciled scene",
		"scene_id", s.ID,
		"created", len(rep.Materials.Created)+len(rep.Objects.Created)+len(rep.Lights.Created),
		"disposed", len(rep.Materials.Disposed)+len(rep.Objects.Disposed)+len(rep.Lights.Disposed),
	)
}

func disposeAll[D, H any](name string, mapping map[string]H, c Collaborator[D, H]) error {
	ids := make([]string, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		if err := c.Dispose(mapping[id]); err != nil {
			errs = append(errs, fmt.Errorf("dispose %s %q: %w", name, id, err))
			continue
		}
		delete(mapping, id)
	}
	return errors.Join(errs...)
}

func materialKey(m scene.Material) string { return m.ID }
func objectKey(o scene.Object) string     { return o.ID }
func lightKey(l scene.Light) string       { return l.ID }
