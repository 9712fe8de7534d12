package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/roach88/scenekit/internal/scene"
)

// ErrInjected is returned by Recorder operations registered with FailOn.
var ErrInjected = errors.New("injected failure")

// ErrUnresolvedMaterial is returned when an object references a material
// the recorder has not created yet.
var ErrUnresolvedMaterial = errors.New("unresolved material reference")

// Recorder is an in-memory collaborator that writes one line per operation:
//
//	create material default
//	update object obj-1
//	dispose light l1
//	camera
//	environment
//
// Handles are "<kind>/<id>" strings. Object operations check that every
// referenced material is live, which makes ordering mistakes visible.
//
// Thread-safety: Recorder is safe for concurrent use via internal mutex.
type Recorder struct {
	mu    sync.Mutex
	lines []string
	live  map[string]bool
	fail  map[string]bool
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{live: make(map[string]bool), fail: make(map[string]bool)}
}

// Target returns a Target whose collaborators all record into r.
func (r *Recorder) Target() Target[string, string, string] {
	return Target[string, string, string]{
		Materials: recorded[scene.Material]{r: r, kind: "material", key: materialKey},
		Objects:   recorded[scene.Object]{r: r, kind: "object", key: objectKey, check: r.checkMaterial},
		Lights:    recorded[scene.Light]{r: r, kind: "light", key: lightKey},
		Camera: func(scene.Camera) error {
			r.record("camera")
			return nil
		},
		Environment: func(scene.Environment) error {
			r.record("environment")
			return nil
		},
	}
}

// FailOn makes the next op ("create", "update" or "dispose") on kind/id fail
// with ErrInjected. The failure fires once.
func (r *Recorder) FailOn(op, kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[op+" "+kind+" "+id] = true
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Drain returns the recorded lines and clears them.
func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.lines
	r.lines = nil
	return out
}

// Live reports whether handle is currently created and not disposed.
func (r *Recorder) Live(handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live[handle]
}

func (r *Recorder) record(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

// op records "op kind id" unless a failure was injected for it.
func (r *Recorder) op(op, kind, id string) error {
	line := op + " " + kind + " " + id
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[line] {
		delete(r.fail, line)
		r.lines = append(r.lines, line+" (failed)")
		return ErrInjected
	}
	r.lines = append(r.lines, line)
	return nil
}

func (r *Recorder) setLive(handle string, live bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if live {
		r.live[handle] = true
	} else {
		delete(r.live, handle)
	}
}

func (r *Recorder) checkMaterial(o scene.Object) error {
	if o.Material == nil || !o.Material.IsRef() {
		return nil
	}
	if !r.Live("material/" + o.Material.ID) {
		return fmt.Errorf("object %q: %w %q", o.ID, ErrUnresolvedMaterial, o.Material.ID)
	}
	return nil
}

type recorded[D any] struct {
	r     *Recorder
	kind  string
	key   func(D) string
	check func(D) error
}

func (c recorded[D]) Create(desc D) (string, error) {
	id := c.key(desc)
	if c.check != nil {
		if err := c.check(desc); err != nil {
			return "", err
		}
	}
	if err := c.r.op("create", c.kind, id); err != nil {
		return "", err
	}
	h := c.kind + "/" + id
	c.r.setLive(h, true)
	return h, nil
}

func (c recorded[D]) Update(handle string, desc D) error {
	if c.check != nil {
		if err := c.check(desc); err != nil {
			return err
		}
	}
	return c.r.op("update", c.kind, c.key(desc))
}

func (c recorded[D]) Dispose(handle string) error {
	kind, id, _ := strings.Cut(handle, "/")
	if err := c.r.op("dispose", kind, id); err != nil {
		return err
	}
	c.r.setLive(handle, false)
	return nil
}
