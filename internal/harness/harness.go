package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/scenekit/internal/engine"
	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/reconcile"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
	"github.com/roach88/scenekit/internal/testutil"
)

// Harness drives one scenario.
type Harness struct {
	engine   *engine.Engine
	recorder *reconcile.Recorder
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load the starting scene (or build a default one)
//  2. Create an engine with deterministic ids and clock
//  3. Subscribe a reconciler writing into a Recorder
//  4. Run the steps, tracing each one
//  5. Evaluate the assertions against the final engine state
//
// Step failures (rejected dispatches) are recorded in the trace and the
// result; only setup problems are returned as errors.
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Trace = append(result.Trace, TraceEvent{
		Kind:    "init",
		Changed: true,
		Objects: len(h.engine.Scene().Objects),
		Ops:     h.drainOps(),
	})

	for i, step := range scenario.Steps {
		ev := h.runStep(i+1, step)
		if ev.Error != "" {
			result.AddError(fmt.Sprintf("steps[%d]: %s", i, ev.Error))
		}
		result.Trace = append(result.Trace, ev)
	}

	for _, msg := range EvaluateAssertions(h.engine, result.Trace, scenario.Assertions) {
		result.AddError(msg)
	}

	fp, err := h.engine.Scene().Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprint final scene: %w", err)
	}
	result.Fingerprint = fp
	return result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := []engine.Option{
		engine.WithClock(testutil.NewStepClock()),
		engine.WithIDGenerator(testutil.NewSequenceGenerator("id")),
		engine.WithLogger(logger),
	}
	if scenario.RemovePolicy != "" {
		p, err := reducer.ParseRemovePolicy(scenario.RemovePolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithRemovePolicy(p))
	}
	if path := scenario.ScenePath(); path != "" {
		s, err := loader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
		opts = append(opts, engine.WithInitialScene(s))
	}

	h := &Harness{
		engine:   engine.New(opts...),
		recorder: reconcile.NewRecorder(),
		logger:   logger,
	}

	r := reconcile.New(h.recorder.Target(), reconcile.WithLogger(logger))
	sync := func(s *scene.Scene) {
		if err := r.Sync(s).Err(); err != nil {
			h.logger.Warn("sync failed", "scene", s.ID, "error", err)
		}
	}
	sync(h.engine.Scene())
	h.engine.Subscribe(sync)
	return h, nil
}

func (h *Harness) runStep(n int, step Step) TraceEvent {
	ev := TraceEvent{Step: n, Kind: step.Kind()}
	before := h.engine.Scene()

	switch {
	case step.Dispatch != nil:
		ev.Action = step.Dispatch.Type
		a, err := step.Dispatch.Action()
		if err == nil {
			err = h.engine.Dispatch(a)
		}
		if err != nil {
			ev.Error = err.Error()
		}
		ev.Changed = h.engine.Scene() != before
	case step.Undo:
		ev.Changed = h.engine.Undo()
	case step.Redo:
		ev.Changed = h.engine.Redo()
	}

	ev.Objects = len(h.engine.Scene().Objects)
	ev.Ops = h.drainOps()
	h.logger.Info("step completed", "step", n, "kind", ev.Kind, "changed", ev.Changed)
	return ev
}

// drainOps keeps the structural recorder lines: creations and disposals.
func (h *Harness) drainOps() []string {
	var ops []string
	for _, line := range h.recorder.Drain() {
		op, rest, _ := strings.Cut(line, " ")
		kind, id, _ := strings.Cut(rest, " ")
		switch op {
		case "create":
			ops = append(ops, "+"+kind+":"+id)
		case "dispose":
			ops = append(ops, "-"+kind+":"+id)
		}
	}
	return ops
}
