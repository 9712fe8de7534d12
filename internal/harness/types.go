package harness

import (
	"fmt"
	"strings"
)

// TraceEvent records one step of a run.
type TraceEvent struct {
	Step    int      `json:"step"`           // 1-based; 0 is the initial sync
	Kind    string   `json:"kind"`           // "init", "dispatch", "undo" or "redo"
	Action  string   `json:"action,omitempty"`
	Changed bool     `json:"changed"`
	Objects int      `json:"objects"`
	Ops     []string `json:"ops,omitempty"` // "+kind:id" created, "-kind:id" disposed
	Error   string   `json:"error,omitempty"`
}

// String renders the event as one golden-file line.
func (e TraceEvent) String() string {
	var buf strings.Builder
	if e.Kind == "init" {
		buf.WriteString("init")
	} else {
		fmt.Fprintf(&buf, "step %d %s", e.Step, e.Kind)
	}
	if e.Action != "" {
		buf.WriteString(" " + e.Action)
	}
	if e.Changed {
		buf.WriteString(" changed")
	} else {
		buf.WriteString(" unchanged")
	}
	fmt.Fprintf(&buf, " objects=%d", e.Objects)
	for _, op := range e.Ops {
		buf.WriteString(" " + op)
	}
	if e.Error != "" {
		buf.WriteString(" error=" + e.Error)
	}
	return buf.String()
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Trace has one event for the initial sync and one per step.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion and step failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Fingerprint identifies the final scene.
	Fingerprint string `json:"fingerprint"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
