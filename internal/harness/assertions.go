package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/scenekit/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  %s\n", event)
	}
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the engine's final
// state and returns one message per failure.
func EvaluateAssertions(e *engine.Engine, trace []TraceEvent, assertions []Assertion) []string {
	var errors []string
	for i, a := range assertions {
		if err := evaluate(e, a); err != nil {
			err.Trace = trace
			errors = append(errors, fmt.Sprintf("assertion[%d]: %s", i, err.Error()))
		}
	}
	return errors
}

func evaluate(e *engine.Engine, a Assertion) *AssertionError {
	s := e.Scene()
	fail := func(expected, actual string) *AssertionError {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual}
	}

	switch a.Type {
	case AssertObjectCount:
		if got := len(s.Objects); got != *a.Count {
			return fail(fmt.Sprintf("%d objects", *a.Count), fmt.Sprintf("%d objects", got))
		}
	case AssertHistoryLen:
		if got := e.HistoryLen(); got != *a.Count {
			return fail(fmt.Sprintf("%d history entries", *a.Count), fmt.Sprintf("%d history entries", got))
		}
	case AssertSelection:
		if !slices.Equal(s.Selection, a.IDs) && !(len(s.Selection) == 0 && len(a.IDs) == 0) {
			return fail(fmt.Sprintf("selection %v", a.IDs), fmt.Sprintf("selection %v", s.Selection))
		}
	case AssertCanUndo:
		if got := e.CanUndo(); got != *a.Value {
			return fail(fmt.Sprintf("can_undo=%t", *a.Value), fmt.Sprintf("can_undo=%t", got))
		}
	case AssertCanRedo:
		if got := e.CanRedo(); got != *a.Value {
			return fail(fmt.Sprintf("can_redo=%t", *a.Value), fmt.Sprintf("can_redo=%t", got))
		}
	case AssertObjectExists:
		if !s.HasObject(a.ID) {
			return fail(fmt.Sprintf("object %q exists", a.ID), "not found")
		}
	case AssertObjectMissing:
		if s.HasObject(a.ID) {
			return fail(fmt.Sprintf("object %q missing", a.ID), "found")
		}
	case AssertParentOf:
		o := s.Object(a.ID)
		if o == nil {
			return fail(fmt.Sprintf("object %q with parent %q", a.ID, a.Parent), "object not found")
		}
		if o.Parent != a.Parent {
			return fail(fmt.Sprintf("parent %q", a.Parent), fmt.Sprintf("parent %q", o.Parent))
		}
	case AssertChildrenOf:
		o := s.Object(a.ID)
		if o == nil {
			return fail(fmt.Sprintf("object %q with children %v", a.ID, a.IDs), "object not found")
		}
		if !slices.Equal(o.Children, a.IDs) && !(len(o.Children) == 0 && len(a.IDs) == 0) {
			return fail(fmt.Sprintf("children %v", a.IDs), fmt.Sprintf("children %v", o.Children))
		}
	case AssertMaterialOf:
		o := s.Object(a.ID)
		if o == nil {
			return fail(fmt.Sprintf("object %q with material %q", a.ID, a.Material), "object not found")
		}
		got := ""
		if o.Material != nil {
			got = o.Material.ID
			if !o.Material.IsRef() && o.Material.Inline != nil {
				got = "inline"
			}
		}
		if got != a.Material {
			return fail(fmt.Sprintf("material %q", a.Material), fmt.Sprintf("material %q", got))
		}
	default:
		return fail("known assertion type", fmt.Sprintf("unknown assertion type %q", a.Type))
	}
	return nil
}
