package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/reducer"
)

// Scenario defines a scripted editing session and the state it must end in.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Scene is an optional starting scene file (.json, .yaml or .cue).
	// Relative paths resolve against the scenario file's directory.
	Scene string `yaml:"scene,omitempty"`

	// RemovePolicy selects the REMOVE_OBJECT policy. Empty means orphan.
	RemovePolicy string `yaml:"remove_policy,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`

	baseDir string
}

// Step is one of dispatch, undo or redo.
type Step struct {
	Dispatch *DispatchStep `yaml:"dispatch,omitempty"`
	Undo     bool          `yaml:"undo,omitempty"`
	Redo     bool          `yaml:"redo,omitempty"`
}

// Kind names the step for traces.
func (s Step) Kind() string {
	switch {
	case s.Dispatch != nil:
		return "dispatch"
	case s.Undo:
		return "undo"
	case s.Redo:
		return "redo"
	default:
		return ""
	}
}

// DispatchStep is an action in envelope form. Payload uses the same field
// names as the JSON wire format.
type DispatchStep struct {
	Type    string         `yaml:"type" json:"type"`
	Payload map[string]any `yaml:"payload,omitempty" json:"payload,omitempty"`
}

// Action decodes the step into an action.
func (d DispatchStep) Action() (action.Action, error) {
	env := action.Envelope{Type: action.Type(d.Type)}
	if d.Payload != nil {
		raw, err := json.Marshal(d.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		env.Payload = raw
	}
	return action.FromEnvelope(env)
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type (see the Assert* constants).
	Type string `yaml:"type"`

	// ID is the object under test (object_exists, object_missing,
	// parent_of, children_of, material_of).
	ID string `yaml:"id,omitempty"`

	// Count is the expected number (object_count, history_len).
	Count *int `yaml:"count,omitempty"`

	// Value is the expected boolean (can_undo, can_redo).
	Value *bool `yaml:"value,omitempty"`

	// IDs is the expected selection (selection) or child order (children_of).
	IDs []string `yaml:"ids,omitempty"`

	// Parent is the expected parent id (parent_of); empty means root.
	Parent string `yaml:"parent,omitempty"`

	// Material is the expected material reference (material_of); empty
	// means no material.
	Material string `yaml:"material,omitempty"`
}

// Assertion type constants.
const (
	AssertObjectCount   = "object_count"
	AssertSelection     = "selection"
	AssertCanUndo       = "can_undo"
	AssertCanRedo       = "can_redo"
	AssertHistoryLen    = "history_len"
	AssertObjectExists  = "object_exists"
	AssertObjectMissing = "object_missing"
	AssertParentOf      = "parent_of"
	AssertChildrenOf    = "children_of"
	AssertMaterialOf    = "material_of"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.baseDir = filepath.Dir(path)
	return scenario, nil
}

// ParseScenario parses scenario YAML. A relative scene path resolves
// against the working directory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ScenePath returns the starting scene path resolved against the scenario
// file, or "" when the scenario starts from a default scene.
func (s *Scenario) ScenePath() string {
	if s.Scene == "" || filepath.IsAbs(s.Scene) || s.baseDir == "" {
		return s.Scene
	}
	return filepath.Join(s.baseDir, s.Scene)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	if s.RemovePolicy != "" {
		if _, err := reducer.ParseRemovePolicy(s.RemovePolicy); err != nil {
			return err
		}
	}

	for i, step := range s.Steps {
		set := 0
		if step.Dispatch != nil {
			set++
			if step.Dispatch.Type == "" {
				return fmt.Errorf("steps[%d].dispatch: type is required", i)
			}
			if _, err := step.Dispatch.Action(); err != nil {
				return fmt.Errorf("steps[%d].dispatch: %w", i, err)
			}
		}
		if step.Undo {
			set++
		}
		if step.Redo {
			set++
		}
		if set != 1 {
			return fmt.Errorf("steps[%d]: exactly one of dispatch, undo, redo is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertObjectCount, AssertHistoryLen:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertCanUndo, AssertCanRedo:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertSelection:
	case AssertObjectExists, AssertObjectMissing, AssertParentOf, AssertChildrenOf, AssertMaterialOf:
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("assertions[%d]: id is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
