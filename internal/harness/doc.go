// Package harness runs scene scenarios against a real engine.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	scene: path/to/start.yaml      # optional, relative to the scenario file
//	remove_policy: cascade         # optional: orphan | cascade | leave
//	steps:
//	  - dispatch:
//	      type: ADD_OBJECT
//	      payload: { id: box, name: Box }
//	  - undo: true
//	  - redo: true
//	assertions:
//	  - type: object_count
//	    count: 1
//	  - type: parent_of
//	    id: box
//	    parent: ""
//
// # Assertion Types
//
//   - object_count, history_len: compare a count
//   - selection: the exact selection, in order
//   - can_undo, can_redo: compare a boolean value
//   - object_exists, object_missing: check an id
//   - parent_of, children_of, material_of: inspect one object
//
// # Deterministic Testing
//
// Every run uses a fresh engine with a sequence id generator ("id-1",
// "id-2", ...) and a clock that advances one millisecond per reading, so
// traces are identical across runs and can be compared with golden files.
//
// A reconcile.Recorder is subscribed to the engine. The trace lists, per
// step, the resources it created and disposed.
package harness
