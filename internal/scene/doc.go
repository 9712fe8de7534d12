// Package scene defines the declarative scene document edited by scenekit.
//
// This package contains data types and pure helpers only. Every other
// internal package imports scene; scene imports nothing internal. This keeps
// the document model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - A published *Scene is never mutated. Producers copy what they change
//     (copy-on-write); untouched substructures may be shared between versions.
//   - Clone is an explicit field-by-field copy over the Scene's own schema,
//     never a reflection-based deep copy.
//   - All JSON tags use snake_case.
//   - Timestamps in Metadata are Unix milliseconds.
package scene
