package reducer

import (
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/scenekit/internal/scene"
)

// ViolationKind categorizes integrity violations.
type ViolationKind string

const (
	ViolationDuplicateID      ViolationKind = "duplicate_id"
	ViolationMissingParent    ViolationKind = "missing_parent"
	ViolationParentMismatch   ViolationKind = "parent_mismatch"
	ViolationMissingChild     ViolationKind = "missing_child"
	ViolationCycle            ViolationKind = "cycle"
	ViolationDanglingMaterial ViolationKind = "dangling_material"
	ViolationStaleSelection   ViolationKind = "stale_selection"
)

// Violation describes one broken scene invariant.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	ID      string        `json:"id"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s [%s]: %s", v.Kind, v.ID, v.Message)
}

// CheckIntegrity audits s and returns every violation found, in a stable
// order. A scene built only through Reduce under RemoveOrphan or
// RemoveCascade is always clean; loaded scenes and RemoveLeave can leave
// dangling links behind.
func CheckIntegrity(s *scene.Scene) []Violation {
	var out []Violation
	add := func(kind ViolationKind, id, format string, args ...any) {
		out = append(out, Violation{Kind: kind, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	checkUnique := func(what string, ids []string) {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				add(ViolationDuplicateID, id, "%s id %q appears more than once", what, id)
			}
			seen[id] = true
		}
	}
	objectIDs := make([]string, len(s.Objects))
	for i, o := range s.Objects {
		objectIDs[i] = o.ID
	}
	materialIDs := make([]string, len(s.Materials))
	for i, m := range s.Materials {
		materialIDs[i] = m.ID
	}
	lightIDs := make([]string, len(s.Lights))
	for i, l := range s.Lights {
		lightIDs[i] = l.ID
	}
	checkUnique("object", objectIDs)
	checkUnique("material", materialIDs)
	checkUnique("light", lightIDs)

	for _, o := range s.Objects {
		if o.Parent != "" {
			p := s.Object(o.Parent)
			switch {
			case p == nil:
				add(ViolationMissingParent, o.ID, "parent %q does not exist", o.Parent)
			case !slices.Contains(p.Children, o.ID):
				add(ViolationParentMismatch, o.ID, "parent %q does not list it as a child", o.Parent)
			}
		}
		for _, c := range o.Children {
			child := s.Object(c)
			switch {
			case child == nil:
				add(ViolationMissingChild, o.ID, "child %q does not exist", c)
			case child.Parent != o.ID:
				add(ViolationParentMismatch, c, "listed under %q but parent is %q", o.ID, child.Parent)
			}
		}
		if o.Parent != "" && IsDescendant(s, o.Parent, o.ID) {
			add(ViolationCycle, o.ID, "object is its own ancestor")
		}
		if o.Material != nil && o.Material.IsRef() && !s.HasMaterial(o.Material.ID) {
			add(ViolationDanglingMaterial, o.ID, "material %q does not exist", o.Material.ID)
		}
	}

	for _, id := range s.Selection {
		if !s.HasObject(id) {
			add(ViolationStaleSelection, id, "selected object does not exist")
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}
