package reducer

import (
	"slices"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/scene"
)

func (r *Reducer) addObject(s *scene.Scene, a action.AddObject) *scene.Scene {
	id := r.newID(a.ID)
	if s.HasObject(id) {
		return s
	}
	// Attaching under a parent that already descends from the new id would
	// close a cycle through adopted forward references.
	if a.Parent != "" && IsDescendant(s, a.Parent, id) {
		return s
	}

	obj := scene.Object{
		ID:        id,
		Name:      "Object_" + id,
		Type:      scene.ObjectMesh,
		Transform: scene.IdentityTransform(),
		Visible:   true,
	}
	obj = a.ObjectPatch.Apply(obj)
	obj.Name = normalizeName(obj.Name)
	obj.Parent = a.Parent

	// Adopt objects created earlier with a forward reference to this id.
	for i := range s.Objects {
		if s.Objects[i].Parent == id {
			obj.Children = append(obj.Children, s.Objects[i].ID)
		}
	}

	next := r.derive(s, true)
	next.Objects = make([]scene.Object, len(s.Objects), len(s.Objects)+1)
	copy(next.Objects, s.Objects)
	if pi := next.ObjectIndex(a.Parent); pi >= 0 {
		next.Objects[pi].Children = appendChild(next.Objects[pi].Children, id)
	}
	next.Objects = append(next.Objects, obj)
	return next
}

func (r *Reducer) updateObject(s *scene.Scene, a action.UpdateObject) *scene.Scene {
	idx := s.ObjectIndex(a.ID)
	if idx < 0 {
		return s
	}

	obj := a.Changes.Apply(s.Objects[idx])
	if a.Changes.Name != nil {
		obj.Name = normalizeName(obj.Name)
	}

	next := r.derive(s, true)
	next.Objects = slices.Clone(s.Objects)
	next.Objects[idx] = obj
	return next
}

func (r *Reducer) removeObject(s *scene.Scene, a action.RemoveObject) *scene.Scene {
	idx := s.ObjectIndex(a.ID)
	if idx < 0 {
		return s
	}

	removed := map[string]bool{a.ID: true}
	if r.policy == RemoveCascade {
		removed = subtree(s, a.ID)
	}
	repair := r.policy != RemoveLeave

	next := r.derive(s, true)
	next.Objects = make([]scene.Object, 0, len(s.Objects)-len(removed))
	for _, o := range s.Objects {
		if removed[o.ID] {
			continue
		}
		if repair {
			if removed[o.Parent] {
				o.Parent = ""
			}
			if slices.ContainsFunc(o.Children, func(c string) bool { return removed[c] }) {
				o.Children = slices.DeleteFunc(slices.Clone(o.Children), func(c string) bool { return removed[c] })
			}
		}
		next.Objects = append(next.Objects, o)
	}

	if slices.ContainsFunc(s.Selection, func(id string) bool { return removed[id] }) {
		next.Selection = slices.DeleteFunc(slices.Clone(s.Selection), func(id string) bool { return removed[id] })
	}
	return next
}

func (r *Reducer) duplicateObject(s *scene.Scene, a action.DuplicateObject) *scene.Scene {
	idx := s.ObjectIndex(a.ID)
	if idx < 0 {
		return s
	}

	id := a.NewID
	if id == "" {
		id = r.ids.Generate()
	}
	if s.HasObject(id) {
		return s
	}

	dup := s.Objects[idx].Clone()
	dup.ID = id
	dup.Name = dup.Name + "_Copy"
	dup.Transform.Position = dup.Transform.Position.Add(scene.V3(1, 1, 1))
	dup.Children = nil

	next := r.derive(s, true)
	next.Objects = make([]scene.Object, len(s.Objects), len(s.Objects)+1)
	copy(next.Objects, s.Objects)
	if pi := next.ObjectIndex(dup.Parent); pi >= 0 {
		next.Objects[pi].Children = appendChild(next.Objects[pi].Children, id)
	}
	next.Objects = append(next.Objects, dup)
	return next
}

func (r *Reducer) moveObject(s *scene.Scene, a action.MoveObject) *scene.Scene {
	idx := s.ObjectIndex(a.ID)
	if idx < 0 {
		return s
	}
	if a.ParentID != "" {
		if !s.HasObject(a.ParentID) {
			return s
		}
		if IsDescendant(s, a.ParentID, a.ID) {
			return s
		}
	}

	oldParent := s.Objects[idx].Parent
	if oldParent == "" && a.ParentID == "" {
		return s
	}

	next := r.derive(s, true)
	next.Objects = slices.Clone(s.Objects)

	if pi := next.ObjectIndex(oldParent); pi >= 0 {
		next.Objects[pi].Children = removeChild(next.Objects[pi].Children, a.ID)
	}
	next.Objects[idx].Parent = a.ParentID
	if pi := next.ObjectIndex(a.ParentID); pi >= 0 {
		next.Objects[pi].Children = insertChild(next.Objects[pi].Children, a.ID, a.Index)
	}

	if oldParent == a.ParentID {
		pi := s.ObjectIndex(oldParent)
		if pi >= 0 && slices.Equal(s.Objects[pi].Children, next.Objects[pi].Children) {
			return s
		}
	}
	return next
}

// reorderChildren puts the requested ids first, keeping only ids already
// among the parent's children and the first occurrence of each. Children the
// request leaves out are appended in their existing order rather than
// dropped: dropping them would leave objects whose parent no longer lists
// them.
func (r *Reducer) reorderChildren(s *scene.Scene, a action.ReorderChildren) *scene.Scene {
	pi := s.ObjectIndex(a.ParentID)
	if pi < 0 {
		return s
	}

	current := s.Objects[pi].Children
	order := make([]string, 0, len(current))
	seen := make(map[string]bool, len(current))
	for _, id := range a.ChildIDs {
		if seen[id] || !slices.Contains(current, id) {
			continue
		}
		seen[id] = true
		order = append(order, id)
	}
	for _, id := range current {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}

	if slices.Equal(order, current) {
		return s
	}

	next := r.derive(s, true)
	next.Objects = slices.Clone(s.Objects)
	next.Objects[pi].Children = order
	return next
}

// subtree returns the ids of root and every object below it, following both
// children lists and parent pointers so inconsistent links are still caught.
func subtree(s *scene.Scene, root string) map[string]bool {
	out := map[string]bool{root: true}
	for changed := true; changed; {
		changed = false
		for _, o := range s.Objects {
			if out[o.ID] {
				for _, c := range o.Children {
					if !out[c] {
						out[c] = true
						changed = true
					}
				}
				continue
			}
			if o.Parent != "" && out[o.Parent] {
				out[o.ID] = true
				changed = true
			}
		}
	}
	return out
}

// appendChild returns a new slice with id appended unless already present.
func appendChild(children []string, id string) []string {
	if slices.Contains(children, id) {
		return children
	}
	out := make([]string, len(children), len(children)+1)
	copy(out, children)
	return append(out, id)
}

// removeChild returns children without id, reallocating only on change.
func removeChild(children []string, id string) []string {
	if !slices.Contains(children, id) {
		return children
	}
	return slices.DeleteFunc(slices.Clone(children), func(c string) bool { return c == id })
}

// insertChild returns a new slice with id placed at *index when the index
// is within [0, len(children)], appended otherwise.
func insertChild(children []string, id string, index *int) []string {
	base := removeChild(children, id)
	out := make([]string, 0, len(base)+1)
	if index == nil || *index < 0 || *index > len(base) {
		out = append(out, base...)
		return append(out, id)
	}
	out = append(out, base[:*index]...)
	out = append(out, id)
	return append(out, base[*index:]...)
}
