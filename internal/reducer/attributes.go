package reducer

import (
	"slices"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/scene"
)

func (r *Reducer) addMaterial(s *scene.Scene, a action.AddMaterial) *scene.Scene {
	id := r.newID(a.ID)
	if s.HasMaterial(id) {
		return s
	}

	m := a.MaterialPatch.Apply(scene.DefaultMaterial(id))
	m.ID = id
	m.Name = normalizeName(m.Name)

	next := r.derive(s, true)
	next.Materials = append(slices.Clip(s.Materials), m)
	return next
}

func (r *Reducer) updateMaterial(s *scene.Scene, a action.UpdateMaterial) *scene.Scene {
	idx := s.MaterialIndex(a.ID)
	if idx < 0 {
		return s
	}

	m := a.Changes.Apply(s.Materials[idx])
	m.ID = a.ID
	if a.Changes.Name != nil {
		m.Name = normalizeName(m.Name)
	}

	next := r.derive(s, true)
	next.Materials = slices.Clone(s.Materials)
	next.Materials[idx] = m
	return next
}

func (r *Reducer) applyMaterial(s *scene.Scene, a action.ApplyMaterial) *scene.Scene {
	if !s.HasMaterial(a.MaterialID) {
		return s
	}

	var targets []int
	for i := range s.Objects {
		if !slices.Contains(a.ObjectIDs, s.Objects[i].ID) {
			continue
		}
		if cur := s.Objects[i].Material; cur != nil && cur.IsRef() && cur.ID == a.MaterialID {
			continue
		}
		targets = append(targets, i)
	}
	if len(targets) == 0 {
		return s
	}

	next := r.derive(s, true)
	next.Objects = slices.Clone(s.Objects)
	for _, i := range targets {
		next.Objects[i].Material = &scene.MaterialSlot{ID: a.MaterialID}
	}
	return next
}

func (r *Reducer) selectObjects(s *scene.Scene, a action.Select) *scene.Scene {
	var sel []string
	switch a.Mode {
	case action.SelectSet:
		sel = make([]string, 0, len(a.IDs))
		for _, id := range a.IDs {
			if s.HasObject(id) && !slices.Contains(sel, id) {
				sel = append(sel, id)
			}
		}
	case action.SelectAdd:
		sel = slices.Clone(s.Selection)
		for _, id := range a.IDs {
			if s.HasObject(id) && !slices.Contains(sel, id) {
				sel = append(sel, id)
			}
		}
	case action.SelectToggle:
		if len(a.IDs) == 0 || !s.HasObject(a.IDs[0]) {
			return s
		}
		id := a.IDs[0]
		if s.IsSelected(id) {
			sel = slices.DeleteFunc(slices.Clone(s.Selection), func(x string) bool { return x == id })
		} else {
			sel = append(slices.Clone(s.Selection), id)
		}
	default:
		return s
	}

	if sel == nil {
		sel = []string{}
	}
	if slices.Equal(sel, s.Selection) {
		return s
	}

	next := r.derive(s, false)
	next.Selection = sel
	return next
}

func (r *Reducer) clearSelection(s *scene.Scene) *scene.Scene {
	if len(s.Selection) == 0 {
		return s
	}
	next := r.derive(s, false)
	next.Selection = []string{}
	return next
}

func (r *Reducer) updateCamera(s *scene.Scene, a action.UpdateCamera) *scene.Scene {
	cam := a.CameraPatch.Apply(s.Camera)
	if cam == s.Camera {
		return s
	}
	next := r.derive(s, true)
	next.Camera = cam
	return next
}

func (r *Reducer) updateEnvironment(s *scene.Scene, a action.UpdateEnvironment) *scene.Scene {
	if a.EnvironmentPatch.IsEmpty() {
		return s
	}
	next := r.derive(s, true)
	next.Environment = a.EnvironmentPatch.Apply(s.Environment)
	return next
}

func (r *Reducer) addLight(s *scene.Scene, a action.AddLight) *scene.Scene {
	id := r.newID(a.ID)
	if s.LightIndex(id) >= 0 {
		return s
	}

	l := a.LightPatch.Apply(scene.Light{
		ID:        id,
		Name:      "Light_" + id,
		Type:      scene.LightDirectional,
		Color:     "#ffffff",
		Intensity: 1,
	})
	l.ID = id
	l.Name = normalizeName(l.Name)

	next := r.derive(s, true)
	next.Lights = append(slices.Clip(s.Lights), l)
	return next
}

func (r *Reducer) updateLight(s *scene.Scene, a action.UpdateLight) *scene.Scene {
	idx := s.LightIndex(a.ID)
	if idx < 0 {
		return s
	}

	l := a.Changes.Apply(s.Lights[idx])
	l.ID = a.ID
	if a.Changes.Name != nil {
		l.Name = normalizeName(l.Name)
	}

	next := r.derive(s, true)
	next.Lights = slices.Clone(s.Lights)
	next.Lights[idx] = l
	return next
}

func (r *Reducer) removeLight(s *scene.Scene, a action.RemoveLight) *scene.Scene {
	idx := s.LightIndex(a.ID)
	if idx < 0 {
		return s
	}
	next := r.derive(s, true)
	next.Lights = slices.Delete(slices.Clone(s.Lights), idx, idx+1)
	return next
}
