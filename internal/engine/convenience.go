package engine

import (
	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/scene"
)

// AddObject dispatches ADD_OBJECT and returns the object's id, generating
// one when a.ID is empty.
func (e *Engine) AddObject(a action.AddObject) (string, error) {
	if a.ID == "" {
		a.ID = e.ids.Generate()
	}
	return a.ID, e.Dispatch(a)
}

// UpdateObject dispatches UPDATE_OBJECT.
func (e *Engine) UpdateObject(id string, changes action.ObjectPatch) error {
	return e.Dispatch(action.UpdateObject{ID: id, Changes: changes})
}

// RemoveObject dispatches REMOVE_OBJECT.
func (e *Engine) RemoveObject(id string) error {
	return e.Dispatch(action.RemoveObject{ID: id})
}

// DuplicateObject dispatches DUPLICATE_OBJECT and returns the id of the
// copy, or "" when the source does not exist.
func (e *Engine) DuplicateObject(id string) (string, error) {
	if !e.Scene().HasObject(id) {
		return "", nil
	}
	newID := e.ids.Generate()
	if err := e.Dispatch(action.DuplicateObject{ID: id, NewID: newID}); err != nil {
		return "", err
	}
	if !e.Scene().HasObject(newID) {
		return "", nil
	}
	return newID, nil
}

// MoveObject dispatches MOVE_OBJECT. An empty parentID moves to the root;
// a nil index appends.
func (e *Engine) MoveObject(id, parentID string, index *int) error {
	return e.Dispatch(action.MoveObject{ID: id, ParentID: parentID, Index: index})
}

// ReorderChildren dispatches REORDER_CHILDREN.
func (e *Engine) ReorderChildren(parentID string, childIDs []string) error {
	return e.Dispatch(action.ReorderChildren{ParentID: parentID, ChildIDs: childIDs})
}

// SelectObjects dispatches SELECT.
func (e *Engine) SelectObjects(ids []string, mode action.SelectMode) error {
	return e.Dispatch(action.Select{IDs: ids, Mode: mode})
}

// ClearSelection dispatches CLEAR_SELECTION.
func (e *Engine) ClearSelection() error {
	return e.Dispatch(action.ClearSelection{})
}

// AddMaterial dispatches ADD_MATERIAL and returns the material's id.
func (e *Engine) AddMaterial(a action.AddMaterial) (string, error) {
	if a.ID == "" {
		a.ID = e.ids.Generate()
	}
	return a.ID, e.Dispatch(a)
}

// UpdateMaterial dispatches UPDATE_MATERIAL.
func (e *Engine) UpdateMaterial(id string, changes action.MaterialPatch) error {
	return e.Dispatch(action.UpdateMaterial{ID: id, Changes: changes})
}

// ApplyMaterial dispatches APPLY_MATERIAL.
func (e *Engine) ApplyMaterial(objectIDs []string, materialID string) error {
	return e.Dispatch(action.ApplyMaterial{ObjectIDs: objectIDs, MaterialID: materialID})
}

// UpdateEnvironment dispatches UPDATE_ENVIRONMENT.
func (e *Engine) UpdateEnvironment(p action.EnvironmentPatch) error {
	return e.Dispatch(action.UpdateEnvironment{EnvironmentPatch: p})
}

// UpdateCamera dispatches UPDATE_CAMERA.
func (e *Engine) UpdateCamera(p action.CameraPatch) error {
	return e.Dispatch(action.UpdateCamera{CameraPatch: p})
}

// AddLight dispatches ADD_LIGHT and returns the light's id.
func (e *Engine) AddLight(a action.AddLight) (string, error) {
	if a.ID == "" {
		a.ID = e.ids.Generate()
	}
	return a.ID, e.Dispatch(a)
}

// UpdateLight dispatches UPDATE_LIGHT.
func (e *Engine) UpdateLight(id string, changes action.LightPatch) error {
	return e.Dispatch(action.UpdateLight{ID: id, Changes: changes})
}

// RemoveLight dispatches REMOVE_LIGHT.
func (e *Engine) RemoveLight(id string) error {
	return e.Dispatch(action.RemoveLight{ID: id})
}

// Reset dispatches RESET_SCENE.
func (e *Engine) Reset() error {
	return e.Dispatch(action.ResetScene{})
}

// Object returns a copy of the object with id.
func (e *Engine) Object(id string) (scene.Object, bool) {
	o := e.Scene().Object(id)
	if o == nil {
		return scene.Object{}, false
	}
	return o.Clone(), true
}

// SelectedObjects returns copies of the selected objects in selection order.
// Stale selection entries are skipped.
func (e *Engine) SelectedObjects() []scene.Object {
	s := e.Scene()
	out := make([]scene.Object, 0, len(s.Selection))
	for _, id := range s.Selection {
		if o := s.Object(id); o != nil {
			out = append(out, o.Clone())
		}
	}
	return out
}

// FindObjects returns copies of the objects matching pred in scene order.
func (e *Engine) FindObjects(pred func(scene.Object) bool) []scene.Object {
	var out []scene.Object
	for _, o := range e.Scene().Objects {
		if pred(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

// Children returns copies of id's children in child order.
func (e *Engine) Children(id string) []scene.Object {
	s := e.Scene()
	p := s.Object(id)
	if p == nil {
		return nil
	}
	out := make([]scene.Object, 0, len(p.Children))
	for _, c := range p.Children {
		if o := s.Object(c); o != nil {
			out = append(out, o.Clone())
		}
	}
	return out
}

// Parent returns a copy of id's parent, if it has one that exists.
func (e *Engine) Parent(id string) (scene.Object, bool) {
	s := e.Scene()
	o := s.Object(id)
	if o == nil || o.Parent == "" {
		return scene.Object{}, false
	}
	p := s.Object(o.Parent)
	if p == nil {
		return scene.Object{}, false
	}
	return p.Clone(), true
}
