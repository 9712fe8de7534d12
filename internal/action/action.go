package action

import (
	"encoding/json"

	"github.com/roach88/scenekit/internal/scene"
)

// Type is the wire name of an action family.
type Type string

const (
	TypeAddObject         Type = "ADD_OBJECT"
	TypeUpdateObject      Type = "UPDATE_OBJECT"
	TypeRemoveObject      Type = "REMOVE_OBJECT"
	TypeDuplicateObject   Type = "DUPLICATE_OBJECT"
	TypeMoveObject        Type = "MOVE_OBJECT"
	TypeReorderChildren   Type = "REORDER_CHILDREN"
	TypeAddMaterial       Type = "ADD_MATERIAL"
	TypeUpdateMaterial    Type = "UPDATE_MATERIAL"
	TypeApplyMaterial     Type = "APPLY_MATERIAL"
	TypeSelect            Type = "SELECT"
	TypeClearSelection    Type = "CLEAR_SELECTION"
	TypeUpdateCamera      Type = "UPDATE_CAMERA"
	TypeUpdateEnvironment Type = "UPDATE_ENVIRONMENT"
	TypeAddLight          Type = "ADD_LIGHT"
	TypeUpdateLight       Type = "UPDATE_LIGHT"
	TypeRemoveLight       Type = "REMOVE_LIGHT"
	TypeBatch             Type = "BATCH"
	TypeResetScene        Type = "RESET_SCENE"
	TypeLoadScene         Type = "LOAD_SCENE"
)

// Action is the sealed sum type of all scene actions.
type Action interface {
	// Kind returns the wire name of the action.
	Kind() Type
	sealed()
}

// SelectMode controls how SELECT combines ids with the current selection.
type SelectMode string

const (
	SelectSet    SelectMode = "set"
	SelectAdd    SelectMode = "add"
	SelectToggle SelectMode = "toggle"
)

// AddObject appends a new object. An empty ID is filled by the reducer.
type AddObject struct {
	ID     string `json:"id,omitempty"`
	Parent string `json:"parent,omitempty"`
	ObjectPatch
}

// UpdateObject shallow-merges Changes onto the object with ID.
type UpdateObject struct {
	ID      string      `json:"id"`
	Changes ObjectPatch `json:"changes"`
}

// RemoveObject deletes the object with ID and prunes it from the selection.
type RemoveObject struct {
	ID string `json:"id"`
}

// DuplicateObject clones the object with ID. The copy takes NewID, or a
// fresh id filled by the reducer when NewID is empty.
type DuplicateObject struct {
	ID    string `json:"id"`
	NewID string `json:"new_id,omitempty"`
}

// MoveObject reparents ID under ParentID (empty means root). Index, when
// set and within [0, len(children)], is the insertion point; otherwise the
// object is appended.
type MoveObject struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Index    *int   `json:"index,omitempty"`
}

// ReorderChildren replaces the child order of ParentID. Ids that are not
// already children of ParentID are ignored, and children missing from
// ChildIDs keep their relative order after the listed ones.
type ReorderChildren struct {
	ParentID string   `json:"parent_id"`
	ChildIDs []string `json:"child_ids"`
}

// AddMaterial appends a material definition. An empty ID is filled by the reducer.
type AddMaterial struct {
	ID string `json:"id,omitempty"`
	MaterialPatch
}

// UpdateMaterial shallow-merges Changes onto the material with ID.
type UpdateMaterial struct {
	ID      string        `json:"id"`
	Changes MaterialPatch `json:"changes"`
}

// ApplyMaterial points every listed object at MaterialID.
type ApplyMaterial struct {
	ObjectIDs  []string `json:"object_ids"`
	MaterialID string   `json:"material_id"`
}

// Select changes the selection according to Mode.
type Select struct {
	IDs  []string   `json:"ids"`
	Mode SelectMode `json:"mode"`
}

// ClearSelection empties the selection.
type ClearSelection struct{}

// UpdateCamera shallow-merges the patch onto the camera.
type UpdateCamera struct {
	CameraPatch
}

// UpdateEnvironment shallow-merges the patch onto the environment.
type UpdateEnvironment struct {
	EnvironmentPatch
}

// AddLight appends a light. An empty ID is filled by the reducer.
type AddLight struct {
	ID string `json:"id,omitempty"`
	LightPatch
}

// UpdateLight shallow-merges Changes onto the light with ID.
type UpdateLight struct {
	ID      string     `json:"id"`
	Changes LightPatch `json:"changes"`
}

// RemoveLight deletes the light with ID.
type RemoveLight struct {
	ID string `json:"id"`
}

// Batch applies Actions in order as a single transition.
type Batch struct {
	Actions []Action `json:"-"`
}

// ResetScene replaces the document with a fresh default scene.
type ResetScene struct{}

// LoadScene replaces the document wholesale.
type LoadScene struct {
	Scene *scene.Scene `json:"-"`
}

// Unknown is an action whose type this build does not recognise.
// The reducer treats it as a no-op.
type Unknown struct {
	Type    Type
	Payload json.RawMessage
}

func (AddObject) Kind() Type         { return TypeAddObject }
func (UpdateObject) Kind() Type      { return TypeUpdateObject }
func (RemoveObject) Kind() Type      { return TypeRemoveObject }
func (DuplicateObject) Kind() Type   { return TypeDuplicateObject }
func (MoveObject) Kind() Type        { return TypeMoveObject }
func (ReorderChildren) Kind() Type   { return TypeReorderChildren }
func (AddMaterial) Kind() Type       { return TypeAddMaterial }
func (UpdateMaterial) Kind() Type    { return TypeUpdateMaterial }
func (ApplyMaterial) Kind() Type     { return TypeApplyMaterial }
func (Select) Kind() Type            { return TypeSelect }
func (ClearSelection) Kind() Type    { return TypeClearSelection }
func (UpdateCamera) Kind() Type      { return TypeUpdateCamera }
func (UpdateEnvironment) Kind() Type { return TypeUpdateEnvironment }
func (AddLight) Kind() Type          { return TypeAddLight }
func (UpdateLight) Kind() Type       { return TypeUpdateLight }
func (RemoveLight) Kind() Type       { return TypeRemoveLight }
func (Batch) Kind() Type             { return TypeBatch }
func (ResetScene) Kind() Type        { return TypeResetScene }
func (LoadScene) Kind() Type         { return TypeLoadScene }
func (u Unknown) Kind() Type         { return u.Type }

func (AddObject) sealed()         {}
func (UpdateObject) sealed()      {}
func (RemoveObject) sealed()      {}
func (DuplicateObject) sealed()   {}
func (MoveObject) sealed()        {}
func (ReorderChildren) sealed()   {}
func (AddMaterial) sealed()       {}
func (UpdateMaterial) sealed()    {}
func (ApplyMaterial) sealed()     {}
func (Select) sealed()            {}
func (ClearSelection) sealed()    {}
func (UpdateCamera) sealed()      {}
func (UpdateEnvironment) sealed() {}
func (AddLight) sealed()          {}
func (UpdateLight) sealed()       {}
func (RemoveLight) sealed()       {}
func (Batch) sealed()             {}
func (ResetScene) sealed()        {}
func (LoadScene) sealed()         {}
func (Unknown) sealed()           {}

// Index returns a pointer to i, for MoveObject.Index literals.
func Index(i int) *int {
	return &i
}
