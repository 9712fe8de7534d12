package scene

// ObjectIndex returns the position of the object with the given id, or -1.
func (s *Scene) ObjectIndex(id string) int {
	for i := range s.Objects {
		if s.Objects[i].ID == id {
			return i
		}
	}
	return -1
}

// Object returns a pointer into s.Objects for read access, or nil.
// Callers must not mutate a published scene through it.
func (s *Scene) Object(id string) *Object {
	if i := s.ObjectIndex(id); i >= 0 {
		return &s.Objects[i]
	}
	return nil
}

// HasObject reports whether an object with the given id exists.
func (s *Scene) HasObject(id string) bool {
	return s.ObjectIndex(id) >= 0
}

// MaterialIndex returns the position of the material with the given id, or -1.
func (s *Scene) MaterialIndex(id string) int {
	for i := range s.Materials {
		if s.Materials[i].ID == id {
			return i
		}
	}
	return -1
}

// HasMaterial reports whether Scene.Materials contains id.
func (s *Scene) HasMaterial(id string) bool {
	return s.MaterialIndex(id) >= 0
}

// LightIndex returns the position of the light with the given id, or -1.
func (s *Scene) LightIndex(id string) int {
	for i := range s.Lights {
		if s.Lights[i].ID == id {
			return i
		}
	}
	return -1
}

// IsSelected reports whether id is part of the selection.
func (s *Scene) IsSelected(id string) bool {
	for _, sel := range s.Selection {
		if sel == id {
			return true
		}
	}
	return false
}
