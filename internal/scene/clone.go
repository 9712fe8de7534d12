package scene

// Clone returns an alias-free copy of s. Every slice, map and pointer reachable
// from the scene is reallocated, so mutating the copy can never be observed
// through s. Clone of nil is nil.
func (s *Scene) Clone() *Scene {
	if s == nil {
		return nil
	}
	out := *s
	out.Objects = cloneSlice(s.Objects, Object.Clone)
	out.Materials = cloneSlice(s.Materials, func(m Material) Material { return m })
	out.Lights = cloneSlice(s.Lights, Light.Clone)
	out.Environment = s.Environment.Clone()
	out.Selection = cloneStrings(s.Selection)
	return &out
}

// Clone returns an alias-free copy of o.
func (o Object) Clone() Object {
	out := o
	if o.Geometry != nil {
		g := *o.Geometry
		out.Geometry = &g
	}
	if o.Material != nil {
		m := o.Material.Clone()
		out.Material = &m
	}
	out.Children = cloneStrings(o.Children)
	if o.UserData != nil {
		out.UserData = make(map[string]string, len(o.UserData))
		for k, v := range o.UserData {
			out.UserData[k] = v
		}
	}
	return out
}

// Clone returns an alias-free copy of m.
func (m MaterialSlot) Clone() MaterialSlot {
	out := m
	if m.Inline != nil {
		inline := *m.Inline
		out.Inline = &inline
	}
	return out
}

// Clone returns an alias-free copy of l.
func (l Light) Clone() Light {
	out := l
	if l.Position != nil {
		p := *l.Position
		out.Position = &p
	}
	if l.Target != nil {
		t := *l.Target
		out.Target = &t
	}
	return out
}

// Clone returns an alias-free copy of e.
func (e Environment) Clone() Environment {
	var out Environment
	if e.Background != nil {
		b := *e.Background
		out.Background = &b
	}
	if e.Fog != nil {
		f := *e.Fog
		out.Fog = &f
	}
	if e.Shadows != nil {
		sh := *e.Shadows
		if e.Shadows.Camera != nil {
			c := *e.Shadows.Camera
			sh.Camera = &c
		}
		out.Shadows = &sh
	}
	return out
}

func cloneSlice[T any](in []T, clone func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
