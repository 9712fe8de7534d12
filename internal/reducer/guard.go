package reducer

import "github.com/roach88/scenekit/internal/scene"

// IsDescendant reports whether candidate lies in the subtree rooted at node,
// node itself included. MoveObject calls it with (newParent, moving) before
// touching anything: a true result means the move would close a cycle.
//
// The walk follows parent pointers upward from candidate, so it costs
// O(depth). It is bounded by the object count, which keeps it finite even on
// a loaded scene that is already cyclic.
func IsDescendant(s *scene.Scene, candidate, node string) bool {
	cur := candidate
	for steps := 0; steps <= len(s.Objects); steps++ {
		if cur == node {
			return true
		}
		o := s.Object(cur)
		if o == nil || o.Parent == "" {
			return false
		}
		cur = o.Parent
	}
	return false
}

// IsDescendantByChildren answers the same question as IsDescendant by
// walking children lists downward from node. It visits each object at most
// once.
func IsDescendantByChildren(s *scene.Scene, candidate, node string) bool {
	if candidate == node {
		return true
	}
	seen := map[string]bool{node: true}
	stack := []string{node}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		o := s.Object(id)
		if o == nil {
			continue
		}
		for _, c := range o.Children {
			if c == candidate {
				return true
			}
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	return false
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at
// a root, a missing parent or a repeated id.
func Ancestors(s *scene.Scene, id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	o := s.Object(id)
	for o != nil && o.Parent != "" && !seen[o.Parent] {
		out = append(out, o.Parent)
		seen[o.Parent] = true
		o = s.Object(o.Parent)
	}
	return out
}
