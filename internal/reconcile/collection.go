package reconcile

import (
	"errors"
	"fmt"
	"sort"
)

// Collaborator creates, updates and disposes external handles for one kind
// of descriptor.
type Collaborator[D, H any] interface {
	Create(desc D) (H, error)
	Update(handle H, desc D) error
	Dispose(handle H) error
}

// Report lists what one Collection pass did, by id.
type Report struct {
	Collection string
	Created    []string
	Updated    []string
	Disposed   []string
	// Skipped holds ids that appeared more than once in the collection;
	// only the first occurrence is reconciled.
	Skipped []string
	// Err joins every collaborator error of the pass.
	Err error
}

// Changed reports whether the pass created or disposed anything.
func (r Report) Changed() bool {
	return len(r.Created) > 0 || len(r.Disposed) > 0
}

// Collection reconciles items against mapping, which it updates in place.
//
// Disposals run first, in id order, so the result does not depend on map
// iteration. Creates and updates then follow collection order. A failed
// Create leaves the id out of the mapping and a failed Dispose leaves it in,
// so the next pass retries either. Errors never abort the pass.
func Collection[D, H any](name string, mapping map[string]H, items []D, key func(D) string, c Collaborator[D, H]) Report {
	rep := Report{Collection: name}
	var errs []error

	present := make(map[string]bool, len(items))
	for _, item := range items {
		present[key(item)] = true
	}

	var gone []string
	for id := range mapping {
		if !present[id] {
			gone = append(gone, id)
		}
	}
	sort.Strings(gone)
	for _, id := range gone {
		if err := c.Dispose(mapping[id]); err != nil {
			errs = append(errs, fmt.Errorf("dispose %s %q: %w", name, id, err))
			continue
		}
		delete(mapping, id)
		rep.Disposed = append(rep.Disposed, id)
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := key(item)
		if seen[id] {
			rep.Skipped = append(rep.Skipped, id)
			continue
		}
		seen[id] = true

		if h, ok := mapping[id]; ok {
			if err := c.Update(h, item); err != nil {
				errs = append(errs, fmt.Errorf("update %s %q: %w", name, id, err))
				continue
			}
			rep.Updated = append(rep.Updated, id)
			continue
		}

		h, err := c.Create(item)
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s %q: %w", name, id, err))
			continue
		}
		mapping[id] = h
		rep.Created = append(rep.Created, id)
	}

	rep.Err = errors.Join(errs...)
	return rep
}

// Funcs adapts three functions to a Collaborator. Nil functions are no-ops;
// a nil CreateFunc yields the zero handle.
type Funcs[D, H any] struct {
	CreateFunc  func(D) (H, error)
	UpdateFunc  func(H, D) error
	DisposeFunc func(H) error
}

// Create calls CreateFunc.
func (f Funcs[D, H]) Create(desc D) (H, error) {
	if f.CreateFunc == nil {
		var zero H
		return zero, nil
	}
	return f.CreateFunc(desc)
}

// Update calls UpdateFunc.
func (f Funcs[D, H]) Update(handle H, desc D) error {
	if f.UpdateFunc == nil {
		return nil
	}
	return f.UpdateFunc(handle, desc)
}

// Dispose calls DisposeFunc.
func (f Funcs[D, H]) Dispose(handle H) error {
	if f.DisposeFunc == nil {
		return nil
	}
	return f.DisposeFunc(handle)
}
