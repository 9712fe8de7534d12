package cli

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/scene"
)

// Changes lists ids added, removed and changed within one collection.
type Changes struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// DiffResult compares two scenes.
type DiffResult struct {
	Same        bool    `json:"same"`
	Objects     Changes `json:"objects"`
	Materials   Changes `json:"materials"`
	Lights      Changes `json:"lights"`
	Camera      bool    `json:"camera_changed"`
	Environment bool    `json:"environment_changed"`
	Selection   bool    `json:"selection_changed"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <scene-a> <scene-b>",
		Short: "Compare two scene files",
		Long: `Compare two scene files by content. Objects, materials and lights are
matched by id; metadata timestamps are ignored.

Exit codes:
  0 - Scenes are equivalent
  1 - Scenes differ
  2 - Command error`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runDiff(opts *RootOptions, pathA, pathB string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	a, err := loader.LoadFile(pathA)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoad, err.Error(), nil)
	}
	b, err := loader.LoadFile(pathB)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoad, err.Error(), nil)
	}

	d, err := Diff(a, b)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if err := f.Success(d, func(w io.Writer) {
		if d.Same {
			fmt.Fprintln(w, "Scenes are equivalent")
			return
		}
		writeChanges(w, "object", d.Objects)
		writeChanges(w, "material", d.Materials)
		writeChanges(w, "light", d.Lights)
		if d.Camera {
			fmt.Fprintln(w, "~ camera")
		}
		if d.Environment {
			fmt.Fprintln(w, "~ environment")
		}
		if d.Selection {
			fmt.Fprintln(w, "~ selection")
		}
	}); err != nil {
		return err
	}

	if !d.Same {
		return NewExitError(ExitFailure, "scenes differ")
	}
	return nil
}

func writeChanges(w io.Writer, kind string, c Changes) {
	for _, id := range c.Added {
		fmt.Fprintf(w, "+ %s %s\n", kind, id)
	}
	for _, id := range c.Removed {
		fmt.Fprintf(w, "- %s %s\n", kind, id)
	}
	for _, id := range c.Changed {
		fmt.Fprintf(w, "~ %s %s\n", kind, id)
	}
}

// Diff compares a and b by canonical JSON.
func Diff(a, b *scene.Scene) (DiffResult, error) {
	var (
		d   DiffResult
		err error
	)
	if d.Objects, err = diffByID(a.Objects, b.Objects, func(o scene.Object) string { return o.ID }); err != nil {
		return d, err
	}
	if d.Materials, err = diffByID(a.Materials, b.Materials, func(m scene.Material) string { return m.ID }); err != nil {
		return d, err
	}
	if d.Lights, err = diffByID(a.Lights, b.Lights, func(l scene.Light) string { return l.ID }); err != nil {
		return d, err
	}
	if d.Camera, err = differs(a.Camera, b.Camera); err != nil {
		return d, err
	}
	if d.Environment, err = differs(a.Environment, b.Environment); err != nil {
		return d, err
	}
	d.Selection = !slices.Equal(a.Selection, b.Selection)

	d.Same = d.Objects.Empty() && d.Materials.Empty() && d.Lights.Empty() &&
		!d.Camera && !d.Environment && !d.Selection
	return d, nil
}

func diffByID[T any](a, b []T, key func(T) string) (Changes, error) {
	var c Changes
	left := make(map[string]T, len(a))
	for _, item := range a {
		left[key(item)] = item
	}
	right := make(map[string]T, len(b))
	for _, item := range b {
		right[key(item)] = item
	}

	for id, l := range left {
		r, ok := right[id]
		if !ok {
			c.Removed = append(c.Removed, id)
			continue
		}
		changed, err := differs(l, r)
		if err != nil {
			return c, err
		}
		if changed {
			c.Changed = append(c.Changed, id)
		}
	}
	for id := range right {
		if _, ok := left[id]; !ok {
			c.Added = append(c.Added, id)
		}
	}

	sort.Strings(c.Added)
	sort.Strings(c.Removed)
	sort.Strings(c.Changed)
	return c, nil
}

func differs(a, b any) (bool, error) {
	ja, err := scene.MarshalCanonical(a)
	if err != nil {
		return false, err
	}
	jb, err := scene.MarshalCanonical(b)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(ja, jb), nil
}
