package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Name  string
	ID    string
	Force bool
}

// NewResult describes a created scene file.
type NewResult struct {
	Path        string `json:"path"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Write a fresh default scene",
		Long: `Write a fresh default scene: one neutral material, an ambient and a
directional light and a perspective camera.

The format follows the extension: .json, .yaml/.yml or .cue.

Examples:
  scenekit new room.yaml
  scenekit new room.json --name "Living Room" --id room-1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "scene name")
	cmd.Flags().StringVar(&opts.ID, "id", "", "scene id (default: generated UUIDv7)")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func runNew(opts *NewOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return f.Fail(ExitCommandError, ErrCodeWrite, fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
	}

	id := opts.ID
	if id == "" {
		id = reducer.UUIDv7Generator{}.Generate()
	}
	s := scene.Default(id, time.Now())
	if opts.Name != "" {
		s.Name = opts.Name
	}

	if err := loader.WriteFile(path, s); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWrite, err.Error(), nil)
	}
	f.VerboseLog("wrote %s", path)

	fp, err := s.Fingerprint()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	result := NewResult{Path: path, ID: s.ID, Name: s.Name, Fingerprint: fp}
	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Created %s (scene %s)\n", path, s.ID)
	})
}
