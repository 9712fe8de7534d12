package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/reducer"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                `json:"valid"`
	Path        string              `json:"path"`
	SceneID     string              `json:"scene_id"`
	Objects     int                 `json:"objects"`
	Fingerprint string              `json:"fingerprint"`
	Violations  []reducer.Violation `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check scene files for hierarchy and reference problems",
		Long: `Load scene files and check them for structural problems: duplicate ids,
missing or mismatched parents and children, cycles, dangling material
references and stale selections.

Exit codes:
  0 - All files are valid
  1 - One or more files have violations
  2 - A file could not be loaded`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	results := make([]ValidationResult, 0, len(paths))
	invalid := 0
	for _, path := range paths {
		s, err := loader.LoadFile(path)
		if err != nil {
			var le *loader.LoadError
			if errors.As(err, &le) {
				return f.Fail(ExitCommandError, ErrCodeLoad, le.Error(), map[string]string{"code": le.Code})
			}
			return f.Fail(ExitCommandError, ErrCodeLoad, err.Error(), nil)
		}
		f.VerboseLog("loaded %s: %d objects", path, len(s.Objects))

		fp, err := s.Fingerprint()
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
		}
		vs := reducer.CheckIntegrity(s)
		if len(vs) > 0 {
			invalid++
		}
		results = append(results, ValidationResult{
			Valid:       len(vs) == 0,
			Path:        path,
			SceneID:     s.ID,
			Objects:     len(s.Objects),
			Fingerprint: fp,
			Violations:  vs,
		})
	}

	if err := f.Success(results, func(w io.Writer) {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(w, "✓ %s (%d objects)\n", r.Path, r.Objects)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", r.Path)
			for _, v := range r.Violations {
				fmt.Fprintf(w, "  %s\n", v)
			}
		}
	}); err != nil {
		return err
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) have integrity violations", invalid))
	}
	return nil
}
