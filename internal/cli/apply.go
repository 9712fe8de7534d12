package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/scenekit/internal/engine"
	"github.com/roach88/scenekit/internal/harness"
	"github.com/roach88/scenekit/internal/history"
	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/store"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Output   string
	Journal  bool
	Database string
	Strict   bool
}

// ApplyResult summarises an apply run.
type ApplyResult struct {
	SceneID     string              `json:"scene_id"`
	Steps       int                 `json:"steps"`
	Changed     int                 `json:"changed"`
	Errors      []string            `json:"errors,omitempty"`
	Objects     int                 `json:"objects"`
	HistoryLen  int                 `json:"history_len"`
	Fingerprint string              `json:"fingerprint"`
	Output      string              `json:"output,omitempty"`
	Violations  []reducer.Violation `json:"violations,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <scene-file> <actions-file>",
		Short: "Dispatch a list of actions against a scene",
		Long: `Dispatch a list of actions against a scene through the engine.

The actions file is YAML or JSON. YAML uses the step form of test
scenarios (dispatch / undo / redo); JSON is an array of action envelopes:

  [{"type": "ADD_OBJECT", "payload": {"id": "box", "name": "Box"}}]

Without --output nothing is written (dry run).

Exit codes:
  0 - All steps applied
  1 - A dispatch was rejected, or --strict and the result has violations
  2 - Command error (unreadable files, database errors)

Examples:
  scenekit apply room.yaml edits.yaml -o room.yaml
  scenekit apply room.json edits.json --journal --db ./scenekit.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the resulting scene to this file")
	cmd.Flags().BoolVar(&opts.Journal, "journal", false, "append committed changes to the journal")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default: $SCENEKIT_DB)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when the result has integrity violations")

	return cmd
}

func runApply(opts *ApplyOptions, scenePath, actionsPath string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	s, err := loader.LoadFile(scenePath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoad, err.Error(), nil)
	}
	steps, err := ReadSteps(actionsPath)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoad, err.Error(), nil)
	}

	engOpts := append(cfg.EngineOptions(),
		engine.WithInitialScene(s),
		engine.WithLogger(slog.Default()),
	)
	if opts.Journal {
		path, err := opts.dbPath(opts.Database)
		if err != nil {
			return err
		}
		st, err := store.Open(path)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		last, err := st.LastJournalSeq(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		engOpts = append(engOpts, engine.WithJournal(st), engine.WithHistoryClock(history.NewClockAt(last)))
		f.VerboseLog("journaling to %s after seq %d", path, last)
	}

	eng := engine.New(engOpts...)
	result := ApplyResult{SceneID: s.ID, Steps: len(steps)}

	for i, step := range steps {
		before := eng.Scene()
		switch {
		case step.Dispatch != nil:
			a, err := step.Dispatch.Action()
			if err == nil {
				err = eng.DispatchContext(ctx, a)
			}
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("step %d (%s): %v", i+1, step.Dispatch.Type, err))
			}
		case step.Undo:
			eng.Undo()
		case step.Redo:
			eng.Redo()
		}
		if eng.Scene() != before {
			result.Changed++
		}
	}

	final := eng.Scene()
	result.Objects = len(final.Objects)
	result.HistoryLen = eng.HistoryLen()
	fp, err := final.Fingerprint()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	result.Fingerprint = fp
	result.Violations = reducer.CheckIntegrity(final)

	if opts.Output != "" {
		if err := loader.WriteFile(opts.Output, final); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWrite, err.Error(), nil)
		}
		result.Output = opts.Output
	}

	if err := f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Applied %d step(s) to %s: %d changed the scene\n", result.Steps, result.SceneID, result.Changed)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  ✗ %s\n", e)
		}
		for _, v := range result.Violations {
			fmt.Fprintf(w, "  ! %s\n", v)
		}
		if result.Output != "" {
			fmt.Fprintf(w, "Wrote %s\n", result.Output)
		}
	}); err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d step(s) were rejected", len(result.Errors)))
	}
	if opts.Strict && len(result.Violations) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("result has %d integrity violation(s)", len(result.Violations)))
	}
	return nil
}

// ReadSteps reads an actions file: YAML steps or a JSON array of envelopes.
func ReadSteps(path string) ([]harness.Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}

	var steps []harness.Step
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var envs []harness.DispatchStep
		if err := json.Unmarshal(data, &envs); err != nil {
			return nil, fmt.Errorf("decode actions %s: %w", path, err)
		}
		for _, env := range envs {
			steps = append(steps, harness.Step{Dispatch: &env})
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &steps); err != nil {
			return nil, fmt.Errorf("decode actions %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported actions file %q", path)
	}

	for i, step := range steps {
		if step.Kind() == "" {
			return nil, fmt.Errorf("step %d: one of dispatch, undo, redo is required", i+1)
		}
		if step.Dispatch != nil {
			if _, err := step.Dispatch.Action(); err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return steps, nil
}
