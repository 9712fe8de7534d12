package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scenekit/internal/loader"
	"github.com/roach88/scenekit/internal/store"
)

// SnapshotOptions holds flags shared by the snapshot subcommands.
type SnapshotOptions struct {
	*RootOptions
	Database string
}

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and restore named scenes in the database",
		Long: `Save and restore named scene snapshots in the SQLite database.

Examples:
  scenekit snapshot save before-lighting room.yaml
  scenekit snapshot list
  scenekit snapshot load before-lighting restored.json
  scenekit snapshot delete before-lighting`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default: $SCENEKIT_DB)")

	cmd.AddCommand(&cobra.Command{
		Use:           "save <name> <scene-file>",
		Short:         "Store a scene file under a name",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotSave(opts, args[0], args[1], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "load <name> <scene-file>",
		Short:         "Write a stored snapshot to a file",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotLoad(opts, args[0], args[1], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List stored snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotList(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a stored snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotDelete(opts, args[0], cmd)
		},
	})

	return cmd
}

// withStore opens the snapshot database, runs fn and closes it.
func (o *SnapshotOptions) withStore(cmd *cobra.Command, fn func(ctx context.Context, st *store.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	path, err := o.dbPath(o.Database)
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return o.formatter(cmd).Fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open database: %v", err), nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return fn(ctx, st)
}

func runSnapshotSave(opts *SnapshotOptions, name, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s, err := loader.LoadFile(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoad, err.Error(), nil)
	}
	return opts.withStore(cmd, func(ctx context.Context, st *store.Store) error {
		info, err := st.SaveSnapshot(ctx, name, s)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		return f.Success(info, func(w io.Writer) {
			fmt.Fprintf(w, "Saved %s (scene %s, %d objects)\n", info.Name, info.SceneID, info.Objects)
		})
	})
}

func runSnapshotLoad(opts *SnapshotOptions, name, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return opts.withStore(cmd, func(ctx context.Context, st *store.Store) error {
		s, err := st.LoadSnapshot(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("snapshot %q not found", name), nil)
		}
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		if err := loader.WriteFile(path, s); err != nil {
			return f.Fail(ExitCommandError, ErrCodeWrite, err.Error(), nil)
		}
		data := map[string]any{"name": name, "path": path, "scene_id": s.ID}
		return f.Success(data, func(w io.Writer) {
			fmt.Fprintf(w, "Wrote %s to %s\n", name, path)
		})
	})
}

func runSnapshotList(opts *SnapshotOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return opts.withStore(cmd, func(ctx context.Context, st *store.Store) error {
		infos, err := st.ListSnapshots(ctx)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		if infos == nil {
			infos = []store.SnapshotInfo{}
		}
		return f.Success(infos, func(w io.Writer) {
			if len(infos) == 0 {
				fmt.Fprintln(w, "No snapshots.")
				return
			}
			for _, info := range infos {
				saved := time.UnixMilli(info.SavedAt).UTC().Format(time.RFC3339)
				fmt.Fprintf(w, "%-24s %-38s %4d objects  %s\n", info.Name, info.SceneID, info.Objects, saved)
			}
		})
	})
}

func runSnapshotDelete(opts *SnapshotOptions, name string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	return opts.withStore(cmd, func(ctx context.Context, st *store.Store) error {
		err := st.DeleteSnapshot(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("snapshot %q not found", name), nil)
		}
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		return f.Success(map[string]string{"deleted": name}, func(w io.Writer) {
			fmt.Fprintf(w, "Deleted %s\n", name)
		})
	})
}
