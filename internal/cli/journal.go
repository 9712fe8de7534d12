package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Database string
	Check    bool
	Type     string
}

// JournalEntry is one journal record as shown to users.
type JournalEntry struct {
	SceneID    string `json:"scene_id"`
	Seq        int64  `json:"seq"`
	ActionType string `json:"action_type"`
	BeforeHash string `json:"before_hash"`
	AfterHash  string `json:"after_hash"`
	Timestamp  int64  `json:"ts"`
	Problem    string `json:"problem,omitempty"`
}

// JournalResult holds the listed records.
type JournalResult struct {
	Entries  []JournalEntry `json:"entries"`
	Total    int            `json:"total"`
	Problems int            `json:"problems"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal [scene-id | --type ACTION]",
		Short: "List journaled changes",
		Long: `List the changes committed by apply --journal, ordered by sequence.

With --type only records of that action type are listed, across scenes.
With --check every stored action is decoded again; records that no longer
decode, or whose before and after fingerprints are equal, are reported.

Exit codes:
  0 - Listed (and, with --check, every record is sound)
  1 - --check found problems
  2 - Command error (database not found, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sceneID := ""
			if len(args) == 1 {
				sceneID = args[0]
			}
			return runJournal(opts, sceneID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default: $SCENEKIT_DB)")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "decode every action and report broken records")
	cmd.Flags().StringVar(&opts.Type, "type", "", "only records of this action type, across scenes")

	return cmd
}

func runJournal(opts *JournalOptions, sceneID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

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

	var recs []store.JournalRecord
	switch {
	case opts.Type != "" && sceneID != "":
		return f.Fail(ExitCommandError, ErrCodeGeneric, "scene-id and --type are mutually exclusive", nil)
	case opts.Type != "":
		recs, err = st.ReadJournalByType(ctx, opts.Type)
	default:
		recs, err = st.ReadJournal(ctx, sceneID)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	result := JournalResult{Entries: make([]JournalEntry, 0, len(recs)), Total: len(recs)}
	for _, rec := range recs {
		entry := JournalEntry{
			SceneID:    rec.SceneID,
			Seq:        rec.Seq,
			ActionType: rec.ActionType,
			BeforeHash: rec.BeforeHash,
			AfterHash:  rec.AfterHash,
			Timestamp:  rec.Timestamp,
		}
		if opts.Check {
			entry.Problem = checkRecord(rec)
			if entry.Problem != "" {
				result.Problems++
			}
		}
		result.Entries = append(result.Entries, entry)
	}

	if err := f.Success(result, func(w io.Writer) {
		if result.Total == 0 {
			fmt.Fprintln(w, "Journal is empty.")
			return
		}
		for _, e := range result.Entries {
			ts := time.UnixMilli(e.Timestamp).UTC().Format(time.RFC3339)
			fmt.Fprintf(w, "%6d  %-20s %s  %s  %s..%s", e.Seq, e.ActionType, ts, e.SceneID, short(e.BeforeHash), short(e.AfterHash))
			if e.Problem != "" {
				fmt.Fprintf(w, "  ✗ %s", e.Problem)
			}
			fmt.Fprintln(w)
		}
	}); err != nil {
		return err
	}

	if result.Problems > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d journal record(s) have problems", result.Problems))
	}
	return nil
}

// checkRecord returns a description of what is wrong with rec, or "".
func checkRecord(rec store.JournalRecord) string {
	a, err := action.Unmarshal(rec.Action)
	if err != nil {
		return fmt.Sprintf("action does not decode: %v", err)
	}
	if string(a.Kind()) != rec.ActionType {
		return fmt.Sprintf("action type %s does not match payload %s", rec.ActionType, a.Kind())
	}
	if _, ok := a.(action.Unknown); ok {
		return fmt.Sprintf("unknown action type %s", rec.ActionType)
	}
	if rec.BeforeHash == rec.AfterHash {
		return "before and after fingerprints are equal"
	}
	return ""
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
