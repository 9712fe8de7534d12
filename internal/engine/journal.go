package engine

import (
	"context"
	"fmt"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/history"
	"github.com/roach88/scenekit/internal/store"
)

// Journal receives one record per committed history entry.
// *store.Store implements it.
type Journal interface {
	AppendJournal(ctx context.Context, rec store.JournalRecord) error
}

// JournalRecordFor converts a committed entry into its journal form.
func JournalRecordFor(e history.Entry) (store.JournalRecord, error) {
	payload, err := action.Marshal(e.Action)
	if err != nil {
		return store.JournalRecord{}, fmt.Errorf("encode action: %w", err)
	}
	before, err := e.Before.Fingerprint()
	if err != nil {
		return store.JournalRecord{}, fmt.Errorf("fingerprint before: %w", err)
	}
	after, err := e.After.Fingerprint()
	if err != nil {
		return store.JournalRecord{}, fmt.Errorf("fingerprint after: %w", err)
	}
	return store.JournalRecord{
		SceneID:    e.After.ID,
		Seq:        e.Seq,
		ActionType: string(e.Action.Kind()),
		Action:     payload,
		BeforeHash: before,
		AfterHash:  after,
		Timestamp:  e.Timestamp.UnixMilli(),
	}, nil
}

// record appends e to the journal. Failures are logged, never returned: the
// journal is a diagnostics sink and must not make a committed change fail.
func (e *Engine) record(ctx context.Context, entry history.Entry) {
	if e.journal == nil {
		return
	}
	rec, err := JournalRecordFor(entry)
	if err == nil {
		err = e.journal.AppendJournal(ctx, rec)
	}
	if err != nil {
		e.logger.Error("journal append failed",
			"seq", entry.Seq,
			"action", entry.Action.Kind(),
			"error", err,
		)
	}
}
