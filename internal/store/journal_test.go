package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func journalRecord(sceneID string, seq int64, actionType string) JournalRecord {
	return JournalRecord{
		SceneID:    sceneID,
		Seq:        seq,
		ActionType: actionType,
		Action:     json.RawMessage(`{"type":"` + actionType + `"}`),
		BeforeHash: "before",
		AfterHash:  "after",
		Timestamp:  testNow.UnixMilli(),
	}
}

func TestJournal_AppendAndRead(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendJournal(ctx, journalRecord("s1", 2, "SELECT")))
	require.NoError(t, s.AppendJournal(ctx, journalRecord("s1", 1, "ADD_OBJECT")))
	require.NoError(t, s.AppendJournal(ctx, journalRecord("s2", 3, "RESET_SCENE")))

	got, err := s.ReadJournal(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, "ADD_OBJECT", got[0].ActionType)
	assert.JSONEq(t, `{"type":"ADD_OBJECT"}`, string(got[0].Action))
	assert.Equal(t, int64(2), got[1].Seq)

	all, err := s.ReadJournal(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestJournal_AppendIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := journalRecord("s1", 1, "ADD_OBJECT")
	require.NoError(t, s.AppendJournal(ctx, rec))
	rec.ActionType = "CHANGED"
	require.NoError(t, s.AppendJournal(ctx, rec))

	got, err := s.ReadJournal(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ADD_OBJECT", got[0].ActionType)
}

func TestJournal_LastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.LastJournalSeq(ctx)
	require.NoError(t, err)
	assert.Zero(t, seq)

	require.NoError(t, s.AppendJournal(ctx, journalRecord("a", 7, "X")))
	require.NoError(t, s.AppendJournal(ctx, journalRecord("b", 4, "X")))

	seq, err = s.LastJournalSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)
}

func TestJournal_ReadByType(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendJournal(ctx, journalRecord("s2", 4, "ADD_OBJECT")))
	require.NoError(t, s.AppendJournal(ctx, journalRecord("s1", 1, "ADD_OBJECT")))
	require.NoError(t, s.AppendJournal(ctx, journalRecord("s1", 2, "SELECT")))

	got, err := s.ReadJournalByType(ctx, "ADD_OBJECT")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].SceneID)
	assert.Equal(t, "s2", got[1].SceneID)

	none, err := s.ReadJournalByType(ctx, "TELEPORT")
	require.NoError(t, err)
	assert.Empty(t, none)
}
