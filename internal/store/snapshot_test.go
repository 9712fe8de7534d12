package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sc := createTestScene("scene-1")

	info, err := s.SaveSnapshot(ctx, "checkpoint", sc)
	require.NoError(t, err)
	assert.Equal(t, "scene-1", info.SceneID)
	assert.Equal(t, 1, info.Objects)
	assert.Equal(t, testNow.UnixMilli(), info.SavedAt)
	assert.Equal(t, sc.MustFingerprint(), info.Fingerprint)

	got, err := s.LoadSnapshot(ctx, "checkpoint")
	require.NoError(t, err)
	assert.Equal(t, sc.MustFingerprint(), got.MustFingerprint())
	assert.Equal(t, sc, got)
}

func TestSnapshot_SaveReplaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "slot", createTestScene("first"))
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "slot", createTestScene("second"))
	require.NoError(t, err)

	got, err := s.LoadSnapshot(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "second", got.ID)

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSnapshot_ListOrderedByName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"b", "a", "C"} {
		_, err := s.SaveSnapshot(ctx, name, createTestScene(name))
		require.NoError(t, err)
	}

	list, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "a", list[1].Name)
	assert.Equal(t, "b", list[2].Name)
}

func TestSnapshot_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LoadSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshot_Delete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "gone", createTestScene("x"))
	require.NoError(t, err)
	require.NoError(t, s.DeleteSnapshot(ctx, "gone"))

	_, err = s.LoadSnapshot(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshot_DetectsTampering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "tampered", createTestScene("x"))
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE snapshots SET body = replace(body, '"Cube"', '"Cone"') WHERE name = 'tampered'`)
	require.NoError(t, err)

	_, err = s.LoadSnapshot(ctx, "tampered")
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSnapshot_InvalidInput(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "", createTestScene("x"))
	assert.Error(t, err)

	_, err = s.SaveSnapshot(ctx, "nil", nil)
	assert.Error(t, err)
}
