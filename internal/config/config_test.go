package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenekit/internal/action"
	"github.com/roach88/scenekit/internal/engine"
	"github.com/roach88/scenekit/internal/reducer"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.HistoryCapacity)
	assert.Equal(t, reducer.RemoveOrphan, cfg.RemovePolicy)
	assert.Equal(t, 8, cfg.MaxDispatchDepth)
	assert.Equal(t, "scenekit.db", cfg.DBPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCENEKIT_HISTORY_CAPACITY", "5")
	t.Setenv("SCENEKIT_REMOVE_POLICY", "cascade")
	t.Setenv("SCENEKIT_MAX_DISPATCH_DEPTH", "2")
	t.Setenv("SCENEKIT_DB", "/tmp/other.db")
	t.Setenv("SCENEKIT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.HistoryCapacity)
	assert.Equal(t, reducer.RemoveCascade, cfg.RemovePolicy)
	assert.Equal(t, 2, cfg.MaxDispatchDepth)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"bad int", "SCENEKIT_HISTORY_CAPACITY", "lots", "parse env:"},
		{"bad policy", "SCENEKIT_REMOVE_POLICY", "shred", "parse env:"},
		{"zero capacity", "SCENEKIT_HISTORY_CAPACITY", "0", "SCENEKIT_HISTORY_CAPACITY"},
		{"zero depth", "SCENEKIT_MAX_DISPATCH_DEPTH", "0", "SCENEKIT_MAX_DISPATCH_DEPTH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Config{HistoryCapacity: 2, RemovePolicy: reducer.RemoveCascade, MaxDispatchDepth: 1, DBPath: "x"}
	require.NoError(t, cfg.Validate())

	e := engine.New(cfg.EngineOptions()...)
	for i := 0; i < 4; i++ {
		_, err := e.AddObject(action.AddObject{})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, e.HistoryLen())
}
