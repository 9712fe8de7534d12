package engine

import (
	"log/slog"

	"github.com/roach88/scenekit/internal/history"
	"github.com/roach88/scenekit/internal/reducer"
	"github.com/roach88/scenekit/internal/scene"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	initial      *scene.Scene
	capacity     int
	policy       reducer.RemovePolicy
	clock        reducer.Clock
	ids          reducer.IDGenerator
	maxDepth     int
	logger       *slog.Logger
	journal      Journal
	historyClock *history.Clock
}

// WithInitialScene starts the engine from a copy of s instead of a fresh
// default scene.
func WithInitialScene(s *scene.Scene) Option {
	return func(c *config) {
		c.initial = s
	}
}

// WithHistoryCapacity sets the maximum number of history entries.
//
// Default: 50 (history.DefaultCapacity)
func WithHistoryCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithRemovePolicy sets how RemoveObject treats the surrounding hierarchy.
//
// Default: reducer.RemoveOrphan
func WithRemovePolicy(p reducer.RemovePolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithClock sets the wall clock used for metadata and entry timestamps.
func WithClock(clock reducer.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithIDGenerator sets the generator for ids the caller leaves empty.
//
// Default: reducer.UUIDv7Generator
func WithIDGenerator(g reducer.IDGenerator) Option {
	return func(c *config) {
		c.ids = g
	}
}

// WithMaxDepth bounds re-entrant dispatch nesting.
//
// Default: 8 (DefaultMaxDepth)
// Use WithMaxDepth(1) to forbid dispatching from subscribers altogether.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithJournal appends every committed entry to j.
func WithJournal(j Journal) Option {
	return func(c *config) {
		c.journal = j
	}
}

// WithHistoryClock sets the clock stamping history sequence numbers.
// Used to continue numbering after entries already in a journal.
func WithHistoryClock(clock *history.Clock) Option {
	return func(c *config) {
		c.historyClock = clock
	}
}
