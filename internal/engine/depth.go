package engine

import "github.com/roach88/scenekit/internal/action"

// DefaultMaxDepth is the default bound on re-entrant dispatch nesting.
const DefaultMaxDepth = 8

// DepthQuota tracks how deeply dispatch calls are nested and enforces a
// maximum.
//
// A subscriber that dispatches re-enters the engine; each nested level
// takes one unit of quota and returns it when the dispatch finishes. The
// bound catches subscribers that react to their own changes forever, and
// since every level runs on the caller's stack there is nothing to
// deadlock on.
type DepthQuota struct {
	maxDepth int
	current  int
}

// NewDepthQuota creates a quota with the given limit. A limit below one
// selects DefaultMaxDepth.
func NewDepthQuota(maxDepth int) *DepthQuota {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &DepthQuota{maxDepth: maxDepth}
}

// Enter takes one level. On error nothing is taken and Exit must not be
// called.
func (q *DepthQuota) Enter(kind action.Type) error {
	if q.current >= q.maxDepth {
		return NewDepthError(kind, q.current+1, q.maxDepth)
	}
	q.current++
	return nil
}

// Exit returns one level.
func (q *DepthQuota) Exit() {
	if q.current > 0 {
		q.current--
	}
}

// Current returns the current nesting depth.
// Used for logging and diagnostics.
func (q *DepthQuota) Current() int {
	return q.current
}

// MaxDepth returns the configured limit.
func (q *DepthQuota) MaxDepth() int {
	return q.maxDepth
}
