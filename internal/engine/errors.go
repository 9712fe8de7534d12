package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/scenekit/internal/action"
)

// RuntimeError represents an error detected while dispatching.
//
// Runtime errors include:
//   - Depth exceeded: re-entrant dispatch nested deeper than the max depth
//   - Replaying: dispatch attempted while undo/redo notifies subscribers
//
// Data-shape problems in actions are never errors: the reducer turns them
// into no-ops.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Action is the type of the rejected action.
	Action action.Type

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeDepthExceeded indicates re-entrant dispatch went too deep.
	ErrCodeDepthExceeded RuntimeErrorCode = "DEPTH_EXCEEDED"

	// ErrCodeReplaying indicates dispatch during undo/redo notification.
	ErrCodeReplaying RuntimeErrorCode = "REPLAYING"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: %s (action=%s)", e.Code, e.Message, e.Action)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDepthError returns true if the error is a depth exceeded error.
// Uses errors.As to handle wrapped errors.
func IsDepthError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeDepthExceeded
	}
	return false
}

// IsReplayingError returns true if the error rejects a dispatch made while
// history was replaying. Uses errors.As to handle wrapped errors.
func IsReplayingError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeReplaying
	}
	return false
}

// NewDepthError creates a RuntimeError for exceeded dispatch depth.
func NewDepthError(kind action.Type, depth, maxDepth int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("re-entrant dispatch exceeded max depth (%d > %d)", depth, maxDepth),
		Action:  kind,
		Details: map[string]string{
			"depth":     fmt.Sprintf("%d", depth),
			"max_depth": fmt.Sprintf("%d", maxDepth),
		},
	}
}

// NewReplayingError creates a RuntimeError for dispatch during replay.
func NewReplayingError(kind action.Type) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeReplaying,
		Message: "cannot dispatch while history is replaying",
		Action:  kind,
	}
}
