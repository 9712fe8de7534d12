package history

import (
	"errors"
	"fmt"
)

// StateError reports an operation attempted in a state that does not allow it.
type StateError struct {
	Op    string
	State State
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("history: cannot %s while %s", e.Op, e.State)
}

// IsStateError reports whether err is (or wraps) a *StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
