package conditions

import (
	"errors"
	"fmt"
)

// ErrMaxDepthExceeded is returned when logical conditions nest deeper than MaxDepth,
// which in practice means the condition graph contains a cycle.
var ErrMaxDepthExceeded = errors.New("condition evaluation exceeded maximum depth")

// ValidationError reports a field holding a value of the wrong type or range.
type ValidationError struct {
	Field  string
	Value  string // raw offending value
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s (got %s)", e.Field, e.Reason, e.Value)
}

// MissingVariableError is returned by timepassed conditions whose timestamp
// variable has never been set.
type MissingVariableError struct {
	Variable VariableReference
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("variable %s was not found", e.Variable)
}

// ConditionNotFoundError is returned when a referenced condition id is not in the registry.
type ConditionNotFoundError struct {
	ID string
}

func (e *ConditionNotFoundError) Error() string {
	return fmt.Sprintf("condition not found: %s", e.ID)
}
