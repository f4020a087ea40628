package contracts

import (
	"errors"
	"fmt"
)

// ErrIncompatibleEditor matches every *IncompatibleEditorError via errors.Is
var ErrIncompatibleEditor = errors.New("incompatible editor")

// IncompatibleEditorError is returned by EditorFactory.Create when
// checkCompatible is requested and the check fails
type IncompatibleEditorError struct {
	Editor string
	Reason string
	Err    error
}

// NewIncompatibleEditorError creates an incompatibility error with a formatted reason
func NewIncompatibleEditorError(editor, format string, args ...any) *IncompatibleEditorError {
	return &IncompatibleEditorError{
		Editor: editor,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Error implements error interface
func (e *IncompatibleEditorError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "compatibility check failed"
	}
	if e.Editor == "" {
		return "incompatible editor: " + reason
	}
	return fmt.Sprintf("editor %q is incompatible: %s", e.Editor, reason)
}

// Is reports whether target is ErrIncompatibleEditor
func (e *IncompatibleEditorError) Is(target error) bool {
	return target == ErrIncompatibleEditor
}

// Unwrap returns the underlying cause
func (e *IncompatibleEditorError) Unwrap() error {
	return e.Err
}

// WithCause returns a copy of the error wrapping err
func (e *IncompatibleEditorError) WithCause(err error) *IncompatibleEditorError {
	cp := *e
	cp.Err = err
	return &cp
}

// IsIncompatible checks if err (or anything it wraps) is an incompatibility error
func IsIncompatible(err error) bool {
	return errors.Is(err, ErrIncompatibleEditor)
}
