package apperror

import (
	"errors"
	"fmt"
)

// Error represents an engine error with a stable code
type Error struct {
	Code     string
	Message  string
	Internal error
	Details  map[string]any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the internal error
func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches any error carrying the same code, so derived errors compare
// equal to the definitions below under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithInternal returns a copy of the error with an internal error attached
func (e *Error) WithInternal(err error) *Error {
	return &Error{
		Code:     e.Code,
		Message:  e.Message,
		Internal: err,
		Details:  e.Details,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Code:     e.Code,
		Message:  message,
		Internal: e.Internal,
		Details:  e.Details,
	}
}

// WithDetails returns a copy of the error with details attached
func (e *Error) WithDetails(details map[string]any) *Error {
	return &Error{
		Code:     e.Code,
		Message:  e.Message,
		Internal: e.Internal,
		Details:  details,
	}
}

// New creates a new application error
func New(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

var (
	// ErrReferentialIntegrity: a creation request references a key that is
	// neither stored nor supplied inline.
	ErrReferentialIntegrity = New("referential_integrity", "Referenced entity does not exist")

	// ErrNotFound: an export or lookup targets a key absent from the store.
	ErrNotFound = New("not_found", "Entity not found")

	// ErrCascadeDeletion: the store rejected a deletion step.
	ErrCascadeDeletion = New("cascade_deletion", "Cascade deletion failed")

	ErrValidation  = New("validation_error", "Validation failed")
	ErrCardinality = New("cardinality_violation", "Relationship cardinality violated")
	ErrCycle       = New("hierarchy_cycle", "Classifier hierarchy would contain a cycle")
	ErrStore       = New("store_error", "Graph store operation failed")
)

// NewNotFound creates a not found error for a label and key
func NewNotFound(label, key string) *Error {
	return ErrNotFound.WithMessage(fmt.Sprintf("%s %q not found", label, key)).
		WithDetails(map[string]any{"label": label, "key": key})
}

// NewValidation creates a validation error with a custom message
func NewValidation(format string, args ...any) *Error {
	return ErrValidation.WithMessage(fmt.Sprintf(format, args...))
}

// NewMissingReference creates a referential integrity error for an unresolved key
func NewMissingReference(label, key string) *Error {
	return ErrReferentialIntegrity.
		WithMessage(fmt.Sprintf("%s %q is neither stored nor supplied in the request", label, key)).
		WithDetails(map[string]any{"label": label, "key": key})
}

// Code extracts the error code, or "" for errors outside this package
func Code(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
