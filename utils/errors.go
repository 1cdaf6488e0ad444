package utils

import (
	"errors"
	"fmt"
)

// Error codes for the engine's failure taxonomy. Validation and
// conflict failures are expected and surfaced synchronously to the
// caller; they are never retried by the engine itself.
const (
	CodeValidation = "validationError"
	CodeConflict   = "conflictError"
	CodeNotFound   = "notFoundError"
	CodeState      = "stateError"
)

// DomainError is a typed engine failure carrying a taxonomy code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(format string, args ...any) error {
	return &DomainError{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NewConflictError reports that a requested interval is unavailable.
func NewConflictError(format string, args ...any) error {
	return &DomainError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports an unknown booking or resource id.
func NewNotFoundError(format string, args ...any) error {
	return &DomainError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewStateError reports an illegal lifecycle transition.
func NewStateError(format string, args ...any) error {
	return &DomainError{Code: CodeState, Message: fmt.Sprintf(format, args...)}
}

func hasCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool { return hasCode(err, CodeValidation) }

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool { return hasCode(err, CodeConflict) }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsState reports whether err is (or wraps) a StateError.
func IsState(err error) bool { return hasCode(err, CodeState) }
