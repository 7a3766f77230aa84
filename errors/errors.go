package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified datakit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is, or wraps, an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// --- Constructors ---

// IncorrectAnalyzer creates an error for an analyzer that cannot play the given role.
func IncorrectAnalyzer(analyzer any, role string) *AppError {
	return &AppError{
		Code:    ErrCodeIncorrectAnalyzer,
		Message: fmt.Sprintf("analyzer %T does not implement %s()", analyzer, role),
		Details: map[string]any{"role": role, "analyzer": fmt.Sprintf("%T", analyzer)},
	}
}

// NotAnAnalyzer creates an error for an object whose role cannot be determined.
func NotAnAnalyzer(analyzer any, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeNotAnAnalyzer,
		Message: fmt.Sprintf("object %T is not a valid analyzer: %s", analyzer, reason),
		Details: map[string]any{"analyzer": fmt.Sprintf("%T", analyzer)},
	}
}

// TerminalState creates an error for an operation invoked on a terminal result.
func TerminalState(operation, kind string) *AppError {
	return &AppError{
		Code:    ErrCodeTerminalState,
		Message: fmt.Sprintf("cannot call %s() on %s: the chain has already terminated", operation, kind),
		Details: map[string]any{"operation": operation, "kind": kind},
	}
}

// MissingKey creates an error for a key that is not present in a partitioned payload.
func MissingKey(key any) *AppError {
	return &AppError{
		Code:    ErrCodeMissingKey,
		Message: fmt.Sprintf("key %v is not in the data dictionary", key),
		Details: map[string]any{"key": key},
	}
}

// InvalidInput creates an error for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an error for failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Internal creates an error for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "An unexpected error occurred.",
		Cause:   cause,
	}
}
