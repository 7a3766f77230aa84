package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Analyzer errors
const (
	// ErrCodeIncorrectAnalyzer indicates the analyzer does not implement the invoked role.
	ErrCodeIncorrectAnalyzer ErrorCode = "INCORRECT_ANALYZER"
	// ErrCodeNotAnAnalyzer indicates the role of an analyzer cannot be determined.
	ErrCodeNotAnAnalyzer ErrorCode = "NOT_AN_ANALYZER"
)

// Container errors
const (
	// ErrCodeTerminalState indicates an operation was invoked on a terminal result.
	ErrCodeTerminalState ErrorCode = "TERMINAL_STATE"
	// ErrCodeMissingKey indicates a partition or result key does not exist.
	ErrCodeMissingKey ErrorCode = "MISSING_KEY"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for use with errors.Is. Matching is done on the code only.
var (
	ErrIncorrectAnalyzer = &AppError{Code: ErrCodeIncorrectAnalyzer}
	ErrNotAnAnalyzer     = &AppError{Code: ErrCodeNotAnAnalyzer}
	ErrTerminalState     = &AppError{Code: ErrCodeTerminalState}
	ErrMissingKey        = &AppError{Code: ErrCodeMissingKey}
	ErrInvalidInput      = &AppError{Code: ErrCodeInvalidInput}
)
