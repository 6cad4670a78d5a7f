package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInputAccess ErrorType = "INPUT_ACCESS"
	ErrTypeNoData      ErrorType = "NO_DATA"
	ErrTypeOutput      ErrorType = "OUTPUT"
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeParsing     ErrorType = "PARSING"
)

// Process exit statuses
const (
	ExitOK          = 0
	ExitInputAccess = 1
	ExitNoData      = 2
	ExitOutput      = 3
	ExitUsage       = 64
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches an AppError target of the same type. A target with a message
// also has to agree on the message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Message == "" || t.Message == e.Message)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// ErrNoUsableData is returned when no recognized sheet produced a row.
var ErrNoUsableData = &AppError{
	Type:    ErrTypeNoData,
	Message: "no usable sheets found (jobs_like, rides_trips, eats_orders)",
}

// NewInputAccessError creates an error for a workbook that cannot be opened or read
func NewInputAccessError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInputAccess, message, cause)
}

// NewOutputError creates an error for a failed output write
func NewOutputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeOutput, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// TypeOf returns the type of the first AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch TypeOf(err) {
	case ErrTypeNoData:
		return ExitNoData
	case ErrTypeOutput:
		return ExitOutput
	case ErrTypeConfig:
		return ExitUsage
	case ErrTypeParsing:
		// a sheet that cannot be read is an input-access failure
		return ExitInputAccess
	default:
		return ExitInputAccess
	}
}
