package operations

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeFatal        ErrorType = "fatal"
	ErrorTypeInvalidState ErrorType = "invalid_state"
)

// OperationError represents a job-level error. Its Error text is what the
// observer shows, so it reads as a plain sentence without the type tag.
type OperationError struct {
	Type    ErrorType              `json:"type"`
	Job     string                 `json:"job,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"cause,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return string(e.Type) + " error"
	}
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// WithContext attaches a key/value pair and returns e for chaining.
func (e *OperationError) WithContext(key string, value interface{}) *OperationError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewExecutionError creates a new execution error
func NewExecutionError(message string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeExecution,
		Message: message,
		Cause:   cause,
	}
}

// NewFatalError creates a new fatal error
func NewFatalError(message string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeFatal,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(message string) *OperationError {
	return &OperationError{
		Type:    ErrorTypeInvalidState,
		Message: message,
	}
}

// GetErrorType returns the type of the first OperationError in err's chain.
// Plain errors are reported as execution errors.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeExecution
}

// IsFatal reports whether err aborts a job.
func IsFatal(err error) bool {
	return GetErrorType(err) == ErrorTypeFatal
}

// IsValidation reports whether err was caused by bad input.
func IsValidation(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// WrapError wraps an error with job context
func WrapError(err error, job string, message string) *OperationError {
	if err == nil {
		return nil
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		if opErr.Job == "" {
			opErr.Job = job
		}
		if message != "" {
			opErr.Message = joinMessage(message, opErr.Message)
		}
		return opErr
	}

	return &OperationError{
		Type:    ErrorTypeExecution,
		Job:     job,
		Message: message,
		Cause:   err,
	}
}

func joinMessage(outer, inner string) string {
	if inner == "" {
		return outer
	}
	return outer + ": " + inner
}

// Common operation errors
var (
	// ErrJobRunning is returned when a job is started while another one runs
	ErrJobRunning = &OperationError{
		Type:    ErrorTypeInvalidState,
		Message: "a job is already running",
	}
)
