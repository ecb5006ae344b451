// Package errors provides the failure taxonomy of ecstasks.
// Every failure of a lifecycle invocation is carried as an AppError whose code
// selects exactly one classification.
package errors

import (
	"errors"
	"fmt"
)

// AppError represents a classified application error.
type AppError struct {
	// Code selects the classification of the failure
	Code string
	// Message is a short description of what failed
	Message string
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to work with AppError.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Failure classification codes.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeSchedulingFailure = "SCHEDULING_FAILURE"
	ErrCodeExitCodeFailure   = "EXIT_CODE_FAILURE"
	ErrCodeTimeout           = "TIMEOUT_ERROR"
	ErrCodeTransport         = "TRANSPORT_ERROR"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
)

// New creates a new AppError with the given code.
func New(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrValidation creates an error for resource properties that fail validation.
func ErrValidation(message string, cause error) *AppError {
	return New(ErrCodeValidation, message, cause)
}

// ErrSchedulingFailure creates an error for tasks the cluster could not place.
func ErrSchedulingFailure(message string, cause error) *AppError {
	return New(ErrCodeSchedulingFailure, message, cause)
}

// ErrExitCodeFailure creates an error for stopped tasks with non-zero container exit codes.
func ErrExitCodeFailure(message string, cause error) *AppError {
	return New(ErrCodeExitCodeFailure, message, cause)
}

// ErrTimeout creates an error for a polling loop that ran out of time.
func ErrTimeout(message string, cause error) *AppError {
	return New(ErrCodeTimeout, message, cause)
}

// ErrTransport creates an error for a failed call to the cluster API.
func ErrTransport(message string, cause error) *AppError {
	return New(ErrCodeTransport, message, cause)
}

// ErrInternalError creates an error for anything that has no better classification.
func ErrInternalError(message string, cause error) *AppError {
	return New(ErrCodeInternalError, message, cause)
}

// ErrDatabaseError creates an error for a failed invocation ledger operation.
// It never classifies a lifecycle verdict.
func ErrDatabaseError(message string, cause error) *AppError {
	return New(ErrCodeDatabaseError, message, cause)
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetErrorDetails extracts detailed error information including the underlying cause.
// Returns the underlying error message if available, otherwise returns the main error message.
func GetErrorDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
