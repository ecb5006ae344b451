package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeValidation,
				Message: "validation failed",
				Cause:   errors.New("Cluster is required"),
			},
			expected: "validation failed: Cluster is required",
		},
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeTimeout,
				Message: "Lambda function reached maximum execution time",
			},
			expected: "Lambda function reached maximum execution time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := ErrTransport("ECS.RunTask failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.ErrorIs(t, err, cause)
}

func TestAppError_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		target   error
		expected bool
	}{
		{
			name:     "same error code matches",
			err:      ErrExitCodeFailure("one", nil),
			target:   ErrExitCodeFailure("two", nil),
			expected: true,
		},
		{
			name:     "different error codes don't match",
			err:      ErrExitCodeFailure("one", nil),
			target:   ErrSchedulingFailure("one", nil),
			expected: false,
		},
		{
			name:     "empty code doesn't match",
			err:      &AppError{Message: "error"},
			target:   &AppError{Message: "error"},
			expected: false,
		},
		{
			name:     "non-AppError doesn't match",
			err:      ErrTimeout("timeout", nil),
			target:   errors.New("some other error"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Is(tt.target))
		})
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name string
		err  *AppError
		code string
	}{
		{"validation", ErrValidation("msg", cause), ErrCodeValidation},
		{"scheduling", ErrSchedulingFailure("msg", cause), ErrCodeSchedulingFailure},
		{"exit code", ErrExitCodeFailure("msg", cause), ErrCodeExitCodeFailure},
		{"timeout", ErrTimeout("msg", cause), ErrCodeTimeout},
		{"transport", ErrTransport("msg", cause), ErrCodeTransport},
		{"internal", ErrInternalError("msg", cause), ErrCodeInternalError},
		{"database", ErrDatabaseError("msg", cause), ErrCodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, "msg", tt.err.Message)
			assert.Equal(t, cause, tt.err.Cause)
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "AppError returns its code",
			err:      ErrTimeout("test", nil),
			expected: ErrCodeTimeout,
		},
		{
			name:     "wrapped AppError returns its code",
			err:      fmt.Errorf("outer: %w", ErrTransport("test", nil)),
			expected: ErrCodeTransport,
		},
		{
			name:     "plain error returns empty code",
			err:      errors.New("plain"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorCode(tt.err))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "short", GetErrorMessage(ErrValidation("short", errors.New("long"))))
	assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
}

func TestGetErrorDetails(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "AppError with cause returns cause",
			err:      ErrTransport("ECS.StopTask failed", errors.New("access denied")),
			expected: "access denied",
		},
		{
			name:     "AppError without cause returns message",
			err:      ErrTimeout("Lambda function reached maximum execution time", nil),
			expected: "Lambda function reached maximum execution time",
		},
		{
			name:     "plain error returns its text",
			err:      errors.New("boom"),
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorDetails(tt.err))
		})
	}
}
