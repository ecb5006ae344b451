package ecstasks

import (
	"errors"
	"fmt"

	appErrors "github.com/runvoy/ecstasks/internal/errors"

	"github.com/aws/smithy-go"
)

// callError keeps the failed operation next to the SDK error.
// API errors are rendered as "<operation>: <code>: <message>".
type callError struct {
	op  string
	err error
}

func (e *callError) Error() string {
	var apiErr smithy.APIError
	if errors.As(e.err, &apiErr) {
		return fmt.Sprintf("%s: %s: %s", e.op, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return e.op + ": " + e.err.Error()
}

func (e *callError) Unwrap() error {
	return e.err
}

func wrapCallError(op string, err error) error {
	return appErrors.ErrTransport(op, &callError{op: op, err: err})
}
