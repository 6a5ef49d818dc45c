package webview

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable   = errors.New("browser engine unavailable")
	ErrBrowserClosed = errors.New("browser closed")
	ErrSessionExists = errors.New("session already exists")
)

// QueryErrorCanceled is the error code delivered to the page side when the
// adapter force-releases a query continuation during teardown.
const QueryErrorCanceled = -1

// EngineError wraps an engine-reported failure with a stable code.
type EngineError struct {
	Code    string
	Message string
	Err     error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("engine error [%s]: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("engine error [%s]: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates an EngineError without a cause.
func NewEngineError(code, message string) *EngineError {
	return &EngineError{Code: code, Message: message}
}

// WrapEngineError wraps an existing error with engine context.
func WrapEngineError(code, message string, err error) *EngineError {
	return &EngineError{Code: code, Message: message, Err: err}
}
