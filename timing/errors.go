package timing

import (
	"errors"
	"fmt"
)

var ErrNotSupported = errors.New("operation not supported")

// NotSupportedError names an operation the harness does not know.
type NotSupportedError struct {
	Operation string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("node does not support operation %q", e.Operation)
}

func (e *NotSupportedError) Unwrap() error {
	return ErrNotSupported
}
