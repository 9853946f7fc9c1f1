package shell

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUserInput = errors.New("invalid input")

	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errQuit              = errors.New("quit")
)

// InvalidUserInputError is a move choice that is neither an index into
// the move list nor one of the listed moves.
type InvalidUserInputError struct {
	Input  string
	Reason string
}

func (e *InvalidUserInputError) Error() string {
	return fmt.Sprintf("Selected move %s %s", e.Input, e.Reason)
}

func (e *InvalidUserInputError) Unwrap() error {
	return ErrInvalidUserInput
}
