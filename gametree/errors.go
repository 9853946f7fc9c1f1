package gametree

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move for node")

// InvalidMoveError is returned when a child is requested for a move that is
// not legal in the parent position.
type InvalidMoveError struct {
	Move string
	FEN  string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("cannot build node: %s is not legal in %s", e.Move, e.FEN)
}

func (e *InvalidMoveError) Unwrap() error {
	return ErrInvalidMove
}
