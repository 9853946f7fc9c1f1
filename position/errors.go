package position

import (
	"errors"
	"fmt"
)

var ErrIllegalMove = errors.New("illegal move")

// IllegalMoveError is returned when the rules engine rejects a move.
type IllegalMoveError struct {
	Move string
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("move %s is not legal in %s", e.Move, e.FEN)
}

func (e *IllegalMoveError) Unwrap() error {
	return ErrIllegalMove
}
