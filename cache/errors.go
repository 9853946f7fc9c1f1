package cache

import (
	"errors"
	"fmt"
)

var ErrPersistence = errors.New("score cache persistence failed")

// PersistenceError reports a score that could not be written to durable
// storage. The score itself is still held in memory.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting score for %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
