package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotValid is returned when a task or a value is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrOutOfRange is returned when a task number is outside of the task list.
	ErrOutOfRange = errors.New("out of range")
	// ErrPersistence is returned when the tasks could not be loaded or saved.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError is returned when a task field has an invalid value.
type ValidationError struct {
	// Field is the invalid field (e.g. `description` or `[2].description` when the
	// error comes from a stored record).
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes ValidationError match ErrNotValid.
func (e ValidationError) Is(target error) bool { return target == ErrNotValid }

// RangeError is returned when a display index does not address any task.
type RangeError struct {
	Index int
	Len   int
}

func (e RangeError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("task number %d is out of range: there are no tasks", e.Index)
	}
	return fmt.Sprintf("task number %d is out of range: valid numbers are 1-%d", e.Index, e.Len)
}

// Is makes RangeError match ErrOutOfRange.
func (e RangeError) Is(target error) bool { return target == ErrOutOfRange }

// PersistenceError is returned when the task collection could not be loaded or saved.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not %s tasks file %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes PersistenceError match ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
