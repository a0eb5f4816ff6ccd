package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLength is the maximum number of characters of a task description.
const MaxDescriptionLength = 255

// State represents the lifecycle state of a task.
type State string

const (
	// StateNew is the state of a freshly created task.
	StateNew State = "New"
	// StateInProgress is the state of a task that is being worked on.
	StateInProgress State = "InProgress"
	// StateDone is the state of a finished task.
	StateDone State = "Done"
)

// States returns all the task states in lifecycle order.
func States() []State {
	return []State{StateNew, StateInProgress, StateDone}
}

// Valid returns true if the state is one of the known states.
func (s State) Valid() bool {
	switch s {
	case StateNew, StateInProgress, StateDone:
		return true
	default:
		return false
	}
}

// ParseState parses a state name, case insensitive.
func ParseState(s string) (State, error) {
	for _, st := range States() {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", ValidationError{Field: "state", Reason: fmt.Sprintf("unknown state %q", s)}
}

// Task is a single item of the task list.
//
// The description is always trimmed, non-empty and at most MaxDescriptionLength
// characters long; use NewTask or SetDescription to set it.
type Task struct {
	description string
	state       State
}

// NewTask returns a new task in the New state.
func NewTask(description string) (*Task, error) {
	return NewTaskWithState(description, StateNew)
}

// NewTaskWithState returns a new task with a specific state. An empty state
// defaults to New.
func NewTaskWithState(description string, state State) (*Task, error) {
	t := &Task{state: StateNew}
	if err := t.SetDescription(description); err != nil {
		return nil, err
	}
	if state != "" {
		t.SetState(state)
	}
	return t, nil
}

// Description returns the task description.
func (t Task) Description() string { return t.description }

// State returns the task state.
func (t Task) State() State { return t.state }

// SetDescription validates and sets the task description.
func (t *Task) SetDescription(value string) error {
	d, err := ValidateDescription(value)
	if err != nil {
		return err
	}
	t.description = d
	return nil
}

// SetState sets the task state.
func (t *Task) SetState(s State) { t.state = s }

// ValidateDescription returns the trimmed description or a ValidationError.
func ValidateDescription(value string) (string, error) {
	d := strings.TrimSpace(value)
	if d == "" {
		return "", ValidationError{Field: "description", Reason: "cannot be empty"}
	}
	if n := utf8.RuneCountInString(d); n > MaxDescriptionLength {
		return "", ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("cannot exceed %d characters, got %d", MaxDescriptionLength, n),
		}
	}
	return d, nil
}
