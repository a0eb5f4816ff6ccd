// Package ui has the terminal collaborator used by the menu to talk with the user.
//
// The menu only knows about the UI interface, implementations live in the
// subpackages: tui for interactive terminals and line for plain line based I/O.
package ui

import (
	"context"
	"errors"

	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/printer"
)

var (
	// ErrInterrupted is returned when the user aborts a prompt (Ctrl+C, end of input).
	ErrInterrupted = errors.New("interrupted")
	// ErrNotInteractive is returned when the terminal can't run interactive prompts.
	ErrNotInteractive = errors.New("interactive prompts not available")
	// ErrNotANumber is returned by numeric prompts on malformed input.
	ErrNotANumber = errors.New("not a number")
)

// Tag identifies a choice independently of its display text.
type Tag string

// Choice is a selectable option.
type Choice struct {
	Tag   Tag
	Label string
}

// Item is a task ready to be displayed.
type Item struct {
	Number      int
	Description string
	State       model.State
}

// UI is the terminal collaborator.
type UI interface {
	// Select shows the choices and returns the tag of the selected one.
	Select(ctx context.Context, title string, choices []Choice) (Tag, error)
	// Text asks for a line of free text.
	Text(ctx context.Context, prompt string) (string, error)
	// Int asks for a number, empty input reads as 0.
	Int(ctx context.Context, prompt string) (int, error)
	// DisplayTasks shows the task list.
	DisplayTasks(ctx context.Context, items []Item) error
	Header(msg string)
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
	// Acknowledge blocks until the user presses a key, or waits a fixed
	// delay when that is not possible.
	Acknowledge(ctx context.Context) error
}

// Label is the visual representation of a value.
type Label struct {
	Text string
	// Color is an ANSI color code, empty means the terminal default.
	Color string
}

// StateLabel returns the label of a task state.
func StateLabel(s model.State) Label {
	switch s {
	case model.StateNew:
		return Label{Text: "New", Color: "12"}
	case model.StateInProgress:
		return Label{Text: "In Progress", Color: "11"}
	case model.StateDone:
		return Label{Text: "Done", Color: "10"}
	}

	return Label{Text: string(s)}
}

// TaskRows converts the items into printer rows.
func TaskRows(items []Item) []printer.TaskRow {
	rows := make([]printer.TaskRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, printer.TaskRow{
			Number:      it.Number,
			State:       it.State,
			Description: it.Description,
		})
	}
	return rows
}
