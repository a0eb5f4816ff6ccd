package printer

import "github.com/slok/todo/internal/model"

// TaskRow is a task as shown to the user, addressed by its display number.
type TaskRow struct {
	Number      int
	State       model.State
	Description string
}

// Printer knows how to print the task list.
type Printer interface {
	PrintTasks(rows []TaskRow) error
}

// StateRenderer renders the state cell of a row.
type StateRenderer func(s model.State) string
