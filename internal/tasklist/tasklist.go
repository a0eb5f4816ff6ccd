// Package tasklist holds the in-memory task list and its addressing rules.
//
// Tasks are kept in storage order (oldest first) and addressed by display
// number: 1 is the most recently added task and Len() the oldest one.
package tasklist

import (
	"iter"
	"slices"

	"github.com/slok/todo/internal/model"
)

// List is the ordered task collection. It owns its tasks, every accessor
// returns copies.
type List struct {
	tasks []model.Task
}

// New returns a list with the tasks in storage order.
func New(tasks []model.Task) *List {
	l := &List{}
	l.Replace(tasks)
	return l
}

// Replace sets the list contents, in storage order.
func (l *List) Replace(tasks []model.Task) {
	l.tasks = slices.Clone(tasks)
	if l.tasks == nil {
		l.tasks = []model.Task{}
	}
}

// Len returns the number of tasks.
func (l *List) Len() int { return len(l.tasks) }

// Tasks returns a copy of the tasks in storage order.
func (l *List) Tasks() []model.Task {
	return slices.Clone(l.tasks)
}

// Add appends a new task in the New state.
func (l *List) Add(description string) (model.Task, error) {
	t, err := model.NewTask(description)
	if err != nil {
		return model.Task{}, err
	}
	l.tasks = append(l.tasks, *t)

	return *t, nil
}

// DisplayIndexToStorageIndex translates a 1-based display number into the
// 0-based storage index.
func (l *List) DisplayIndexToStorageIndex(n int) (int, error) {
	size := len(l.tasks)
	if n < 1 || n > size {
		return 0, model.RangeError{Index: n, Len: size}
	}
	return size - n, nil
}

// Get returns the task at a display number.
func (l *List) Get(n int) (model.Task, error) {
	i, err := l.DisplayIndexToStorageIndex(n)
	if err != nil {
		return model.Task{}, err
	}
	return l.tasks[i], nil
}

// UpdateResult is the outcome of a state update.
type UpdateResult struct {
	// Changed is false when the task already had the requested state.
	Changed bool
	Old     model.State
	New     model.State
	// Task is the task after the update.
	Task model.Task
}

// UpdateState sets the state of the task at a display number.
func (l *List) UpdateState(n int, state model.State) (UpdateResult, error) {
	i, err := l.DisplayIndexToStorageIndex(n)
	if err != nil {
		return UpdateResult{}, err
	}

	old := l.tasks[i].State()
	if old == state {
		return UpdateResult{Changed: false, Old: old, New: state, Task: l.tasks[i]}, nil
	}

	l.tasks[i].SetState(state)

	return UpdateResult{Changed: true, Old: old, New: state, Task: l.tasks[i]}, nil
}

// Delete removes the task at a display number and returns it.
func (l *List) Delete(n int) (model.Task, error) {
	i, err := l.DisplayIndexToStorageIndex(n)
	if err != nil {
		return model.Task{}, err
	}

	removed := l.tasks[i]
	l.tasks = slices.Delete(l.tasks, i, i+1)

	return removed, nil
}

// ListForDisplay returns the (display number, task) pairs from the newest task
// to the oldest. The sequence reads the list when iterated, not when created.
func (l *List) ListForDisplay() iter.Seq2[int, model.Task] {
	return func(yield func(int, model.Task) bool) {
		size := len(l.tasks)
		for n := 1; n <= size; n++ {
			if !yield(n, l.tasks[size-n]) {
				return
			}
		}
	}
}
