package storage

import (
	"context"

	"github.com/slok/todo/internal/model"
)

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name Repository

// Repository is the interface for task list persistence.
//
// Tasks are always loaded and saved as a whole, in storage order (oldest first).
type Repository interface {
	// Load returns the stored tasks. A repository that has never been saved
	// returns an empty list without error.
	Load(ctx context.Context) ([]model.Task, error)
	// Save replaces the stored tasks with the received ones.
	Save(ctx context.Context, tasks []model.Task) error
	// Exists returns true if the backing storage has been created already.
	Exists(ctx context.Context) bool
	// Path returns a human readable location of the storage.
	Path() string
}
