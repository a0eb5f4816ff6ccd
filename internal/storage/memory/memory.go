package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// Tasks are the initial stored tasks, if any.
	Tasks  []model.Task
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	tasks  []model.Task
	saved  bool
	mu     sync.RWMutex
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		tasks:  copyTasks(cfg.Tasks),
		saved:  cfg.Tasks != nil,
		logger: cfg.Logger,
	}, nil
}

// Load returns a copy of the stored tasks.
func (r *Repository) Load(ctx context.Context) ([]model.Task, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return copyTasks(r.tasks), nil
}

// Save stores a copy of the tasks.
func (r *Repository) Save(ctx context.Context, tasks []model.Task) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = copyTasks(tasks)
	r.saved = true
	r.logger.Debugf("Saved %d tasks in repository", len(tasks))

	return nil
}

// Exists returns true if the repository has stored tasks at least once.
func (r *Repository) Exists(_ context.Context) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saved
}

// Path returns the repository location.
func (r *Repository) Path() string { return "memory" }

func copyTasks(tasks []model.Task) []model.Task {
	c := make([]model.Task, len(tasks))
	copy(c, tasks)
	return c
}
