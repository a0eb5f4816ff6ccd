// Package jsonfile stores the task list in a single JSON document.
//
// The document is a top-level array with one object per task, in storage order:
//
//	[
//	  {
//	    "description": "Buy milk",
//	    "state": "New"
//	  }
//	]
//
// A record without state is loaded as New. Integer states (0, 1, 2) are accepted
// for files written by older versions that stored the enum ordinal.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
)

const (
	backupSuffix = ".bak"
	filePerm     = 0o644
	dirPerm      = 0o755
)

// RepositoryConfig is the configuration for the JSON file repository.
type RepositoryConfig struct {
	// Path is the tasks file path.
	Path   string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.JSONFile"})

	return nil
}

// Repository is a storage.Repository that persists the tasks in a JSON file.
type Repository struct {
	path   string
	logger log.Logger

	// unreadable is set when the last load found a file it could not read, the
	// next save keeps a backup before replacing it.
	unreadable bool
}

// NewRepository creates a new JSON file repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		path:   cfg.Path,
		logger: cfg.Logger,
	}, nil
}

// taskRecord is the JSON representation of a task.
type taskRecord struct {
	Description string          `json:"description"`
	State       json.RawMessage `json:"state,omitempty"`
}

// Path returns the tasks file path.
func (r *Repository) Path() string { return r.path }

// Exists returns true if the tasks file exists.
func (r *Repository) Exists(_ context.Context) bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// Load reads the tasks from the file. A missing or blank file is an empty list.
func (r *Repository) Load(ctx context.Context) ([]model.Task, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debugf("Tasks file %s does not exist, starting empty", r.path)
			return []model.Task{}, nil
		}
		r.unreadable = true
		return nil, r.loadErr(fmt.Errorf("reading file: %w", err))
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		r.unreadable = true
		return nil, r.loadErr(err)
	}

	r.unreadable = false
	r.logger.Debugf("Loaded %d tasks from %s", len(tasks), r.path)

	return tasks, nil
}

// Save replaces the file contents with the tasks. The file is written to a
// temporary file first and renamed over the old one.
func (r *Repository) Save(ctx context.Context, tasks []model.Task) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := encodeTasks(tasks)
	if err != nil {
		return r.saveErr(fmt.Errorf("encoding JSON: %w", err))
	}

	if err := os.MkdirAll(filepath.Dir(r.path), dirPerm); err != nil {
		return r.saveErr(fmt.Errorf("creating directory: %w", err))
	}

	if r.unreadable {
		if err := r.backup(); err != nil {
			return r.saveErr(fmt.Errorf("backing up unreadable file: %w", err))
		}
		r.unreadable = false
	}

	if err := atomicwriter.WriteFile(r.path, data, filePerm); err != nil {
		return r.saveErr(fmt.Errorf("writing file: %w", err))
	}

	r.logger.Debugf("Saved %d tasks to %s", len(tasks), r.path)

	return nil
}

// backup copies the current file next to it with the backup suffix.
func (r *Repository) backup() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	bak := r.path + backupSuffix
	if err := atomicwriter.WriteFile(bak, data, filePerm); err != nil {
		return err
	}
	r.logger.Warningf("Unreadable tasks file backed up to %s", bak)

	return nil
}

func (r *Repository) loadErr(err error) error {
	return &model.PersistenceError{Op: "load", Path: r.path, Err: err}
}

func (r *Repository) saveErr(err error) error {
	return &model.PersistenceError{Op: "save", Path: r.path, Err: err}
}

func decodeTasks(data []byte) ([]model.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Task{}, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// A null document is an empty list, like a blank file.
	if doc == nil {
		return []model.Task{}, nil
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for i, rec := range records {
		state, err := decodeState(rec.State)
		if err != nil {
			return nil, fmt.Errorf("invalid record: %w", model.ValidationError{
				Field:  fmt.Sprintf("[%d].state", i),
				Reason: err.Error(),
			})
		}

		t, err := model.NewTaskWithState(rec.Description, state)
		if err != nil {
			var verr model.ValidationError
			if errors.As(err, &verr) {
				verr.Field = fmt.Sprintf("[%d].%s", i, verr.Field)
				err = verr
			}
			return nil, fmt.Errorf("invalid record: %w", err)
		}
		tasks = append(tasks, *t)
	}

	return tasks, nil
}

func decodeState(raw json.RawMessage) (model.State, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return model.StateNew, nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if name == "" {
			return model.StateNew, nil
		}
		s, err := model.ParseState(name)
		if err != nil {
			return "", fmt.Errorf("unknown state %q", name)
		}
		return s, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err != nil {
		return "", fmt.Errorf("state must be a name or an ordinal, got %s", raw)
	}
	if num != math.Trunc(num) {
		return "", fmt.Errorf("state ordinal must be a whole number, got %s", raw)
	}
	states := model.States()
	if num < 0 || num >= float64(len(states)) {
		return "", fmt.Errorf("unknown state ordinal %s", raw)
	}

	return states[int(num)], nil
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		state, err := json.Marshal(t.State())
		if err != nil {
			return nil, err
		}
		records = append(records, taskRecord{Description: t.Description(), State: state})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}
