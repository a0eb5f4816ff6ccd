package jsonfile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/storage/jsonfile"
)

func newTask(t *testing.T, desc string, state model.State) model.Task {
	t.Helper()
	task, err := model.NewTaskWithState(desc, state)
	require.NoError(t, err)
	return *task
}

func newRepo(t *testing.T, path string) *jsonfile.Repository {
	t.Helper()
	repo, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{Path: path, Logger: log.Noop})
	require.NoError(t, err)
	return repo
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := jsonfile.NewRepository(jsonfile.RepositoryConfig{})
	assert.Error(t, err)
}

func TestRepositoryLoad(t *testing.T) {
	tests := map[string]struct {
		content  *string
		expTasks []model.Task
		expErr   bool
		errMsg   string
	}{
		"A missing file should load an empty list.": {
			content:  nil,
			expTasks: []model.Task{},
		},
		"An empty file should load an empty list.": {
			content:  ptr(""),
			expTasks: []model.Task{},
		},
		"A whitespace only file should load an empty list.": {
			content:  ptr("  \n\t \n"),
			expTasks: []model.Task{},
		},
		"A null document should load an empty list.": {
			content:  ptr(" null\n"),
			expTasks: []model.Task{},
		},
		"An empty array should load an empty list.": {
			content:  ptr("[]"),
			expTasks: []model.Task{},
		},
		"Tasks should be loaded in file order.": {
			content: ptr(`[
  {"description": "A", "state": "New"},
  {"description": "B", "state": "InProgress"},
  {"description": "C", "state": "Done"}
]`),
			expTasks: []model.Task{
				newTask(t, "A", model.StateNew),
				newTask(t, "B", model.StateInProgress),
				newTask(t, "C", model.StateDone),
			},
		},
		"A record without state should default to New.": {
			content:  ptr(`[{"description": "A"}]`),
			expTasks: []model.Task{newTask(t, "A", model.StateNew)},
		},
		"A record with null state should default to New.": {
			content:  ptr(`[{"description": "A", "state": null}]`),
			expTasks: []model.Task{newTask(t, "A", model.StateNew)},
		},
		"Ordinal states should be accepted.": {
			content:  ptr(`[{"description": "A", "state": 1}, {"description": "B", "state": 2}]`),
			expTasks: []model.Task{newTask(t, "A", model.StateInProgress), newTask(t, "B", model.StateDone)},
		},
		"Whole number ordinals written as decimals should be accepted.": {
			content:  ptr(`[{"description": "A", "state": 1.0}, {"description": "B", "state": 2e0}]`),
			expTasks: []model.Task{newTask(t, "A", model.StateInProgress), newTask(t, "B", model.StateDone)},
		},
		"State names should be case insensitive.": {
			content:  ptr(`[{"description": "A", "state": "inProgress"}]`),
			expTasks: []model.Task{newTask(t, "A", model.StateInProgress)},
		},
		"Descriptions should be trimmed.": {
			content:  ptr(`[{"description": "  A  "}]`),
			expTasks: []model.Task{newTask(t, "A", model.StateNew)},
		},
		"Unknown fields should be ignored.": {
			content:  ptr(`[{"description": "A", "state": "Done", "priority": 3}]`),
			expTasks: []model.Task{newTask(t, "A", model.StateDone)},
		},
		"Invalid JSON should fail.": {
			content: ptr(`[{"description": "A",`),
			expErr:  true,
			errMsg:  "parsing JSON",
		},
		"A non array document should fail.": {
			content: ptr(`{"description": "A"}`),
			expErr:  true,
			errMsg:  "invalid document",
		},
		"A record without description should fail the whole load.": {
			content: ptr(`[{"description": "A"}, {"state": "New"}]`),
			expErr:  true,
			errMsg:  "[1]",
		},
		"A record with an empty description should fail the whole load.": {
			content: ptr(`[{"description": "A"}, {"description": "   "}]`),
			expErr:  true,
			errMsg:  "[1].description",
		},
		"A record with an overlong description should fail the whole load.": {
			content: ptr(`[{"description": "` + strings.Repeat("a", 256) + `"}]`),
			expErr:  true,
			errMsg:  "[0].description",
		},
		"A record with a non string description should fail the whole load.": {
			content: ptr(`[{"description": 42}]`),
			expErr:  true,
			errMsg:  "[0].description",
		},
		"A record with an unknown state should fail the whole load.": {
			content: ptr(`[{"description": "A", "state": "Blocked"}]`),
			expErr:  true,
			errMsg:  "[0].state",
		},
		"A record with an unknown state ordinal should fail the whole load.": {
			content: ptr(`[{"description": "A", "state": 7}]`),
			expErr:  true,
			errMsg:  "[0].state",
		},
		"A record with a fractional state ordinal should fail the whole load.": {
			content: ptr(`[{"description": "A", "state": 1.5}]`),
			expErr:  true,
			errMsg:  "[0].state",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			path := filepath.Join(t.TempDir(), "todos.json")
			if test.content != nil {
				require.NoError(os.WriteFile(path, []byte(*test.content), 0o644))
			}

			repo := newRepo(t, path)
			tasks, err := repo.Load(context.Background())

			if test.expErr {
				require.Error(err)
				assert.ErrorIs(err, model.ErrPersistence)
				assert.Contains(err.Error(), test.errMsg)
				return
			}

			require.NoError(err)
			assert.Equal(test.expTasks, tasks)
		})
	}
}

func TestRepositoryLoadInvalidRecordIsValidationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"description": ""}]`), 0o644))

	_, err := newRepo(t, path).Load(context.Background())

	var verr model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "[0].description", verr.Field)
}

func TestRepositoryLoadNonArrayDocumentError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"description": "A"}`), 0o644))

	_, err := newRepo(t, path).Load(context.Background())
	require.Error(t, err)

	var verr model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "document", verr.Field)
	assert.Equal(t, 1, strings.Count(err.Error(), "invalid document"))
}

func TestRepositoryLoadReadError(t *testing.T) {
	// A directory in place of the file makes the read fail.
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := newRepo(t, path).Load(context.Background())
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Contains(t, err.Error(), "reading file")
}

func TestRepositorySaveLoadRoundTrip(t *testing.T) {
	tests := map[string]struct {
		tasks []model.Task
	}{
		"An empty list.": {
			tasks: []model.Task{},
		},
		"A single task.": {
			tasks: []model.Task{newTask(t, "Buy milk", model.StateNew)},
		},
		"Multiple tasks in every state.": {
			tasks: []model.Task{
				newTask(t, "A", model.StateDone),
				newTask(t, "B", model.StateNew),
				newTask(t, "C", model.StateInProgress),
				newTask(t, `Quotes " and unicode ñ ✓`, model.StateNew),
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()

			path := filepath.Join(t.TempDir(), "todos.json")
			require.NoError(newRepo(t, path).Save(ctx, test.tasks))

			got, err := newRepo(t, path).Load(ctx)
			require.NoError(err)
			assert.Equal(t, test.tasks, got)
		})
	}
}

func TestRepositorySaveFormat(t *testing.T) {
	tests := map[string]struct {
		tasks      []model.Task
		expContent string
	}{
		"An empty list should be an empty array.": {
			tasks:      nil,
			expContent: "[]\n",
		},
		"Tasks should be indented with lower camel case fields.": {
			tasks: []model.Task{newTask(t, "A", model.StateNew), newTask(t, "B", model.StateInProgress)},
			expContent: `[
  {
    "description": "A",
    "state": "New"
  },
  {
    "description": "B",
    "state": "InProgress"
  }
]
`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			path := filepath.Join(t.TempDir(), "todos.json")
			require.NoError(newRepo(t, path).Save(context.Background(), test.tasks))

			data, err := os.ReadFile(path)
			require.NoError(err)
			assert.Equal(t, test.expContent, string(data))
		})
	}
}

func TestRepositorySaveCreatesDirectory(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "a", "b", "todos.json")
	repo := newRepo(t, path)
	assert.False(t, repo.Exists(ctx))

	require.NoError(repo.Save(ctx, []model.Task{newTask(t, "A", model.StateNew)}))
	assert.True(t, repo.Exists(ctx))
	assert.Equal(t, path, repo.Path())
}

func TestRepositorySaveOverwrites(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "todos.json")
	repo := newRepo(t, path)
	require.NoError(repo.Save(ctx, []model.Task{newTask(t, "A", model.StateNew), newTask(t, "B", model.StateNew)}))
	require.NoError(repo.Save(ctx, []model.Task{newTask(t, "C", model.StateDone)}))

	got, err := repo.Load(ctx)
	require.NoError(err)
	assert.Equal(t, []model.Task{newTask(t, "C", model.StateDone)}, got)
}

func TestRepositorySaveError(t *testing.T) {
	// A regular file in place of the parent directory makes the save fail.
	dir := t.TempDir()
	parent := filepath.Join(dir, "parent")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	err := newRepo(t, filepath.Join(parent, "todos.json")).Save(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrPersistence)
}

func TestRepositorySaveAfterUnreadableLoadKeepsBackup(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "todos.json")
	broken := []byte(`[{"description": "precious"`)
	require.NoError(os.WriteFile(path, broken, 0o644))

	repo := newRepo(t, path)
	_, err := repo.Load(ctx)
	require.Error(err)

	require.NoError(repo.Save(ctx, []model.Task{newTask(t, "A", model.StateNew)}))

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(err)
	assert.Equal(broken, bak)

	got, err := repo.Load(ctx)
	require.NoError(err)
	assert.Len(got, 1)

	// Only the first save after the failed load writes the backup.
	require.NoError(repo.Save(ctx, nil))
	bak, err = os.ReadFile(path + ".bak")
	require.NoError(err)
	assert.Equal(broken, bak)
}

func TestRepositorySaveWithoutFailedLoadHasNoBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.json")

	repo := newRepo(t, path)
	require.NoError(t, repo.Save(ctx, nil))
	require.NoError(t, repo.Save(ctx, nil))

	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))
}

func TestRepositoryContextCancellation(t *testing.T) {
	repo := newRepo(t, filepath.Join(t.TempDir(), "todos.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, context.Canceled, repo.Save(ctx, nil))
}

func ptr(s string) *string { return &s }
