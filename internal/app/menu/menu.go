// Package menu is the interactive menu loop that drives the task list.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/storage"
	"github.com/slok/todo/internal/tasklist"
	"github.com/slok/todo/internal/ui"
)

// Menu choice tags.
const (
	TagView    ui.Tag = "view"
	TagAdd     ui.Tag = "add"
	TagUpdate  ui.Tag = "update"
	TagDelete  ui.Tag = "delete"
	TagExit    ui.Tag = "exit"
	TagConfirm ui.Tag = "confirm"
	TagCancel  ui.Tag = "cancel"
)

var mainChoices = []ui.Choice{
	{Tag: TagView, Label: "📋 View all tasks"},
	{Tag: TagAdd, Label: "➕ Add new task"},
	{Tag: TagUpdate, Label: "✏️ Update task status"},
	{Tag: TagDelete, Label: "🗑️ Delete task"},
	{Tag: TagExit, Label: "🚪 Exit application"},
}

type state int

const (
	stateMainMenu state = iota
	stateViewing
	stateAdding
	stateUpdating
	stateDeleting
	stateExiting
)

func (s state) String() string {
	switch s {
	case stateMainMenu:
		return "main-menu"
	case stateViewing:
		return "viewing"
	case stateAdding:
		return "adding"
	case stateUpdating:
		return "updating"
	case stateDeleting:
		return "deleting"
	case stateExiting:
		return "exiting"
	}
	return "unknown"
}

// ServiceConfig is the configuration for the menu service.
type ServiceConfig struct {
	// Tasks is the in-memory list, it's populated from the repository on start.
	Tasks      *tasklist.List
	Repository storage.Repository
	UI         ui.UI
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.UI == nil {
		return fmt.Errorf("ui is required")
	}

	if c.Tasks == nil {
		c.Tasks = tasklist.New(nil)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "menu.Service"})

	return nil
}

// Service runs the interactive menu until the user exits.
type Service struct {
	tasks  *tasklist.List
	repo   storage.Repository
	ui     ui.UI
	logger log.Logger
}

// NewService creates a new menu service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tasks:  cfg.Tasks,
		repo:   cfg.Repository,
		ui:     cfg.UI,
		logger: cfg.Logger,
	}, nil
}

// Run loads the stored tasks and runs the menu loop. It returns when the user
// exits, the input is interrupted or the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.ui.Header("Simple ToDo Application")
	s.load(ctx)

	st := stateMainMenu
	for st != stateExiting {
		if ctx.Err() != nil {
			break
		}

		next := s.step(ctx, st)
		s.logger.Debugf("Menu transition %s -> %s", st, next)
		st = next
	}

	s.ui.Success("Thank you for using Simple ToDo!")
	return nil
}

func (s *Service) load(ctx context.Context) {
	s.ui.Info("Loading existing tasks...")

	existed := s.repo.Exists(ctx)
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warningf("Could not load tasks from %s: %s", s.repo.Path(), err)
		s.tasks.Replace(nil)
		s.ui.Warn(fmt.Sprintf("Warning: Could not load existing tasks: %s", err))
		s.ui.Info("Starting with empty task list.")
		return
	}

	s.tasks.Replace(tasks)
	s.logger.Infof("Loaded %d tasks from %s", len(tasks), s.repo.Path())

	switch {
	case len(tasks) > 0:
		s.ui.Info(fmt.Sprintf("Loaded %d existing task(s).", len(tasks)))
	case existed:
		s.ui.Info("No existing tasks found.")
	default:
		s.ui.Info("Starting with empty task list.")
	}
}

func (s *Service) step(ctx context.Context, st state) state {
	switch st {
	case stateMainMenu:
		return s.mainMenu(ctx)
	case stateViewing:
		return s.runAction(ctx, st, s.view)
	case stateAdding:
		return s.runAction(ctx, st, s.add)
	case stateUpdating:
		return s.runAction(ctx, st, s.update)
	case stateDeleting:
		return s.runAction(ctx, st, s.delete)
	}

	return stateExiting
}

func (s *Service) mainMenu(ctx context.Context) state {
	tag, err := s.ui.Select(ctx, "What would you like to do?", mainChoices)
	switch {
	case err == nil:
	case errors.Is(err, ui.ErrInterrupted) || ctx.Err() != nil:
		return stateExiting
	case errors.Is(err, ui.ErrNotInteractive):
		s.logger.Warningf("Interactive menu not available: %s", err)
		s.ui.Warn("Note: Interactive menus not available in this terminal mode.")
		s.ui.Info("Application will exit automatically.")
		_ = s.ui.Acknowledge(ctx)
		return stateExiting
	default:
		s.logger.Errorf("Could not read menu selection: %s", err)
		s.ui.Error("Invalid selection. Please try again.")
		return stateMainMenu
	}

	switch tag {
	case TagView:
		return stateViewing
	case TagAdd:
		return stateAdding
	case TagUpdate:
		return stateUpdating
	case TagDelete:
		return stateDeleting
	case TagExit:
		return stateExiting
	}

	s.ui.Error("Invalid selection. Please try again.")
	return stateMainMenu
}

// runAction runs a menu action and returns to the main menu, any unexpected
// error or panic is reported and the loop continues.
func (s *Service) runAction(ctx context.Context, st state, action func(context.Context) error) (next state) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("Unexpected panic while %s: %v", st, r)
			s.ui.Error("An unexpected error occurred. Please try again.")
			next = stateMainMenu
		}
	}()

	err := action(ctx)
	switch {
	case err == nil:
		return stateMainMenu
	case errors.Is(err, ui.ErrInterrupted) || ctx.Err() != nil:
		return stateExiting
	}

	s.logger.Errorf("Unexpected error while %s: %s", st, err)
	s.ui.Error("An unexpected error occurred. Please try again.")
	return stateMainMenu
}

func (s *Service) items() []ui.Item {
	items := make([]ui.Item, 0, s.tasks.Len())
	for n, t := range s.tasks.ListForDisplay() {
		items = append(items, ui.Item{Number: n, Description: t.Description(), State: t.State()})
	}
	return items
}

func (s *Service) view(ctx context.Context) error {
	s.ui.Header("📋 View All Tasks")

	if s.tasks.Len() == 0 {
		s.ui.Info("No tasks found. Add some tasks to get started!")
		return s.ui.Acknowledge(ctx)
	}

	s.ui.Info(fmt.Sprintf("Found %d task(s):", s.tasks.Len()))
	if err := s.ui.DisplayTasks(ctx, s.items()); err != nil {
		return fmt.Errorf("could not display tasks: %w", err)
	}

	return s.ui.Acknowledge(ctx)
}

func (s *Service) add(ctx context.Context) error {
	s.ui.Header("➕ Add New Task")

	for {
		desc, err := s.ui.Text(ctx, "Task description (empty to cancel):")
		if err != nil {
			return err
		}

		if strings.TrimSpace(desc) == "" {
			s.ui.Info("Cancelled, no task added.")
			return s.ui.Acknowledge(ctx)
		}

		t, err := s.tasks.Add(desc)
		if err != nil {
			if errors.Is(err, model.ErrNotValid) {
				s.ui.Error(fmt.Sprintf("Invalid task: %s. Please try again.", err))
				continue
			}
			return fmt.Errorf("could not add task: %w", err)
		}

		s.logger.Debugf("Task added, %d tasks in list", s.tasks.Len())
		s.save(ctx, fmt.Sprintf("Task %q added.", t.Description()))

		return s.ui.Acknowledge(ctx)
	}
}

func (s *Service) update(ctx context.Context) error {
	s.ui.Header("✏️ Update Task Status")

	n, ok, err := s.selectTask(ctx, "update")
	if err != nil {
		return err
	}
	if !ok {
		return s.ui.Acknowledge(ctx)
	}

	t, err := s.tasks.Get(n)
	if err != nil {
		return fmt.Errorf("could not get task: %w", err)
	}

	choices := make([]ui.Choice, 0, len(model.States())+1)
	for _, st := range model.States() {
		choices = append(choices, ui.Choice{Tag: ui.Tag(st), Label: ui.StateLabel(st).Text})
	}
	choices = append(choices, ui.Choice{Tag: TagCancel, Label: "Cancel"})

	title := fmt.Sprintf("Task %d %q is %s. Select the new state:", n, t.Description(), ui.StateLabel(t.State()).Text)
	tag, err := s.ui.Select(ctx, title, choices)
	if err != nil {
		return err
	}

	if tag == TagCancel {
		s.ui.Info("Cancelled, task not changed.")
		return s.ui.Acknowledge(ctx)
	}

	newState, err := model.ParseState(string(tag))
	if err != nil {
		return fmt.Errorf("unknown state selection: %w", err)
	}

	res, err := s.tasks.UpdateState(n, newState)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}

	if !res.Changed {
		s.ui.Info(fmt.Sprintf("Task %q is already %s, nothing changed.", res.Task.Description(), ui.StateLabel(res.New).Text))
		return s.ui.Acknowledge(ctx)
	}

	s.logger.Debugf("Task state changed from %s to %s", res.Old, res.New)
	s.save(ctx, fmt.Sprintf("Task %q changed from %s to %s.",
		res.Task.Description(), ui.StateLabel(res.Old).Text, ui.StateLabel(res.New).Text))

	return s.ui.Acknowledge(ctx)
}

func (s *Service) delete(ctx context.Context) error {
	s.ui.Header("🗑️ Delete Task")

	n, ok, err := s.selectTask(ctx, "delete")
	if err != nil {
		return err
	}
	if !ok {
		return s.ui.Acknowledge(ctx)
	}

	t, err := s.tasks.Get(n)
	if err != nil {
		return fmt.Errorf("could not get task: %w", err)
	}

	tag, err := s.ui.Select(ctx, fmt.Sprintf("Delete task %d %q?", n, t.Description()), []ui.Choice{
		{Tag: TagConfirm, Label: "Delete"},
		{Tag: TagCancel, Label: "Cancel"},
	})
	if err != nil {
		return err
	}

	if tag != TagConfirm {
		s.ui.Info("Cancelled, task not deleted.")
		return s.ui.Acknowledge(ctx)
	}

	removed, err := s.tasks.Delete(n)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}

	s.logger.Debugf("Task deleted, %d tasks in list", s.tasks.Len())
	s.save(ctx, fmt.Sprintf("Task %q deleted.", removed.Description()))

	return s.ui.Acknowledge(ctx)
}

// selectTask shows the list and asks for a display number until a valid one
// is entered. It returns false when there are no tasks or the user cancels.
func (s *Service) selectTask(ctx context.Context, verb string) (int, bool, error) {
	if s.tasks.Len() == 0 {
		s.ui.Info("No tasks found. Add some tasks to get started!")
		return 0, false, nil
	}

	if err := s.ui.DisplayTasks(ctx, s.items()); err != nil {
		return 0, false, fmt.Errorf("could not display tasks: %w", err)
	}

	for {
		prompt := fmt.Sprintf("Task number to %s (1-%d, 0 to cancel):", verb, s.tasks.Len())
		n, err := s.ui.Int(ctx, prompt)
		if err != nil {
			if errors.Is(err, ui.ErrNotANumber) {
				s.ui.Error("Invalid selection. Please enter a task number.")
				continue
			}
			return 0, false, err
		}

		if n == 0 {
			s.ui.Info("Cancelled.")
			return 0, false, nil
		}

		if _, err := s.tasks.DisplayIndexToStorageIndex(n); err != nil {
			if errors.Is(err, model.ErrOutOfRange) {
				s.ui.Error(fmt.Sprintf("Invalid selection: %s.", err))
				continue
			}
			return 0, false, err
		}

		return n, true, nil
	}
}

// save persists the whole list. On failure the in-memory change is kept.
func (s *Service) save(ctx context.Context, successMsg string) {
	err := s.repo.Save(ctx, s.tasks.Tasks())
	if err != nil {
		s.logger.Errorf("Could not save tasks to %s: %s", s.repo.Path(), err)
		s.ui.Error(fmt.Sprintf("Could not save tasks: %s", err))
		s.ui.Warn("The change is kept in memory only and will be lost on exit if no later save succeeds.")
		return
	}

	s.ui.Success(successMsg)
}
