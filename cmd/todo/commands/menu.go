package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/mattn/go-isatty"

	"github.com/slok/todo/internal/app/menu"
	"github.com/slok/todo/internal/storage"
	"github.com/slok/todo/internal/storage/jsonfile"
	"github.com/slok/todo/internal/storage/memory"
	"github.com/slok/todo/internal/tasklist"
	"github.com/slok/todo/internal/ui"
	"github.com/slok/todo/internal/ui/line"
	"github.com/slok/todo/internal/ui/tui"
)

type MenuCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewMenuCommand returns the menu command, the default one.
func NewMenuCommand(rootCmd *RootCommand, app *kingpin.Application) *MenuCommand {
	c := &MenuCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("menu", "Run the interactive task menu.").Default()

	return c
}

func (c MenuCommand) Name() string { return c.Cmd.FullCommand() }

func (c MenuCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.newRepository()
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}

	u, err := c.newUI()
	if err != nil {
		return fmt.Errorf("could not create ui: %w", err)
	}
	if cl, ok := u.(io.Closer); ok {
		defer cl.Close()
	}

	svc, err := menu.NewService(menu.ServiceConfig{
		Tasks:      tasklist.New(nil),
		Repository: repo,
		UI:         u,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	return svc.Run(ctx)
}

func (c MenuCommand) newRepository() (storage.Repository, error) {
	if c.rootCmd.Ephemeral {
		return memory.NewRepository(memory.RepositoryConfig{
			Logger: c.rootCmd.Logger,
		})
	}

	return jsonfile.NewRepository(jsonfile.RepositoryConfig{
		Path:   c.rootCmd.DataFile,
		Logger: c.rootCmd.Logger,
	})
}

// newUI returns the interactive UI when attached to a terminal and the line UI otherwise.
func (c MenuCommand) newUI() (ui.UI, error) {
	if isTerminal(c.rootCmd.Stdin) && isTerminal(c.rootCmd.Stdout) {
		c.rootCmd.Logger.Debugf("Terminal detected, using interactive UI")
		return tui.New(tui.Config{
			In:       c.rootCmd.Stdin,
			Out:      c.rootCmd.Stdout,
			PageSize: c.rootCmd.PageSize,
			AckDelay: c.rootCmd.AckDelay,
			NoColor:  c.rootCmd.NoColor,
		})
	}

	c.rootCmd.Logger.Debugf("No terminal detected, using line UI")
	return line.New(line.Config{
		In:       c.rootCmd.Stdin,
		Out:      c.rootCmd.Stdout,
		AckDelay: c.rootCmd.AckDelay,
	})
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
