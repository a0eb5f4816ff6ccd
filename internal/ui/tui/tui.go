// Package tui implements the UI with bubbletea programs, used when the process
// is attached to a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slok/todo/internal/printer"
	"github.com/slok/todo/internal/ui"
)

// Config is the configuration of the terminal UI.
type Config struct {
	In  io.Reader
	Out io.Writer
	// PageSize is the number of choices visible at once.
	PageSize int
	// AckDelay is the time acknowledgments wait when no key can be read.
	AckDelay time.Duration
	NoColor  bool
}

func (c *Config) defaults() error {
	if c.In == nil {
		return fmt.Errorf("input reader is required")
	}

	if c.Out == nil {
		return fmt.Errorf("output writer is required")
	}

	if c.PageSize <= 0 {
		c.PageSize = 10
	}

	if c.AckDelay < 0 {
		c.AckDelay = 0
	}

	return nil
}

// UI is an interactive terminal ui.UI.
type UI struct {
	in       io.Reader
	out      io.Writer
	pageSize int
	ackDelay time.Duration
	styles   styles
	printer  printer.Printer
}

var _ ui.UI = &UI{}

// New returns a new terminal UI.
func New(cfg Config) (*UI, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := newStyles(lipgloss.NewRenderer(cfg.Out), cfg.NoColor)

	return &UI{
		in:       cfg.In,
		out:      cfg.Out,
		pageSize: cfg.PageSize,
		ackDelay: cfg.AckDelay,
		styles:   s,
		printer:  printer.NewTablePrinter(cfg.Out, s.state),
	}, nil
}

func (u *UI) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(u.in), tea.WithOutput(u.out))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ui.ErrInterrupted, ctx.Err())
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return nil, fmt.Errorf("%w: %w", ui.ErrInterrupted, err)
		}
		return nil, fmt.Errorf("%w: %w", ui.ErrNotInteractive, err)
	}

	return final, nil
}

func (u *UI) Select(ctx context.Context, title string, choices []ui.Choice) (ui.Tag, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices to select from")
	}

	final, err := u.run(ctx, newSelectModel(title, choices, u.pageSize, u.styles))
	if err != nil {
		return "", err
	}

	m := final.(selectModel)
	if m.interrupted || !m.selected {
		return "", ui.ErrInterrupted
	}

	return m.Selected(), nil
}

func (u *UI) Text(ctx context.Context, prompt string) (string, error) {
	final, err := u.run(ctx, newTextModel(prompt, u.styles))
	if err != nil {
		return "", err
	}

	m := final.(textModel)
	if m.interrupted {
		return "", ui.ErrInterrupted
	}

	return m.Value(), nil
}

func (u *UI) Int(ctx context.Context, prompt string) (int, error) {
	v, err := u.Text(ctx, prompt)
	if err != nil {
		return 0, err
	}

	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", v, ui.ErrNotANumber)
	}

	return n, nil
}

func (u *UI) DisplayTasks(_ context.Context, items []ui.Item) error {
	return u.printer.PrintTasks(ui.TaskRows(items))
}

func (u *UI) Header(msg string) {
	fmt.Fprintf(u.out, "\n%s\n", u.styles.header.Render(msg))
}

func (u *UI) Info(msg string) { fmt.Fprintln(u.out, u.styles.info.Render(msg)) }

func (u *UI) Success(msg string) { fmt.Fprintln(u.out, u.styles.success.Render(msg)) }

func (u *UI) Warn(msg string) { fmt.Fprintln(u.out, u.styles.warn.Render(msg)) }

func (u *UI) Error(msg string) { fmt.Fprintln(u.out, u.styles.err.Render(msg)) }

// Acknowledge waits for a key press. If the terminal can't read keys it waits
// the configured delay instead.
func (u *UI) Acknowledge(ctx context.Context) error {
	final, err := u.run(ctx, ackModel{styles: u.styles})
	if err != nil {
		if !errors.Is(err, ui.ErrNotInteractive) {
			return err
		}
		return u.wait(ctx)
	}

	if final.(ackModel).interrupted {
		return ui.ErrInterrupted
	}

	return nil
}

func (u *UI) wait(ctx context.Context) error {
	if u.ackDelay == 0 {
		return nil
	}

	t := time.NewTimer(u.ackDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ui.ErrInterrupted, ctx.Err())
	case <-t.C:
		return nil
	}
}
