// Package line implements the UI over plain line based I/O, used when the
// process is not attached to a terminal.
package line

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/slok/todo/internal/model"
	"github.com/slok/todo/internal/printer"
	"github.com/slok/todo/internal/ui"
)

// Config is the configuration of the line UI.
type Config struct {
	In  io.Reader
	Out io.Writer
	// AckDelay is the time acknowledgments wait.
	AckDelay time.Duration
}

func (c *Config) defaults() error {
	if c.In == nil {
		return fmt.Errorf("input reader is required")
	}

	if c.Out == nil {
		return fmt.Errorf("output writer is required")
	}

	if c.AckDelay < 0 {
		c.AckDelay = 0
	}

	return nil
}

// UI is a line based ui.UI.
type UI struct {
	in       io.Reader
	out      io.Writer
	ackDelay time.Duration
	printer  printer.Printer

	startOnce sync.Once
	closeOnce sync.Once
	lines     chan readResult
	done      chan struct{}
}

type readResult struct {
	line string
	err  error
}

var _ ui.UI = &UI{}

// New returns a new line UI.
func New(cfg Config) (*UI, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &UI{
		in:       cfg.In,
		out:      cfg.Out,
		ackDelay: cfg.AckDelay,
		printer: printer.NewTablePrinter(cfg.Out, func(s model.State) string {
			return ui.StateLabel(s).Text
		}),
		lines: make(chan readResult),
		done:  make(chan struct{}),
	}, nil
}

// Close stops the input reader. A read already blocked on the input returns
// its line to nobody and the reader exits.
func (u *UI) Close() error {
	u.closeOnce.Do(func() { close(u.done) })
	return nil
}

func (u *UI) startReader() {
	go func() {
		defer close(u.lines)
		r := bufio.NewReader(u.in)
		for {
			l, err := r.ReadString('\n')
			var res readResult
			switch {
			case err == nil:
				res = readResult{line: trimEOL(l)}
			case errors.Is(err, io.EOF):
				// Last line without terminator.
				if l == "" {
					return
				}
				res = readResult{line: trimEOL(l)}
			default:
				res = readResult{err: fmt.Errorf("reading input: %w", err)}
			}

			select {
			case u.lines <- res:
			case <-u.done:
				return
			}

			if err != nil {
				return
			}
		}
	}()
}

func trimEOL(l string) string {
	return strings.TrimRight(l, "\r\n")
}

// readLine returns the next input line without the line terminator.
// Reading runs in its own goroutine so a blocked read never holds a cancelled context.
func (u *UI) readLine(ctx context.Context) (string, error) {
	select {
	case <-u.done:
		return "", fmt.Errorf("input closed: %w", ui.ErrInterrupted)
	default:
	}

	u.startOnce.Do(u.startReader)

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ui.ErrInterrupted, ctx.Err())
	case <-u.done:
		return "", fmt.Errorf("input closed: %w", ui.ErrInterrupted)
	case res, ok := <-u.lines:
		if !ok {
			return "", fmt.Errorf("end of input: %w", ui.ErrInterrupted)
		}
		return res.line, res.err
	}
}

func (u *UI) Select(ctx context.Context, title string, choices []ui.Choice) (ui.Tag, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices to select from")
	}

	fmt.Fprintln(u.out, title)
	for i, c := range choices {
		fmt.Fprintf(u.out, "  %d) %s\n", i+1, c.Label)
	}

	for {
		fmt.Fprintf(u.out, "Select an option [1-%d]: ", len(choices))
		l, err := u.readLine(ctx)
		if err != nil {
			return "", err
		}

		n, err := strconv.Atoi(strings.TrimSpace(l))
		if err != nil || n < 1 || n > len(choices) {
			fmt.Fprintln(u.out, "Invalid selection. Please try again.")
			continue
		}

		return choices[n-1].Tag, nil
	}
}

func (u *UI) Text(ctx context.Context, prompt string) (string, error) {
	fmt.Fprintf(u.out, "%s ", prompt)
	return u.readLine(ctx)
}

func (u *UI) Int(ctx context.Context, prompt string) (int, error) {
	fmt.Fprintf(u.out, "%s ", prompt)
	l, err := u.readLine(ctx)
	if err != nil {
		return 0, err
	}

	l = strings.TrimSpace(l)
	if l == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(l)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", l, ui.ErrNotANumber)
	}

	return n, nil
}

func (u *UI) DisplayTasks(_ context.Context, items []ui.Item) error {
	return u.printer.PrintTasks(ui.TaskRows(items))
}

func (u *UI) Header(msg string) { fmt.Fprintf(u.out, "\n== %s ==\n", msg) }

func (u *UI) Info(msg string) { fmt.Fprintln(u.out, msg) }

func (u *UI) Success(msg string) { fmt.Fprintln(u.out, msg) }

func (u *UI) Warn(msg string) { fmt.Fprintln(u.out, msg) }

func (u *UI) Error(msg string) { fmt.Fprintln(u.out, msg) }

// Acknowledge waits the configured delay, there are no keys to press.
func (u *UI) Acknowledge(ctx context.Context) error {
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
