package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/todo/cmd/todo/commands"
	"github.com/slok/todo/internal/log"
	loglogrus "github.com/slok/todo/internal/log/logrus"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("todo", "Simple terminal task list manager.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	menuCmd := commands.NewMenuCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		menuCmd.Name(): menuCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	if err := rootCmd.LoadSettings(ctx, os.DirFS("/")); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	// Set logger. The menu owns the terminal so logs go to a file unless asked otherwise.
	logOut, closeLog, err := openLogOutput(*rootCmd)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %s, logging disabled\n", err)
		rootCmd.NoLog = true
	}
	defer closeLog()
	rootCmd.Logger = getLogger(ctx, *rootCmd, logOut)

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// openLogOutput returns where logs are written and a function to release it.
func openLogOutput(config commands.RootCommand) (io.Writer, func(), error) {
	noop := func() {}

	switch {
	case config.NoLog:
		return io.Discard, noop, nil
	case config.LogFile == commands.LogFileStderr:
		return config.Stderr, noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(config.LogFile), 0o755); err != nil {
		return io.Discard, noop, fmt.Errorf("could not create log directory: %w", err)
	}

	f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.Discard, noop, fmt.Errorf("could not open log file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

// getLogger returns the application logger.
func getLogger(ctx context.Context, config commands.RootCommand, out io.Writer) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If logger not disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = out
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format. Colors only make sense on stderr.
	colors := !config.NoColor && config.LogFile == commands.LogFileStderr
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   colors,
			DisableColors: !colors,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
