package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/todo/internal/conventions"
	"github.com/slok/todo/internal/log"
	"github.com/slok/todo/internal/model"
	storageio "github.com/slok/todo/internal/storage/io"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	// LogFileStderr is the log file value that sends logs to stderr.
	LogFileStderr = "-"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug        bool
	NoLog        bool
	NoColor      bool
	LoggerType   string
	LogFile      string
	DataFile     string
	SettingsFile string
	AckDelay     time.Duration
	PageSize     int
	Ephemeral    bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable colors.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("log-file", "Log file path, '-' logs to stderr. Defaults to a log file next to the tasks file.").StringVar(&c.LogFile)
	app.Flag("data-file", "Path to the tasks JSON file. Defaults to a file next to the executable.").Envar("TODO_DATA_FILE").StringVar(&c.DataFile)
	app.Flag("config", "Path to an optional YAML settings file.").StringVar(&c.SettingsFile)
	app.Flag("ack-delay", "Wait used instead of a key press when keys can't be read.").DurationVar(&c.AckDelay)
	app.Flag("page-size", "Number of visible menu choices.").IntVar(&c.PageSize)
	app.Flag("ephemeral", "Keep tasks in memory only, nothing is loaded or saved.").BoolVar(&c.Ephemeral)

	return c
}

// LoadSettings reads the settings file (if any) from fsys and fills the
// options not set with flags, the rest get the defaults.
func (c *RootCommand) LoadSettings(ctx context.Context, fsys fs.FS) error {
	if c.SettingsFile != "" {
		path, err := filepath.Abs(c.SettingsFile)
		if err != nil {
			return fmt.Errorf("could not resolve settings file path: %w", err)
		}

		settings, err := storageio.NewSettingsYAMLRepository(fsys).GetSettings(ctx, path[1:])
		if err != nil {
			return fmt.Errorf("could not load settings: %w", err)
		}

		c.applySettings(settings)
	}

	c.applyDefaults()

	return nil
}

func (c *RootCommand) applySettings(s model.Settings) {
	if c.DataFile == "" {
		c.DataFile = s.DataFile
	}

	if c.AckDelay == 0 {
		c.AckDelay = s.AckDelay
	}

	if c.PageSize == 0 {
		c.PageSize = s.PageSize
	}

	c.NoColor = c.NoColor || s.NoColor
}

func (c *RootCommand) applyDefaults() {
	if c.DataFile == "" {
		c.DataFile = conventions.DefaultDataFilePath()
	}

	if c.AckDelay <= 0 {
		c.AckDelay = conventions.DefaultAckDelay
	}

	if c.PageSize <= 0 {
		c.PageSize = conventions.DefaultPageSize
	}

	if c.LogFile == "" {
		c.LogFile = conventions.LogFilePath(c.DataFile)
	}
}
