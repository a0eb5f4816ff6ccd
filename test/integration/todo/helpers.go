package todo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/todo/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "todo"
	}

	// go test changes the CWD to the test package directory, relative paths are not reliable.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("TODO_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("todo binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TODO_INTEGRATION"
		envBinary     = "TODO_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunTodoCmd runs a todo session on a specific tasks file with the given user input.
// It suppresses logging output for cleaner test output.
func RunTodoCmd(ctx context.Context, config Config, dataFile string, input ...string) (stdout, stderr []byte, err error) {
	args := []string{"--ack-delay", "1ms", "--data-file", dataFile}
	return testutils.RunTodo(ctx, nil, config.Binary, args, testutils.Input(input...), true)
}
