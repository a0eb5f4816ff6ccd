package conventions

import (
	"os"
	"path/filepath"
	"time"

	"k8s.io/client-go/util/homedir"
)

const (
	// DataFileName is the tasks file name.
	DataFileName = "todos.json"
	// LogFileName is the log file name, placed next to the tasks file.
	LogFileName = "todo.log"
	// DefaultDataDir is the fallback data directory name (relative to home).
	DefaultDataDir = ".todo"

	// DefaultAckDelay is the acknowledgment wait when keys can't be read.
	DefaultAckDelay = 2 * time.Second
	// DefaultPageSize is the number of visible menu choices.
	DefaultPageSize = 10
)

// DefaultDataFilePath returns the tasks file path next to the running
// executable, or in the home data directory if the executable can't be resolved.
func DefaultDataFilePath() string {
	return dataFilePath(executableDir)
}

func dataFilePath(exeDir func() (string, error)) string {
	dir, err := exeDir()
	if err != nil || dir == "" {
		return filepath.Join(homedir.HomeDir(), DefaultDataDir, DataFileName)
	}

	return filepath.Join(dir, DataFileName)
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}

	return filepath.Dir(exe), nil
}

// LogFilePath returns the log file path for a tasks file.
func LogFilePath(dataFile string) string {
	return filepath.Join(filepath.Dir(dataFile), LogFileName)
}
