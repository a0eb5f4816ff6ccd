package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/todo/internal/model"
)

// SettingsYAMLRepository loads user settings from YAML files.
type SettingsYAMLRepository struct {
	fs fs.FS
}

// NewSettingsYAMLRepository creates a new YAML settings repository.
func NewSettingsYAMLRepository(filesystem fs.FS) *SettingsYAMLRepository {
	return &SettingsYAMLRepository{fs: filesystem}
}

// GetSettings loads the settings from a YAML file and returns a validated domain model.
func (r *SettingsYAMLRepository) GetSettings(ctx context.Context, path string) (model.Settings, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Settings{}, ctx.Err()
	}

	var s SettingsConfig
	if err := yaml.Unmarshal(data, &s); err != nil {
		return model.Settings{}, fmt.Errorf("parsing YAML: %w", err)
	}

	settings, err := s.toModel()
	if err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

// SettingsConfig represents the YAML structure for the settings file.
type SettingsConfig struct {
	DataFile string `yaml:"data_file"`
	AckDelay string `yaml:"ack_delay"`
	PageSize int    `yaml:"page_size"`
	NoColor  bool   `yaml:"no_color"`
}

func (c SettingsConfig) toModel() (model.Settings, error) {
	if c.PageSize < 0 {
		return model.Settings{}, fmt.Errorf("page_size must be positive, got: %d", c.PageSize)
	}

	var ackDelay time.Duration
	if c.AckDelay != "" {
		d, err := time.ParseDuration(c.AckDelay)
		if err != nil {
			return model.Settings{}, fmt.Errorf("ack_delay: %w", err)
		}
		if d < 0 {
			return model.Settings{}, fmt.Errorf("ack_delay must be positive, got: %s", d)
		}
		ackDelay = d
	}

	return model.Settings{
		DataFile: c.DataFile,
		AckDelay: ackDelay,
		PageSize: c.PageSize,
		NoColor:  c.NoColor,
	}, nil
}
