// Package config provides configuration management for the bomscope CLI.
package config

import (
	"time"

	shared "github.com/leapstack-labs/bomscope/internal/config"
)

// UIConfig holds configuration for the web UI server.
type UIConfig struct {
	Port          int    `koanf:"port" validate:"gte=0,lte=65535"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
	ToastMS       int    `koanf:"toast_ms" validate:"gte=0"`
}

// ToastDelay returns ToastMS as a duration.
func (u *UIConfig) ToastDelay() time.Duration {
	return time.Duration(u.ToastMS) * time.Millisecond
}

// ExplorerConfig holds simulation explorer settings.
type ExplorerConfig struct {
	PageSize int `koanf:"page_size" validate:"oneof=10 20 50 100"`
}

// Config holds all CLI configuration options.
type Config struct {
	// DataDir holds bom.yaml and simulation.yaml. Empty uses the embedded
	// sample dataset.
	DataDir      string          `koanf:"data_dir"`
	StatePath    string          `koanf:"state_path" validate:"required"`
	Verbose      bool            `koanf:"verbose"`
	OutputFormat string          `koanf:"output" validate:"omitempty,oneof=auto text markdown json"`
	UI           *UIConfig       `koanf:"ui" validate:"required"`
	Explorer     *ExplorerConfig `koanf:"explorer" validate:"required"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = shared.DefaultStateFile
	DefaultOutput    = shared.DefaultOutput
)

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	return &Config{
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
		UI: &UIConfig{
			Port:     shared.DefaultUIPort,
			AutoOpen: true,
			Watch:    true,
			ToastMS:  shared.DefaultToastMS,
		},
		Explorer: &ExplorerConfig{PageSize: shared.DefaultPageSize},
	}
}
