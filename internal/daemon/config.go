// Package daemon wires the engine together: configuration, database,
// skill registry, executor, and the HTTP API server.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the engine configuration, loaded from TOML.
type Config struct {
	API      APIConfig      `toml:"api"`
	Storage  StorageConfig  `toml:"storage"`
	Executor ExecutorConfig `toml:"executor"`
	Credits  CreditsConfig  `toml:"credits"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig controls where the SQLite database lives.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// ExecutorConfig controls skill execution limits.
type ExecutorConfig struct {
	MaxConcurrent  int    `toml:"max_concurrent"`
	DefaultTimeout string `toml:"default_timeout"` // Go duration string, e.g. "2m"
}

// CreditsConfig controls account defaults.
type CreditsConfig struct {
	// WelcomeCredits is granted when an account is first created.
	WelcomeCredits int64 `toml:"welcome_credits"`
	// HumanizeCost seeds the humanize skill's pricing row. Admin edits
	// via `contentengine skills set-cost` survive restarts.
	HumanizeCost int64 `toml:"humanize_cost"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8799,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Executor: ExecutorConfig{
			MaxConcurrent:  4,
			DefaultTimeout: "2m",
		},
		Credits: CreditsConfig{
			WelcomeCredits: 100,
			HumanizeCost:   5,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".contentengine"
	}
	return filepath.Join(home, ".contentengine")
}

// LoadConfig reads cfg from path, falling back to defaults for anything
// the file omits. A missing file is not an error: defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(defaultDataDir(), "config.toml")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
