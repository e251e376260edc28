package daemon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8799 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8799)
	}
	if cfg.Executor.MaxConcurrent != 4 {
		t.Errorf("Executor.MaxConcurrent = %d, want 4", cfg.Executor.MaxConcurrent)
	}
	if cfg.Credits.WelcomeCredits != 100 {
		t.Errorf("Credits.WelcomeCredits = %d, want 100", cfg.Credits.WelcomeCredits)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be true by default")
	}
}

func TestAPIConfigAddr(t *testing.T) {
	cfg := APIConfig{Host: "0.0.0.0", Port: 9000}
	if got := cfg.Addr(); got != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 8799 {
		t.Errorf("Port = %d, want default 8799", cfg.API.Port)
	}
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[api]\nport = 9988\n\n[credits]\nwelcome_credits = 250\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 9988 {
		t.Errorf("Port = %d, want 9988", cfg.API.Port)
	}
	if cfg.Credits.WelcomeCredits != 250 {
		t.Errorf("WelcomeCredits = %d, want 250", cfg.Credits.WelcomeCredits)
	}
	// Untouched sections keep defaults.
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want default", cfg.API.Host)
	}
	if cfg.Executor.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent = %d, want default 4", cfg.Executor.MaxConcurrent)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not [valid\ntoml ="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}
