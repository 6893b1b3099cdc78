package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Workspace != "." {
		t.Errorf("expected default workspace '.', got %q", cfg.Workspace)
	}

	if cfg.Monitor.IntervalSeconds != 10 {
		t.Errorf("expected default interval 10s, got %d", cfg.Monitor.IntervalSeconds)
	}

	if cfg.Monitor.MaxStatusLines != 10 {
		t.Errorf("expected default max status lines 10, got %d", cfg.Monitor.MaxStatusLines)
	}

	if cfg.Telemetry.PointsPerCycle != 20 {
		t.Errorf("expected default points per cycle 20, got %d", cfg.Telemetry.PointsPerCycle)
	}

	if cfg.Telemetry.SpacingMinutes != 5 {
		t.Errorf("expected default spacing 5m, got %d", cfg.Telemetry.SpacingMinutes)
	}

	if !cfg.Analysis.Enabled {
		t.Error("expected analysis enabled by default")
	}

	if cfg.Analysis.MaxTokens != 1024 {
		t.Errorf("expected default max tokens 1024, got %d", cfg.Analysis.MaxTokens)
	}

	if cfg.Analysis.UseBedrock {
		t.Error("expected bedrock disabled by default")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()

	if got := cfg.Monitor.Interval(); got != 10*time.Second {
		t.Errorf("Interval() = %v, want 10s", got)
	}

	if got := cfg.Telemetry.Spacing(); got != 5*time.Minute {
		t.Errorf("Spacing() = %v, want 5m", got)
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
workspace: /var/lib/heatwatch
monitor:
  interval_seconds: 30
  max_status_lines: 5
telemetry:
  points_per_cycle: 40
  spacing_minutes: 1
  seed: 42
analysis:
  enabled: false
  model: claude-sonnet-4-20250514
  max_tokens: 2048
  api_key: test-key
  use_bedrock: true
  aws_region: us-west-2
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Workspace != "/var/lib/heatwatch" {
		t.Errorf("expected workspace '/var/lib/heatwatch', got %q", cfg.Workspace)
	}

	if cfg.Monitor.IntervalSeconds != 30 {
		t.Errorf("expected interval 30, got %d", cfg.Monitor.IntervalSeconds)
	}

	if cfg.Monitor.MaxStatusLines != 5 {
		t.Errorf("expected max status lines 5, got %d", cfg.Monitor.MaxStatusLines)
	}

	if cfg.Telemetry.PointsPerCycle != 40 {
		t.Errorf("expected points per cycle 40, got %d", cfg.Telemetry.PointsPerCycle)
	}

	if cfg.Telemetry.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Telemetry.Seed)
	}

	if cfg.Analysis.Enabled {
		t.Error("expected analysis disabled")
	}

	if cfg.Analysis.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model %q", cfg.Analysis.Model)
	}

	if cfg.Analysis.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Analysis.APIKey)
	}

	if !cfg.Analysis.UseBedrock {
		t.Error("expected use_bedrock true")
	}

	if cfg.Analysis.AWSRegion != "us-west-2" {
		t.Errorf("expected aws_region 'us-west-2', got %q", cfg.Analysis.AWSRegion)
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// A partial file keeps defaults for everything it omits.
	configContent := `
monitor:
  interval_seconds: 60
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Monitor.IntervalSeconds != 60 {
		t.Errorf("expected interval 60, got %d", cfg.Monitor.IntervalSeconds)
	}

	if cfg.Telemetry.PointsPerCycle != 20 {
		t.Errorf("expected default points per cycle 20, got %d", cfg.Telemetry.PointsPerCycle)
	}

	if !cfg.Analysis.Enabled {
		t.Error("expected analysis enabled by default")
	}
}

func TestExpandEnv(t *testing.T) {
	// Set environment variable
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/heatwatch"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
