// Package config handles configuration loading and management for heatwatch.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for heatwatch.
type Config struct {
	// Workspace is the root directory for data/, images/, analysis/
	// and state/. Defaults to the current directory.
	Workspace string          `mapstructure:"workspace"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
}

// MonitorConfig holds monitor loop settings. Values are fixed at
// startup; the engine never reloads them while running.
type MonitorConfig struct {
	// IntervalSeconds is the wait between cycles.
	IntervalSeconds int `mapstructure:"interval_seconds"`
	// MaxStatusLines caps the engine's activity log.
	MaxStatusLines int `mapstructure:"max_status_lines"`
}

// Interval returns the cycle interval as a duration.
func (m MonitorConfig) Interval() time.Duration {
	return time.Duration(m.IntervalSeconds) * time.Second
}

// TelemetryConfig holds synthetic data generation settings.
type TelemetryConfig struct {
	// PointsPerCycle is the number of rows generated per cycle.
	PointsPerCycle int `mapstructure:"points_per_cycle"`
	// SpacingMinutes is the gap between consecutive sample timestamps.
	SpacingMinutes int `mapstructure:"spacing_minutes"`
	// Seed fixes the random source when non-zero.
	Seed int64 `mapstructure:"seed"`
	// Catalog is an optional YAML catalog file overriding the built-in
	// event classes and sensor channels.
	Catalog string `mapstructure:"catalog"`
}

// Spacing returns the sample spacing as a duration.
func (t TelemetryConfig) Spacing() time.Duration {
	return time.Duration(t.SpacingMinutes) * time.Minute
}

// AnalysisConfig holds AI analysis settings.
type AnalysisConfig struct {
	// Enabled toggles the analysis step; cycles still publish without it.
	Enabled bool `mapstructure:"enabled"`
	// Model overrides the default analysis model when set.
	Model string `mapstructure:"model"`
	// MaxTokens bounds the analysis response.
	MaxTokens int `mapstructure:"max_tokens"`
	// APIKey is the Anthropic API key; ANTHROPIC_API_KEY wins over it.
	APIKey string `mapstructure:"api_key"`
	// UseBedrock routes calls through AWS Bedrock instead of the
	// Anthropic API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region (empty uses the AWS default chain).
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the AWS shared config profile for Bedrock.
	AWSProfile string `mapstructure:"aws_profile"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, HEATWATCH_WORKSPACE)
// 2. Project config (.heatwatch.yaml in current directory or parent)
// 3. User config (~/.config/heatwatch/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	v.BindEnv("analysis.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("workspace", "HEATWATCH_WORKSPACE")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Analysis.APIKey = expandEnv(cfg.Analysis.APIKey)
	cfg.Workspace = expandEnv(cfg.Workspace)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Analysis.APIKey = expandEnv(cfg.Analysis.APIKey)
	cfg.Workspace = expandEnv(cfg.Workspace)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("workspace", cfg.Workspace)
	v.Set("monitor.interval_seconds", cfg.Monitor.IntervalSeconds)
	v.Set("monitor.max_status_lines", cfg.Monitor.MaxStatusLines)
	v.Set("telemetry.points_per_cycle", cfg.Telemetry.PointsPerCycle)
	v.Set("telemetry.spacing_minutes", cfg.Telemetry.SpacingMinutes)
	v.Set("telemetry.seed", cfg.Telemetry.Seed)
	v.Set("telemetry.catalog", cfg.Telemetry.Catalog)
	v.Set("analysis.enabled", cfg.Analysis.Enabled)
	v.Set("analysis.model", cfg.Analysis.Model)
	v.Set("analysis.max_tokens", cfg.Analysis.MaxTokens)
	v.Set("analysis.api_key", cfg.Analysis.APIKey)
	v.Set("analysis.use_bedrock", cfg.Analysis.UseBedrock)
	v.Set("analysis.aws_region", cfg.Analysis.AWSRegion)
	v.Set("analysis.aws_profile", cfg.Analysis.AWSProfile)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("workspace", ".")

	// Monitor defaults
	v.SetDefault("monitor.interval_seconds", 10)
	v.SetDefault("monitor.max_status_lines", 10)

	// Telemetry defaults
	v.SetDefault("telemetry.points_per_cycle", 20)
	v.SetDefault("telemetry.spacing_minutes", 5)
	v.SetDefault("telemetry.seed", 0)
	v.SetDefault("telemetry.catalog", "")

	// Analysis defaults
	v.SetDefault("analysis.enabled", true)
	v.SetDefault("analysis.model", "")
	v.SetDefault("analysis.max_tokens", 1024)
	v.SetDefault("analysis.api_key", "")
	v.SetDefault("analysis.use_bedrock", false)
	v.SetDefault("analysis.aws_region", "")
	v.SetDefault("analysis.aws_profile", "")
}

// getUserConfigDir returns the XDG config directory for heatwatch.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "heatwatch")
	}

	// Fall back to ~/.config/heatwatch
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "heatwatch")
	}
	return filepath.Join(home, ".config", "heatwatch")
}

// findProjectConfig searches for .heatwatch.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".heatwatch.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Workspace: ".",
		Monitor: MonitorConfig{
			IntervalSeconds: 10,
			MaxStatusLines:  10,
		},
		Telemetry: TelemetryConfig{
			PointsPerCycle: 20,
			SpacingMinutes: 5,
			Seed:           0,
			Catalog:        "",
		},
		Analysis: AnalysisConfig{
			Enabled:    true,
			Model:      "",
			MaxTokens:  1024,
			APIKey:     "",
			UseBedrock: false,
		},
	}
}
