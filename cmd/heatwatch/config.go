package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heatwatch/heatwatch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify heatwatch configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/heatwatch/config.yaml
Project-specific overrides can be placed in .heatwatch.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("workspace: %s\n", cfg.Workspace)
	fmt.Printf("monitor.interval_seconds: %d\n", cfg.Monitor.IntervalSeconds)
	fmt.Printf("monitor.max_status_lines: %d\n", cfg.Monitor.MaxStatusLines)
	fmt.Printf("telemetry.points_per_cycle: %d\n", cfg.Telemetry.PointsPerCycle)
	fmt.Printf("telemetry.spacing_minutes: %d\n", cfg.Telemetry.SpacingMinutes)
	fmt.Printf("telemetry.seed: %d\n", cfg.Telemetry.Seed)
	fmt.Printf("telemetry.catalog: %s\n", orUnset(cfg.Telemetry.Catalog))
	fmt.Printf("analysis.enabled: %t\n", cfg.Analysis.Enabled)
	fmt.Printf("analysis.model: %s\n", cfg.Analysis.Model)
	fmt.Printf("analysis.max_tokens: %d\n", cfg.Analysis.MaxTokens)
	fmt.Printf("analysis.api_key: %s\n", config.MaskAPIKey(cfg.Analysis.APIKey))
	fmt.Printf("analysis.use_bedrock: %t\n", cfg.Analysis.UseBedrock)
	fmt.Printf("analysis.aws_region: %s\n", orUnset(cfg.Analysis.AWSRegion))
	fmt.Printf("analysis.aws_profile: %s\n", orUnset(cfg.Analysis.AWSProfile))

	fmt.Println()
	fmt.Printf("User config: %s\n", config.GetUserConfigPath())
	if p := config.GetProjectConfigPath(); p != "" {
		fmt.Printf("Project config: %s\n", p)
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	display := value
	if strings.ToLower(key) == "analysis.api_key" {
		display = config.MaskAPIKey(value)
	}
	fmt.Printf("Set %s = %s\n", key, display)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "workspace":
		return cfg.Workspace, nil
	case "monitor.interval_seconds":
		return strconv.Itoa(cfg.Monitor.IntervalSeconds), nil
	case "monitor.max_status_lines":
		return strconv.Itoa(cfg.Monitor.MaxStatusLines), nil
	case "telemetry.points_per_cycle":
		return strconv.Itoa(cfg.Telemetry.PointsPerCycle), nil
	case "telemetry.spacing_minutes":
		return strconv.Itoa(cfg.Telemetry.SpacingMinutes), nil
	case "telemetry.seed":
		return strconv.FormatInt(cfg.Telemetry.Seed, 10), nil
	case "telemetry.catalog":
		return orUnset(cfg.Telemetry.Catalog), nil
	case "analysis.enabled":
		return strconv.FormatBool(cfg.Analysis.Enabled), nil
	case "analysis.model":
		return cfg.Analysis.Model, nil
	case "analysis.max_tokens":
		return strconv.Itoa(cfg.Analysis.MaxTokens), nil
	case "analysis.api_key":
		return config.MaskAPIKey(cfg.Analysis.APIKey), nil
	case "analysis.use_bedrock":
		return strconv.FormatBool(cfg.Analysis.UseBedrock), nil
	case "analysis.aws_region":
		return orUnset(cfg.Analysis.AWSRegion), nil
	case "analysis.aws_profile":
		return orUnset(cfg.Analysis.AWSProfile), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "workspace":
		cfg.Workspace = value
	case "monitor.interval_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for interval_seconds: %w", err)
		}
		cfg.Monitor.IntervalSeconds = n
	case "monitor.max_status_lines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_status_lines: %w", err)
		}
		cfg.Monitor.MaxStatusLines = n
	case "telemetry.points_per_cycle":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for points_per_cycle: %w", err)
		}
		cfg.Telemetry.PointsPerCycle = n
	case "telemetry.spacing_minutes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for spacing_minutes: %w", err)
		}
		cfg.Telemetry.SpacingMinutes = n
	case "telemetry.seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for seed: %w", err)
		}
		cfg.Telemetry.Seed = n
	case "telemetry.catalog":
		cfg.Telemetry.Catalog = value
	case "analysis.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for analysis.enabled: %w", err)
		}
		cfg.Analysis.Enabled = b
	case "analysis.model":
		cfg.Analysis.Model = value
	case "analysis.max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_tokens: %w", err)
		}
		cfg.Analysis.MaxTokens = n
	case "analysis.api_key":
		if err := config.ValidateAPIKey(value); err != nil {
			return err
		}
		cfg.Analysis.APIKey = value
	case "analysis.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Analysis.UseBedrock = b
	case "analysis.aws_region":
		cfg.Analysis.AWSRegion = value
	case "analysis.aws_profile":
		cfg.Analysis.AWSProfile = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
