package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/heatwatch/heatwatch/internal/archive"
	"github.com/heatwatch/heatwatch/internal/telemetry"
)

var (
	initForce       bool
	initWithCatalog bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a monitoring workspace",
	Long: `Initialize a directory as a heatwatch workspace.

This command sets up everything needed to start monitoring:
  - Creates the workspace directory tree (data/, images/, analysis/, state/)
  - Writes a .heatwatch.yaml configuration template
  - Optionally writes an editable sensor catalog

The directory argument is optional and defaults to the current directory.

Examples:
  heatwatch init                 # Initialize current directory
  heatwatch init ./plant-7       # Initialize specific directory
  heatwatch init --force         # Overwrite an existing config template
  heatwatch init --with-catalog  # Also write an example sensor catalog`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing .heatwatch.yaml")
	initCmd.Flags().BoolVar(&initWithCatalog, "with-catalog", false, "Write an example sensor catalog (catalog.yaml)")
}

// projectConfigTemplate is the starter project config written by init.
const projectConfigTemplate = `# heatwatch project configuration
# Values here override ~/.config/heatwatch/config.yaml for this directory.

workspace: .

monitor:
  interval_seconds: 10
  max_status_lines: 10

telemetry:
  points_per_cycle: 20
  spacing_minutes: 5
  # seed: 42               # fix the seed for reproducible telemetry
  # catalog: catalog.yaml  # custom sensor/event catalog

analysis:
  enabled: true
  # model: claude-sonnet-4-20250514
  max_tokens: 1024
  # use_bedrock: true
  # aws_region: us-east-1
  # aws_profile: default
`

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing heatwatch workspace in %s...\n\n", absPath)

	ws := archive.NewWorkspace(absPath)
	if err := ws.EnsureLayout(); err != nil {
		printStatus("✗", "Could not create workspace directories", color.FgRed)
		return err
	}
	printStatus("✓", "Created workspace directory structure", color.FgGreen)

	cfgPath := filepath.Join(absPath, ".heatwatch.yaml")
	if _, err := os.Stat(cfgPath); err == nil && !initForce {
		printStatus("✓", ".heatwatch.yaml already exists (use --force to overwrite)", color.FgGreen)
	} else {
		if err := os.WriteFile(cfgPath, []byte(projectConfigTemplate), 0644); err != nil {
			return fmt.Errorf("writing .heatwatch.yaml: %w", err)
		}
		printStatus("✓", "Created .heatwatch.yaml template", color.FgGreen)
	}

	if initWithCatalog {
		catPath := filepath.Join(absPath, "catalog.yaml")
		if err := telemetry.DefaultCatalog().WriteExample(catPath); err != nil {
			return fmt.Errorf("writing example catalog: %w", err)
		}
		printStatus("✓", "Created catalog.yaml (set telemetry.catalog to use it)", color.FgGreen)
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (cycles will run without AI analysis)", color.FgYellow)
	} else {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	fmt.Printf("\n%s heatwatch initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	if apiKey == "" {
		fmt.Println("  1. Set your API key:")
		fmt.Println("     export ANTHROPIC_API_KEY=your-key-here")
		fmt.Println("     # or: heatwatch config analysis.api_key <key>")
		fmt.Println()
	}
	fmt.Println("  2. Start monitoring:")
	fmt.Println("     heatwatch            # interactive dashboard")
	fmt.Println("     heatwatch run        # single cycle")
	fmt.Println("     heatwatch watch      # headless loop")
	fmt.Println()
	fmt.Println("  3. Learn more:")
	fmt.Println("     heatwatch --help")
	fmt.Println()
	fmt.Println("Workspace details:")
	fmt.Printf("  Root: %s\n", ws.Root())
	fmt.Printf("  Artifacts: %s, %s\n", archive.EventsFile, archive.PlotFile)
	fmt.Printf("  History: %s\n", filepath.Join(archive.StateDir, "heatwatch.db"))

	return nil
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
