package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/heatwatch/heatwatch/internal/analysis"
	"github.com/heatwatch/heatwatch/internal/archive"
	"github.com/heatwatch/heatwatch/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show monitoring history and workspace artifacts",
	Long: `Display the state of the monitoring workspace.

Shows:
  - The active or most recent monitoring run
  - Recent cycles with their event and token counts
  - The latest artifact files and when they were last written`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	dbPath := state.DBPath(ws.Root())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No monitoring history. Run 'heatwatch' to open the dashboard or 'heatwatch run' for a single cycle.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer db.Close()

	// Ensure schema is up to date
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate state database: %w", err)
	}

	run, err := db.GetActiveRun()
	if err != nil {
		return fmt.Errorf("get active run: %w", err)
	}
	label := "Active Run"
	if run == nil {
		runs, err := db.ListRuns(1)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No monitoring history. Run 'heatwatch' to open the dashboard or 'heatwatch run' for a single cycle.")
			return nil
		}
		run = &runs[0]
		label = "Last Run"
	}

	displayRun(label, run, db)
	fmt.Println()
	if err := displayRecentCycles(db); err != nil {
		return err
	}
	fmt.Println()
	displayArtifacts(ws)
	return nil
}

func displayRun(label string, r *state.Run, db *state.DB) {
	fmt.Printf("%s: %s\n", label, r.ID)
	fmt.Printf("  Status: %s\n", r.Status)
	if r.Status == state.RunActive {
		fmt.Printf("  Started: %s ago\n", formatDuration(time.Since(r.StartedAt)))
	} else if r.StoppedAt != nil {
		fmt.Printf("  Ran: %s (stopped %s ago)\n",
			formatDuration(r.StoppedAt.Sub(r.StartedAt)),
			formatDuration(time.Since(*r.StoppedAt)))
	}
	fmt.Printf("  Cycles: %d completed, %d failed\n", r.TicksCompleted, r.TicksFailed)

	ticks, err := db.ListTicksByRun(r.ID)
	if err != nil {
		return
	}
	var in, out int64
	for _, t := range ticks {
		in += t.TokensIn
		out += t.TokensOut
	}
	if in > 0 || out > 0 {
		fmt.Printf("  Tokens: %s in / %s out (est. $%.4f)\n",
			formatNumber(int(in)), formatNumber(int(out)), analysis.EstimateCost(in, out))
	}
}

func displayRecentCycles(db *state.DB) error {
	ticks, err := db.RecentTicks(5)
	if err != nil {
		return fmt.Errorf("recent ticks: %w", err)
	}
	if len(ticks) == 0 {
		return nil
	}

	fmt.Println("Recent Cycles:")
	for _, t := range ticks {
		ago := formatDuration(time.Since(t.StartedAt))
		if t.Status == state.TickFailed {
			fmt.Printf("  #%d: failed %s ago: %s\n", t.Cycle, ago, t.Error)
			continue
		}
		fmt.Printf("  #%d: %d events, %d sensor samples in %s (%s ago)\n",
			t.Cycle, t.EventCount, t.SensorCount, t.Duration.Round(time.Millisecond), ago)
	}
	return nil
}

func displayArtifacts(ws *archive.Workspace) {
	fmt.Println("Workspace Artifacts:")
	for _, rel := range []string{
		archive.EventsFile,
		archive.SensorsFile,
		archive.PlotFile,
		archive.ReportFile,
	} {
		mtime := ws.Stat(rel)
		if mtime.IsZero() {
			fmt.Printf("  %-40s missing\n", rel)
			continue
		}
		fmt.Printf("  %-40s updated %s ago\n", rel, formatDuration(time.Since(mtime)))
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}

// formatNumber formats a number with commas.
func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	// Add commas every 3 digits from the right
	var result strings.Builder
	offset := len(s) % 3
	if offset > 0 {
		result.WriteString(s[:offset])
		if len(s) > offset {
			result.WriteString(",")
		}
	}
	for i := offset; i < len(s); i += 3 {
		result.WriteString(s[i : i+3])
		if i+3 < len(s) {
			result.WriteString(",")
		}
	}
	return result.String()
}
