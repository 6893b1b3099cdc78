package main

import (
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"github.com/heatwatch/heatwatch/internal/analysis"
	"github.com/heatwatch/heatwatch/internal/archive"
	"github.com/heatwatch/heatwatch/internal/monitor"
	"github.com/heatwatch/heatwatch/internal/tui"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive monitoring dashboard",
	Long: `Launch the interactive dashboard (the same screen the bare
heatwatch command opens). Start and stop monitoring with s and x,
trigger a single cycle with r, and quit with q.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// runDashboard wires the monitoring engine to the interactive dashboard
// and blocks until the user quits.
func runDashboard() (retErr error) {
	a, err := buildApp(buildOptions{fileLog: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// Suppress log output while TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	// Recover from panics so the terminal is restored before we exit
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in dashboard: %v", r)
		}
	}()

	reportPath := a.ws.Path(archive.ReportFile)
	program, _ := tui.NewDashboardProgram(tui.Config{
		Engine:     a.engine,
		ReportPath: reportPath,
	})
	if program == nil {
		return fmt.Errorf("failed to create dashboard program")
	}

	// Forward engine events to the dashboard
	go forwardEventsToTUI(program, a.engine.Events())

	// The analyzer rewrites the report on every cycle; watching the file
	// also picks up edits made outside the dashboard.
	watcher := analysis.WatchReport(reportPath, a.log)
	defer watcher.Close()
	go func() {
		for range watcher.Changes() {
			program.Send(tui.ReportChangedMsg{Path: reportPath})
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	if a.analysisOff != "" {
		log.SetOutput(originalOutput)
		printStatus("⚠", fmt.Sprintf("AI analysis was disabled: %s", a.analysisOff), color.FgYellow)
		printStatus("", "Set ANTHROPIC_API_KEY or run 'heatwatch config set analysis.api_key <key>' to enable it.", color.FgHiBlack)
	}
	return nil
}

// forwardEventsToTUI converts engine events to dashboard messages.
func forwardEventsToTUI(program *tea.Program, events <-chan monitor.Event) {
	for event := range events {
		program.Send(tui.EngineEventMsg{Event: event})
	}
}
