package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/heatwatch/heatwatch/internal/analysis"
	"github.com/heatwatch/heatwatch/internal/archive"
	"github.com/heatwatch/heatwatch/internal/monitor"
)

// minWatchInterval is the floor for headless continuous mode. The
// dashboard may run faster; an unattended loop burning API tokens
// should not.
const minWatchInterval = 30 * time.Second

var watchInterval int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the monitoring loop headless, printing each cycle",
	Long: `Run continuous monitoring without the dashboard. Each cycle prints
its outcome and a short analysis summary to the terminal. Press Ctrl+C
to stop; the current cycle is allowed to finish first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0, "Seconds between cycles (default from config, minimum 30)")
}

func runWatch() error {
	interval := clampWatchInterval(watchInterval)

	a, err := buildApp(buildOptions{interval: interval})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("🔄 CONTINUOUS INDUSTRIAL PROCESS MONITORING PIPELINE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Running continuous pipeline every %d seconds\n", int(interval.Seconds()))
	fmt.Println("Press Ctrl+C to stop")
	if a.analysisOff != "" {
		printStatus("⚠️ ", fmt.Sprintf("AI analysis disabled: %s", a.analysisOff), color.FgYellow)
	}
	fmt.Println()

	if err := a.engine.Start(ctx); err != nil {
		return err
	}

	// First Ctrl+C drains the current cycle; a second one aborts it.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println()
		printStatus("🛑", "Stopping, letting the current cycle finish (Ctrl+C again to abort)...", color.FgYellow)
		_ = a.engine.Stop()
		<-sigCh
		cancel()
	}()

	cycles := 0
	for ev := range a.engine.Events() {
		switch ev.Type {
		case monitor.EventTickStarted:
			cycles++
			fmt.Printf("\n🔄 PIPELINE CYCLE #%d\n", ev.Cycle)
			fmt.Println(strings.Repeat("=", 60))
		case monitor.EventTickCompleted:
			printCycleOutcome(ev)
			fmt.Printf("⏳ Waiting %d seconds for next cycle...\n", int(interval.Seconds()))
		case monitor.EventTickFailed:
			printStatus("❌", fmt.Sprintf("Cycle #%d failed: %v", ev.Cycle, ev.Err), color.FgRed)
			fmt.Printf("⏳ Waiting %d seconds for next cycle...\n", int(interval.Seconds()))
		case monitor.EventRunStopped:
			printWatchFooter(a.ws, cycles)
			return nil
		}
	}
	return nil
}

// clampWatchInterval resolves the watch interval from the flag (falling
// back to config via zero) and enforces the 30 second floor.
func clampWatchInterval(seconds int) time.Duration {
	if seconds <= 0 {
		return 0 // buildApp falls back to the configured interval
	}
	if d := time.Duration(seconds) * time.Second; d >= minWatchInterval {
		return d
	}
	fmt.Println("Minimum interval is 30 seconds. Setting to 30 seconds.")
	return minWatchInterval
}

func printCycleOutcome(ev monitor.Event) {
	at := ev.Timestamp.Format("15:04:05")
	if ev.Result.HasAnalysis() {
		printStatus("✅", fmt.Sprintf("Cycle #%d completed with analysis at %s", ev.Cycle, at), color.FgGreen)
		fmt.Println("📋 Latest Analysis Summary:")
		fmt.Printf("   %s\n", analysis.Summary(ev.Result.Analysis, 200))
		return
	}
	printStatus("⚠️ ", fmt.Sprintf("Cycle #%d completed (analysis failed) at %s", ev.Cycle, at), color.FgYellow)
}

func printWatchFooter(ws *archive.Workspace, cycles int) {
	fmt.Printf("\n🛑 Pipeline stopped after %d cycles\n", cycles)
	fmt.Printf("Final files available in %s:\n", ws.Root())
	for _, rel := range []string{
		archive.EventsFile,
		archive.SensorsFile,
		archive.PlotFile,
		archive.ReportFile,
	} {
		fmt.Printf("- %s\n", rel)
	}
}
