// Package pipeline runs one monitoring cycle end to end: generate
// telemetry, write and archive the CSVs, render the culprit-signals
// plot, analyze it, and write the anomaly report.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/heatwatch/heatwatch/internal/analysis"
	"github.com/heatwatch/heatwatch/internal/archive"
	"github.com/heatwatch/heatwatch/internal/logger"
	"github.com/heatwatch/heatwatch/internal/telemetry"
	"github.com/heatwatch/heatwatch/pkg/models"
)

// Generator produces one batch of telemetry for a cycle.
type Generator interface {
	Generate(now time.Time) (models.Batch, error)
}

// Renderer draws the culprit-signals figure for a batch.
type Renderer interface {
	RenderCulpritSignals(batch models.Batch, path string) error
}

// Analyzer reviews a rendered plot and returns its anomaly analysis.
type Analyzer interface {
	Analyze(ctx context.Context, png []byte) (analysis.Result, error)
}

// Config assembles a Runner.
type Config struct {
	Generator Generator
	Renderer  Renderer
	// Analyzer may be nil; cycles then publish without analysis.
	Analyzer  Analyzer
	Workspace *archive.Workspace
	Logger    logger.Logger
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Runner executes monitoring cycles against a workspace.
type Runner struct {
	gen      Generator
	renderer Renderer
	analyzer Analyzer
	ws       *archive.Workspace
	log      logger.Logger
	now      func() time.Time
}

// NewRunner validates the config and returns a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("pipeline: generator is required")
	}
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("pipeline: renderer is required")
	}
	if cfg.Workspace == nil {
		return nil, fmt.Errorf("pipeline: workspace is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		gen:      cfg.Generator,
		renderer: cfg.Renderer,
		analyzer: cfg.Analyzer,
		ws:       cfg.Workspace,
		log:      log,
		now:      now,
	}, nil
}

// RunCycle executes one full monitoring cycle. A nil error means the cycle
// produced a publishable result; degraded steps are recorded as warnings on
// the result rather than failing the cycle. Generation and plot rendering
// are the two hard dependencies: if either fails, no result is published.
func (r *Runner) RunCycle(ctx context.Context, cycle int) (*models.TickResult, error) {
	start := r.now()
	var warnings []string

	batch, err := r.gen.Generate(start)
	if err != nil {
		return nil, fmt.Errorf("generate telemetry: %w", err)
	}
	r.log.Debug("cycle %d: generated %d events, %d sensor samples",
		cycle, len(batch.Events), batch.Sensors.Len())

	// CSV trouble degrades the cycle but does not fail it; the plot and
	// analysis can still be produced from the in-memory batch.
	if data, err := telemetry.MarshalEventsCSV(batch.Events); err != nil {
		warnings = append(warnings, fmt.Sprintf("events csv: %v", err))
	} else if err := r.ws.WriteLatest(archive.EventsFile, data, start); err != nil {
		warnings = append(warnings, fmt.Sprintf("events csv: %v", err))
	}
	if data, err := telemetry.MarshalSensorsCSV(batch.Sensors); err != nil {
		warnings = append(warnings, fmt.Sprintf("sensors csv: %v", err))
	} else if err := r.ws.WriteLatest(archive.SensorsFile, data, start); err != nil {
		warnings = append(warnings, fmt.Sprintf("sensors csv: %v", err))
	}

	plotPath := r.ws.Path(archive.PlotFile)
	if err := r.renderer.RenderCulpritSignals(batch, plotPath); err != nil {
		return nil, fmt.Errorf("render plot: %w", err)
	}
	if err := r.ws.ArchiveLatest(archive.PlotFile, start); err != nil {
		warnings = append(warnings, fmt.Sprintf("archive plot: %v", err))
	}

	result := &models.TickResult{
		Cycle:     cycle,
		Timestamp: start,
		Events:    batch.Events,
		Sensors:   batch.Sensors,
		PlotPath:  plotPath,
	}

	result.Warnings = r.analyze(ctx, result, warnings)
	result.Duration = r.now().Sub(start)
	return result, nil
}

// analyze runs the vision analysis and report write, appending any
// degradations to warnings. The report is only written when analysis
// produced text.
func (r *Runner) analyze(ctx context.Context, result *models.TickResult, warnings []string) []string {
	if r.analyzer == nil {
		return append(warnings, "analysis disabled")
	}

	png, err := os.ReadFile(result.PlotPath)
	if err != nil {
		return append(warnings, fmt.Sprintf("analysis: read plot: %v", err))
	}

	res, err := r.analyzer.Analyze(ctx, png)
	if err != nil {
		return append(warnings, fmt.Sprintf("analysis: %v", err))
	}

	result.Analysis = res.Text
	result.TokensIn = res.InputTokens
	result.TokensOut = res.OutputTokens
	r.log.Debug("cycle %d: analysis used %d in / %d out tokens",
		result.Cycle, res.InputTokens, res.OutputTokens)

	report := analysis.FormatReport(res.Text, result.PlotPath, r.now())
	if err := r.ws.WriteLatest(archive.ReportFile, []byte(report), result.Timestamp); err != nil {
		return append(warnings, fmt.Sprintf("write report: %v", err))
	}
	result.ReportPath = r.ws.Path(archive.ReportFile)
	return warnings
}
