package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/heatwatch/heatwatch/internal/analysis"
	"github.com/heatwatch/heatwatch/internal/archive"
	"github.com/heatwatch/heatwatch/internal/logger"
	"github.com/heatwatch/heatwatch/pkg/models"
)

type fakeGenerator struct {
	batch models.Batch
	err   error
}

func (f *fakeGenerator) Generate(now time.Time) (models.Batch, error) {
	if f.err != nil {
		return models.Batch{}, f.err
	}
	return f.batch, nil
}

type fakeRenderer struct {
	data []byte
	err  error
}

func (f *fakeRenderer) RenderCulpritSignals(batch models.Batch, path string) error {
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(path, f.data, 0644)
}

type fakeAnalyzer struct {
	res    analysis.Result
	err    error
	gotPNG []byte
}

func (f *fakeAnalyzer) Analyze(_ context.Context, png []byte) (analysis.Result, error) {
	f.gotPNG = png
	if f.err != nil {
		return analysis.Result{}, f.err
	}
	return f.res, nil
}

func testBatch(now time.Time) models.Batch {
	return models.Batch{
		GeneratedAt: now,
		Events: []models.Event{
			{Time: now, Type: models.EventTemperature, Value: 430.1, Units: "°C", Status: models.StatusActive},
			{Time: now.Add(5 * time.Minute), Type: models.EventPressure, Value: 3.4, Units: "bar", Status: models.StatusWarning},
		},
		Sensors: models.SensorFrame{
			Channels: []string{"HeatExchanger01.S001"},
			Samples: []models.SensorSample{
				{Time: now, Values: []float64{425.5}},
				{Time: now.Add(5 * time.Minute), Values: []float64{426.1}},
			},
		},
	}
}

func testWorkspace(t *testing.T) *archive.Workspace {
	t.Helper()
	ws := archive.NewWorkspace(t.TempDir())
	if err := ws.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout failed: %v", err)
	}
	return ws
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewRunner_Validation(t *testing.T) {
	ws := testWorkspace(t)
	gen := &fakeGenerator{}
	ren := &fakeRenderer{}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing generator", Config{Renderer: ren, Workspace: ws}},
		{"missing renderer", Config{Generator: gen, Workspace: ws}},
		{"missing workspace", Config{Generator: gen, Renderer: ren}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(tt.cfg); err == nil {
				t.Error("NewRunner should reject incomplete config")
			}
		})
	}

	if _, err := NewRunner(Config{Generator: gen, Renderer: ren, Workspace: ws}); err != nil {
		t.Errorf("NewRunner rejected complete config: %v", err)
	}
}

func TestRunCycle_Success(t *testing.T) {
	ws := testWorkspace(t)
	now := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)
	az := &fakeAnalyzer{res: analysis.Result{Text: "S001 is trending high", InputTokens: 1500, OutputTokens: 200}}

	runner, err := NewRunner(Config{
		Generator: &fakeGenerator{batch: testBatch(now)},
		Renderer:  &fakeRenderer{data: []byte("png-bytes")},
		Analyzer:  az,
		Workspace: ws,
		Logger:    logger.Noop(),
		Now:       fixedClock(now),
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	result, err := runner.RunCycle(context.Background(), 3)
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	if result.Cycle != 3 {
		t.Errorf("Cycle = %d, want 3", result.Cycle)
	}
	if !result.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v, want %v", result.Timestamp, now)
	}
	if len(result.Events) != 2 {
		t.Errorf("Events count = %d, want 2", len(result.Events))
	}
	if result.Analysis != "S001 is trending high" {
		t.Errorf("Analysis = %q", result.Analysis)
	}
	if result.TokensIn != 1500 || result.TokensOut != 200 {
		t.Errorf("tokens = %d/%d, want 1500/200", result.TokensIn, result.TokensOut)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", result.Warnings)
	}

	// The analyzer saw exactly what the renderer wrote.
	if string(az.gotPNG) != "png-bytes" {
		t.Errorf("analyzer received %q, want rendered bytes", az.gotPNG)
	}

	// Latest artifacts exist.
	for _, rel := range []string{archive.EventsFile, archive.SensorsFile, archive.PlotFile, archive.ReportFile} {
		if _, err := os.Stat(ws.Path(rel)); err != nil {
			t.Errorf("latest artifact %s missing: %v", rel, err)
		}
	}

	// Each artifact also got a stamped archive copy.
	for _, rel := range []string{archive.EventsFile, archive.SensorsFile, archive.PlotFile, archive.ReportFile} {
		archived, err := ws.ListArchive(rel)
		if err != nil {
			t.Fatalf("ListArchive(%s) failed: %v", rel, err)
		}
		if len(archived) != 1 {
			t.Errorf("archive copies for %s = %d, want 1", rel, len(archived))
		}
	}

	// Report carries the standard framing around the analysis text.
	report, err := os.ReadFile(ws.Path(archive.ReportFile))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "INDUSTRIAL PROCESS MONITORING - ANOMALY ANALYSIS REPORT") {
		t.Error("report missing header")
	}
	if !strings.Contains(string(report), "S001 is trending high") {
		t.Error("report missing analysis text")
	}
	if result.ReportPath != ws.Path(archive.ReportFile) {
		t.Errorf("ReportPath = %q, want %q", result.ReportPath, ws.Path(archive.ReportFile))
	}
}

func TestRunCycle_GenerationErrorFailsCycle(t *testing.T) {
	ws := testWorkspace(t)
	runner, err := NewRunner(Config{
		Generator: &fakeGenerator{err: errors.New("catalog empty")},
		Renderer:  &fakeRenderer{data: []byte("png")},
		Workspace: ws,
		Logger:    logger.Noop(),
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	result, err := runner.RunCycle(context.Background(), 1)
	if err == nil {
		t.Fatal("RunCycle should fail when generation fails")
	}
	if result != nil {
		t.Error("no result should be published on generation failure")
	}
	if !strings.Contains(err.Error(), "generate telemetry") {
		t.Errorf("error = %v, want generate telemetry wrap", err)
	}
}

func TestRunCycle_RenderErrorFailsCycle(t *testing.T) {
	ws := testWorkspace(t)
	now := time.Now()
	runner, err := NewRunner(Config{
		Generator: &fakeGenerator{batch: testBatch(now)},
		Renderer:  &fakeRenderer{err: errors.New("canvas failure")},
		Workspace: ws,
		Logger:    logger.Noop(),
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	result, err := runner.RunCycle(context.Background(), 1)
	if err == nil {
		t.Fatal("RunCycle should fail when rendering fails")
	}
	if result != nil {
		t.Error("no result should be published on render failure")
	}
}

func TestRunCycle_AnalysisDisabled(t *testing.T) {
	ws := testWorkspace(t)
	now := time.Now()
	runner, err := NewRunner(Config{
		Generator: &fakeGenerator{batch: testBatch(now)},
		Renderer:  &fakeRenderer{data: []byte("png")},
		Analyzer:  nil,
		Workspace: ws,
		Logger:    logger.Noop(),
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	result, err := runner.RunCycle(context.Background(), 1)
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	if result.Analysis != "" {
		t.Errorf("Analysis = %q, want empty when disabled", result.Analysis)
	}
	if result.ReportPath != "" {
		t.Errorf("ReportPath = %q, want empty when disabled", result.ReportPath)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "analysis disabled") {
		t.Errorf("Warnings = %v, want analysis disabled note", result.Warnings)
	}

	// No report file may be written.
	if _, err := os.Stat(ws.Path(archive.ReportFile)); !os.IsNotExist(err) {
		t.Error("report file should not exist when analysis is disabled")
	}
}

func TestRunCycle_AnalysisErrorDegrades(t *testing.T) {
	ws := testWorkspace(t)
	now := time.Now()
	runner, err := NewRunner(Config{
		Generator: &fakeGenerator{batch: testBatch(now)},
		Renderer:  &fakeRenderer{data: []byte("png")},
		Analyzer:  &fakeAnalyzer{err: errors.New("api unreachable")},
		Workspace: ws,
		Logger:    logger.Noop(),
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	result, err := runner.RunCycle(context.Background(), 1)
	if err != nil {
		t.Fatalf("RunCycle should still publish on analysis failure: %v", err)
	}

	if result.Analysis != "" {
		t.Errorf("Analysis = %q, want empty on failure", result.Analysis)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "api unreachable") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want analysis failure recorded", result.Warnings)
	}
	if _, err := os.Stat(ws.Path(archive.ReportFile)); !os.IsNotExist(err) {
		t.Error("report file should not exist when analysis failed")
	}
}

func TestRunCycle_CSVWriteFailureDegrades(t *testing.T) {
	ws := testWorkspace(t)
	now := time.Now()

	// Replace the data directory with a file so CSV writes fail while the
	// plot and analysis still succeed.
	dataDir := ws.Path("data")
	if err := os.RemoveAll(dataDir); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}
	if err := os.WriteFile(dataDir, []byte("in the way"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	runner, err := NewRunner(Config{
		Generator: &fakeGenerator{batch: testBatch(now)},
		Renderer:  &fakeRenderer{data: []byte("png")},
		Analyzer:  &fakeAnalyzer{res: analysis.Result{Text: "ok"}},
		Workspace: ws,
		Logger:    logger.Noop(),
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	result, err := runner.RunCycle(context.Background(), 1)
	if err != nil {
		t.Fatalf("RunCycle should publish despite CSV failures: %v", err)
	}

	if len(result.Warnings) != 2 {
		t.Errorf("Warnings = %v, want one per CSV", result.Warnings)
	}
	if result.Analysis != "ok" {
		t.Errorf("Analysis = %q, analysis should still run", result.Analysis)
	}
}
