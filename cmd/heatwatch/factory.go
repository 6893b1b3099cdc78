package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/heatwatch/heatwatch/internal/analysis"
	"github.com/heatwatch/heatwatch/internal/archive"
	"github.com/heatwatch/heatwatch/internal/config"
	"github.com/heatwatch/heatwatch/internal/logger"
	"github.com/heatwatch/heatwatch/internal/monitor"
	"github.com/heatwatch/heatwatch/internal/pipeline"
	"github.com/heatwatch/heatwatch/internal/plot"
	"github.com/heatwatch/heatwatch/internal/state"
	"github.com/heatwatch/heatwatch/internal/telemetry"
)

// runRetention is how long run history is kept in the workspace
// database before being purged at startup.
const runRetention = 30 * 24 * time.Hour

// app bundles everything a monitoring command needs.
type app struct {
	cfg     *config.Config
	ws      *archive.Workspace
	db      *state.DB
	runner  *pipeline.Runner
	engine  *monitor.Engine
	log     logger.Logger
	fileLog *logger.FileLogger

	// analysisOff is set when analysis was requested but no credentials
	// were found, so commands can tell the user why reports are missing.
	analysisOff string
}

// buildOptions are per-command overrides on top of the loaded config.
type buildOptions struct {
	noAnalysis bool
	seed       int64
	interval   time.Duration
	// fileLog routes component logs to state/heatwatch.log instead of
	// stderr, for commands where the terminal belongs to the TUI.
	fileLog bool
}

// loadWorkspace resolves the effective config and workspace without
// creating anything on disk.
func loadWorkspace() (*config.Config, *archive.Workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if rootWorkspace != "" {
		cfg.Workspace = rootWorkspace
	}
	return cfg, archive.NewWorkspace(cfg.Workspace), nil
}

// buildApp loads configuration and wires the full monitoring stack:
// workspace, generator, renderer, analyzer, state database, and engine.
func buildApp(opts buildOptions) (*app, error) {
	cfg, ws, err := loadWorkspace()
	if err != nil {
		return nil, err
	}

	if err := ws.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("prepare workspace %s: %w", ws.Root(), err)
	}

	var log logger.Logger = logger.NewEnvLogger("heatwatch")
	var fileLog *logger.FileLogger
	if opts.fileLog {
		fileLog = logger.NewFileLoggerForWorkspace(ws.Root())
		log = fileLog
	}

	gen, err := buildGenerator(cfg, opts.seed)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, ws: ws, log: log, fileLog: fileLog}

	var az pipeline.Analyzer
	if cfg.Analysis.Enabled && !opts.noAnalysis {
		az, err = buildAnalyzer(cfg, log)
		if err != nil {
			if !errors.Is(err, config.ErrNoAPIKey) {
				return nil, err
			}
			// No credentials is not fatal; cycles degrade to
			// generation, archival, and plotting only.
			a.analysisOff = err.Error()
			log.Warn("analysis disabled: %v", err)
			az = nil
		}
	}

	runner, err := pipeline.NewRunner(pipeline.Config{
		Generator: gen,
		Renderer:  plot.NewRenderer(),
		Analyzer:  az,
		Workspace: ws,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	a.runner = runner

	db, err := state.OpenWorkspace(ws.Root())
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state database: %w", err)
	}
	if n, err := db.PurgeOldRuns(runRetention); err != nil {
		log.Warn("purge old runs: %v", err)
	} else if n > 0 {
		log.Info("purged %d run(s) older than %s", n, runRetention)
	}
	a.db = db

	interval := cfg.Monitor.Interval()
	if opts.interval > 0 {
		interval = opts.interval
	}

	eng, err := monitor.New(monitor.Config{
		Runner:      runner,
		Store:       db,
		Interval:    interval,
		MaxActivity: cfg.Monitor.MaxStatusLines,
		Logger:      log,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build monitor: %w", err)
	}
	a.engine = eng

	return a, nil
}

// Close shuts the engine down, drains any in-flight cycle, and closes
// the state database.
func (a *app) Close() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.fileLog != nil {
		a.fileLog.Close()
	}
}

// buildGenerator builds the telemetry generator from config, with an
// optional seed override from the command line.
func buildGenerator(cfg *config.Config, seedOverride int64) (*telemetry.Generator, error) {
	seed := cfg.Telemetry.Seed
	if seedOverride != 0 {
		seed = seedOverride
	}

	var opts []telemetry.Option
	if seed != 0 {
		opts = append(opts, telemetry.WithSeed(seed))
	}
	if cfg.Telemetry.Catalog != "" {
		cat, err := telemetry.LoadCatalog(cfg.Telemetry.Catalog)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.Telemetry.Catalog, err)
		}
		opts = append(opts, telemetry.WithCatalog(cat))
	}

	gen, err := telemetry.NewGenerator(cfg.Telemetry.PointsPerCycle, cfg.Telemetry.Spacing(), opts...)
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}
	return gen, nil
}

// buildAnalyzer builds the vision analyzer from config. Returns
// config.ErrNoAPIKey when direct API access is configured without a key.
func buildAnalyzer(cfg *config.Config, log logger.Logger) (pipeline.Analyzer, error) {
	clientCfg := analysis.ClientConfig{
		Model:         anthropic.Model(cfg.Analysis.Model),
		UseAWSBedrock: cfg.Analysis.UseBedrock,
		AWSRegion:     cfg.Analysis.AWSRegion,
		AWSProfile:    cfg.Analysis.AWSProfile,
	}
	if !cfg.Analysis.UseBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		clientCfg.APIKey = key
	}

	client, err := analysis.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create analysis client: %w", err)
	}

	opts := []analysis.AnalyzerOption{analysis.WithLogger(log)}
	if cfg.Analysis.MaxTokens > 0 {
		opts = append(opts, analysis.WithMaxTokens(int64(cfg.Analysis.MaxTokens)))
	}
	return analysis.NewVisionAnalyzer(client, opts...), nil
}
