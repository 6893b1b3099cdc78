package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heatwatch/heatwatch/internal/logger"
	"github.com/heatwatch/heatwatch/internal/state"
	"github.com/heatwatch/heatwatch/pkg/models"
)

// Lifecycle errors.
var (
	ErrAlreadyRunning = errors.New("monitor is already running")
	ErrNotRunning     = errors.New("monitor is not running")
)

const (
	// DefaultMaxActivity is the activity log cap when none is configured.
	DefaultMaxActivity = 10
	// DefaultEventBuffer is the emitter buffer when none is configured.
	DefaultEventBuffer = 64
)

// Phase is the engine lifecycle phase.
type Phase int

const (
	PhaseStopped Phase = iota
	PhaseRunning
	PhaseDraining
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseStopped:
		return "stopped"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// CycleRunner executes one monitoring cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context, cycle int) (*models.TickResult, error)
}

// Activity is one line of the engine's recent-activity log.
type Activity struct {
	Time    time.Time
	Level   models.Severity
	Message string
}

// Snapshot is a point-in-time value copy of the engine's shared state.
// The TickResult is shared by pointer; published results are never
// mutated.
type Snapshot struct {
	Phase          Phase
	Cycle          int
	RunID          string
	StartedAt      time.Time
	LastTickAt     time.Time
	NextTickAt     time.Time
	TicksCompleted int
	TicksFailed    int
	TokensIn       int64
	TokensOut      int64
	Interval       time.Duration
	Latest         *models.TickResult
	Activity       []Activity
}

// Config assembles an Engine.
type Config struct {
	Runner CycleRunner
	// Store persists run history. May be nil; the engine then keeps
	// state in memory only.
	Store    state.Store
	Interval time.Duration
	// MaxActivity caps the activity log; 0 means DefaultMaxActivity.
	MaxActivity int
	// EventBuffer sizes the event channel; 0 means DefaultEventBuffer.
	EventBuffer int
	Logger      logger.Logger
}

// Engine drives the monitoring loop: wait one interval, run a cycle,
// publish, repeat. A single goroutine owns the loop; readers observe it
// through Snapshot() and the event channel.
type Engine struct {
	runner      CycleRunner
	store       state.Store
	interval    time.Duration
	maxActivity int
	log         logger.Logger
	emitter     *EventEmitter

	mu             sync.RWMutex
	phase          Phase
	cycle          int
	latest         *models.TickResult
	activity       []Activity
	runID          string
	startedAt      time.Time
	lastTickAt     time.Time
	nextTickAt     time.Time
	ticksCompleted int
	ticksFailed    int
	tokensIn       int64
	tokensOut      int64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates an Engine. When a store is present, any runs left active
// by a previous process are marked interrupted and the cycle counter
// resumes from the last completed cycle on record.
func New(cfg Config) (*Engine, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("monitor: cycle runner is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("monitor: interval must be positive, got %s", cfg.Interval)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	maxActivity := cfg.MaxActivity
	if maxActivity <= 0 {
		maxActivity = DefaultMaxActivity
	}
	buffer := cfg.EventBuffer
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}

	e := &Engine{
		runner:      cfg.Runner,
		store:       cfg.Store,
		interval:    cfg.Interval,
		maxActivity: maxActivity,
		log:         log,
		emitter:     NewEventEmitter(buffer, log),
	}

	if e.store != nil {
		if n, err := e.store.MarkInterruptedRuns(); err != nil {
			log.Warn("mark interrupted runs: %v", err)
		} else if n > 0 {
			log.Info("marked %d interrupted run(s) from a previous session", n)
		}

		cycle, err := e.store.LastCycle()
		if err != nil {
			log.Warn("restore cycle counter: %v", err)
		} else {
			e.cycle = cycle
			if cycle > 0 {
				log.Info("resuming from cycle %d", cycle)
			}
		}
	}

	return e, nil
}

// Interval returns the configured tick interval.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// Events returns the engine's event channel.
func (e *Engine) Events() <-chan Event {
	return e.emitter.Events()
}

// Start launches the monitoring loop. It returns ErrAlreadyRunning
// unless the engine is fully stopped.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.phase != PhaseStopped {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.phase = PhaseRunning
	e.stopCh = make(chan struct{})
	e.runID = uuid.New().String()[:8]
	e.startedAt = time.Now()
	e.ticksCompleted = 0
	e.ticksFailed = 0
	runID := e.runID
	started := e.startedAt
	stopCh := e.stopCh
	e.mu.Unlock()

	e.recordRunStart(runID, started)
	e.appendActivity(models.SeverityInfo, "Monitoring started")
	e.emitter.Emit(Event{Type: EventRunStarted, Timestamp: started, Message: "Monitoring started"})
	e.log.Info("monitoring started (run %s, interval %s)", runID, e.interval)

	e.wg.Add(1)
	go e.run(ctx, stopCh)
	return nil
}

// Stop signals the loop to exit and returns immediately. An in-flight
// tick is never interrupted: the loop drains it, publishes, and only
// then flips the phase to Stopped. Returns ErrNotRunning if the loop
// is not running.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.phase != PhaseRunning || e.stopCh == nil {
		e.mu.Unlock()
		return ErrNotRunning
	}
	e.phase = PhaseDraining
	close(e.stopCh)
	e.stopCh = nil
	e.mu.Unlock()
	return nil
}

// Wait blocks until the loop goroutine has fully drained and stopped.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close stops the engine if needed, waits for the drain, and closes the
// event channel. Call only when no further Start or RunOnce will follow.
func (e *Engine) Close() {
	// Stop is a no-op error when already stopped or draining.
	_ = e.Stop()
	e.wg.Wait()
	e.emitter.Close()
}

// RunOnce executes a single cycle synchronously, with the same
// publishing and persistence as a looped tick. Only valid while the
// engine is stopped.
func (e *Engine) RunOnce(ctx context.Context) (*models.TickResult, error) {
	e.mu.Lock()
	if e.phase != PhaseStopped {
		e.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	e.phase = PhaseRunning
	e.runID = uuid.New().String()[:8]
	e.startedAt = time.Now()
	e.ticksCompleted = 0
	e.ticksFailed = 0
	runID := e.runID
	started := e.startedAt
	e.mu.Unlock()

	e.recordRunStart(runID, started)
	e.emitter.Emit(Event{Type: EventRunStarted, Timestamp: started, Message: "Single cycle started"})

	result, err := e.tick(ctx)

	e.mu.Lock()
	e.phase = PhaseStopped
	e.mu.Unlock()

	e.recordRunStop(runID)
	e.emitter.Emit(Event{Type: EventRunStopped, Timestamp: time.Now(), Message: "Single cycle finished"})
	return result, err
}

// Snapshot returns a value copy of the engine's shared state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	activity := make([]Activity, len(e.activity))
	copy(activity, e.activity)

	return Snapshot{
		Phase:          e.phase,
		Cycle:          e.cycle,
		RunID:          e.runID,
		StartedAt:      e.startedAt,
		LastTickAt:     e.lastTickAt,
		NextTickAt:     e.nextTickAt,
		TicksCompleted: e.ticksCompleted,
		TicksFailed:    e.ticksFailed,
		TokensIn:       e.tokensIn,
		TokensOut:      e.tokensOut,
		Interval:       e.interval,
		Latest:         e.latest,
		Activity:       activity,
	}
}

// run is the loop goroutine. The full interval elapses before every
// tick, including the first; the timer is re-armed only after a tick
// returns, so the effective period is interval plus tick duration.
func (e *Engine) run(ctx context.Context, stopCh chan struct{}) {
	defer e.wg.Done()
	for {
		timer := time.NewTimer(e.interval)
		e.setNextTick(time.Now().Add(e.interval))

		select {
		case <-stopCh:
			timer.Stop()
			e.finishRun()
			return
		case <-timer.C:
		}

		e.setNextTick(time.Time{})
		e.tick(ctx)
	}
}

// tick runs one cycle and publishes its outcome. A successful publish
// is a single critical section: latest result swap, cycle increment,
// counters, activity entry, tick stamp.
func (e *Engine) tick(ctx context.Context) (*models.TickResult, error) {
	e.mu.RLock()
	candidate := e.cycle + 1
	runID := e.runID
	e.mu.RUnlock()

	started := time.Now()
	e.emitter.Emit(Event{
		Type:      EventTickStarted,
		Cycle:     candidate,
		Timestamp: started,
		Message:   fmt.Sprintf("Cycle %d started", candidate),
	})
	e.log.Debug("cycle %d starting", candidate)

	result, err := e.runner.RunCycle(ctx, candidate)
	duration := time.Since(started)

	if err != nil {
		e.mu.Lock()
		e.ticksFailed++
		e.appendActivityLocked(models.SeverityCritical, fmt.Sprintf("Cycle %d failed: %v", candidate, err))
		e.mu.Unlock()

		e.recordTick(state.Tick{
			RunID:     runID,
			Cycle:     candidate,
			StartedAt: started,
			Duration:  duration,
			Status:    state.TickFailed,
			Error:     err.Error(),
		})
		e.emitter.Emit(Event{
			Type:      EventTickFailed,
			Cycle:     candidate,
			Err:       err,
			Timestamp: time.Now(),
			Duration:  duration,
			Message:   fmt.Sprintf("Cycle %d failed", candidate),
		})
		e.log.Warn("cycle %d failed after %s: %v", candidate, duration.Round(time.Millisecond), err)
		return nil, err
	}

	message := fmt.Sprintf("Cycle %d completed in %s", candidate, duration.Round(time.Millisecond))
	level := models.SeverityInfo
	if len(result.Warnings) > 0 {
		message = fmt.Sprintf("%s (%d warnings)", message, len(result.Warnings))
		level = models.SeverityWarning
	}

	e.mu.Lock()
	e.cycle = candidate
	e.latest = result
	e.ticksCompleted++
	e.lastTickAt = started
	e.tokensIn += result.TokensIn
	e.tokensOut += result.TokensOut
	e.appendActivityLocked(level, message)
	e.mu.Unlock()

	e.recordTick(state.Tick{
		RunID:       runID,
		Cycle:       candidate,
		StartedAt:   started,
		Duration:    duration,
		Status:      state.TickCompleted,
		EventCount:  len(result.Events),
		SensorCount: result.Sensors.Len(),
		TokensIn:    result.TokensIn,
		TokensOut:   result.TokensOut,
	})
	e.emitter.Emit(Event{
		Type:      EventTickCompleted,
		Cycle:     candidate,
		Result:    result,
		Timestamp: time.Now(),
		Duration:  duration,
		Message:   message,
	})
	e.log.Debug("cycle %d published (%d events, %d samples)", candidate, len(result.Events), result.Sensors.Len())
	return result, nil
}

// finishRun flips the engine to Stopped after the loop exits.
func (e *Engine) finishRun() {
	e.mu.Lock()
	e.phase = PhaseStopped
	e.nextTickAt = time.Time{}
	runID := e.runID
	e.mu.Unlock()

	e.recordRunStop(runID)
	e.appendActivity(models.SeverityInfo, "Monitoring stopped")
	e.emitter.Emit(Event{Type: EventRunStopped, Timestamp: time.Now(), Message: "Monitoring stopped"})
	e.log.Info("monitoring stopped (run %s)", runID)
}

// Persistence is advisory: failures are logged, never fatal to the loop.

func (e *Engine) recordRunStart(runID string, started time.Time) {
	if e.store == nil {
		return
	}
	if err := e.store.CreateRun(&state.Run{ID: runID, StartedAt: started, Status: state.RunActive}); err != nil {
		e.log.Warn("record run start: %v", err)
	}
}

func (e *Engine) recordRunStop(runID string) {
	if e.store == nil {
		return
	}
	if err := e.store.FinishRun(runID, state.RunStopped, time.Now()); err != nil {
		e.log.Warn("record run stop: %v", err)
	}
}

func (e *Engine) recordTick(tk state.Tick) {
	if e.store == nil {
		return
	}
	if err := e.store.RecordTick(&tk); err != nil {
		e.log.Warn("record tick %d: %v", tk.Cycle, err)
	}
}

func (e *Engine) setNextTick(t time.Time) {
	e.mu.Lock()
	e.nextTickAt = t
	e.mu.Unlock()
}

func (e *Engine) appendActivity(level models.Severity, msg string) {
	e.mu.Lock()
	e.appendActivityLocked(level, msg)
	e.mu.Unlock()
}

func (e *Engine) appendActivityLocked(level models.Severity, msg string) {
	e.activity = append(e.activity, Activity{Time: time.Now(), Level: level, Message: msg})
	if len(e.activity) > e.maxActivity {
		e.activity = e.activity[len(e.activity)-e.maxActivity:]
	}
}
