// Package monitor runs the periodic monitoring loop and owns the shared
// view of its progress: the latest published tick, the cycle counter,
// and the recent activity log.
package monitor

import (
	"time"

	"github.com/heatwatch/heatwatch/pkg/models"
)

// EventType represents the type of monitor event.
type EventType string

const (
	// EventRunStarted indicates the monitoring loop has started.
	EventRunStarted EventType = "run_started"
	// EventTickStarted indicates a monitoring cycle has begun.
	EventTickStarted EventType = "tick_started"
	// EventTickCompleted indicates a cycle published a result.
	EventTickCompleted EventType = "tick_completed"
	// EventTickFailed indicates a cycle failed and published nothing.
	EventTickFailed EventType = "tick_failed"
	// EventRunStopped indicates the loop has fully drained and stopped.
	EventRunStopped EventType = "run_stopped"
)

// Event is emitted by the engine as the loop progresses.
// These events are used to update the TUI and the watch printer.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Cycle is the cycle number the event refers to, if applicable.
	Cycle int
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Result is the published tick, set on tick_completed.
	Result *models.TickResult
	// Duration is the elapsed tick time, for tick outcome events.
	Duration time.Duration
}
