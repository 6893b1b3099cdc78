package tui

import (
	"time"

	"github.com/heatwatch/heatwatch/internal/monitor"
	"github.com/heatwatch/heatwatch/pkg/models"
)

// EngineEventMsg delivers one monitor engine event to the dashboard.
// The command layer forwards events from Engine.Events via Send.
type EngineEventMsg struct {
	Event monitor.Event
}

// ReportChangedMsg signals that the analysis report changed on disk.
// The dashboard reloads the report text in response.
type ReportChangedMsg struct {
	Path string
}

// clockTickMsg drives the countdown and snapshot refresh once per second.
type clockTickMsg time.Time

// reportLoadedMsg carries a freshly read analysis report.
type reportLoadedMsg struct {
	text string
	err  error
}

// runOnceDoneMsg reports the outcome of a manually triggered cycle.
type runOnceDoneMsg struct {
	result *models.TickResult
	err    error
}
