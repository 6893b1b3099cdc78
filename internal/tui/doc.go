// Package tui provides the heatwatch monitoring dashboard.
//
// The dashboard is a bubbletea program that renders the live state of
// one monitor engine: a header with the monitoring phase and next-tick
// countdown, a system status panel with the recent activity log and
// cycle metrics, a braille preview of the latest sensor channels, the
// current AI analysis report, and a table of the latest process events.
//
// The dashboard never mutates monitoring state directly. Keys that
// control the engine (start, stop, run once) call into the engine,
// and everything rendered comes from engine snapshots, so the view can
// never observe a half-published cycle.
//
// Usage:
//
//	program, app := tui.NewDashboardProgram(tui.Config{
//	    Engine:    eng,
//	    Workspace: ws,
//	})
//	go program.Run()
//
//	// Forward engine events
//	program.Send(tui.EngineEventMsg{Event: ev})
//
//	// Signal that the analysis report changed on disk
//	program.Send(tui.ReportChangedMsg{Path: path})
//
// The countdown and spinner refresh on a one second clock that the
// program re-arms itself; callers only forward events.
package tui
