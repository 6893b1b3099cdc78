package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/heatwatch/heatwatch/internal/monitor"
	"github.com/heatwatch/heatwatch/pkg/models"
)

// Focus targets cycled with tab.
const (
	FocusReport = 0
	FocusEvents = 1
)

// Controller is the engine surface the dashboard drives.
// *monitor.Engine satisfies it.
type Controller interface {
	Start(ctx context.Context) error
	Stop() error
	RunOnce(ctx context.Context) (*models.TickResult, error)
	Snapshot() monitor.Snapshot
}

// Config configures the dashboard.
type Config struct {
	// Engine is the monitor engine the dashboard controls.
	Engine Controller
	// ReportPath is the analysis report file to load on startup and
	// reload when a ReportChangedMsg arrives.
	ReportPath string
}

// Dashboard is the main bubbletea model for the monitoring dashboard.
type Dashboard struct {
	engine     Controller
	reportPath string

	// Panels
	header  *Header
	status  *StatusPanel
	preview *PreviewPanel
	report  *ReportPanel
	events  *EventsPanel
	footer  *Footer

	// Layout
	layout *LayoutManager
	spin   spinner.Model

	// State
	snap     monitor.Snapshot
	now      time.Time
	ticking  bool // scheduled tick in flight
	manual   bool // run-once in flight
	focused  int
	width    int
	height   int
	quitting bool
}

// NewDashboard creates a new Dashboard instance.
func NewDashboard(cfg Config) *Dashboard {
	spin := spinner.New(
		spinner.WithSpinner(spinner.Spinner{
			Frames: []string{"◐", "◓", "◑", "◒"},
			FPS:    time.Second / 10,
		}),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("214"))),
	)

	d := &Dashboard{
		engine:     cfg.Engine,
		reportPath: cfg.ReportPath,
		header:     NewHeader(),
		status:     NewStatusPanel(),
		preview:    NewPreviewPanel(),
		report:     NewReportPanel(),
		events:     NewEventsPanel(),
		footer:     NewFooter(),
		layout:     NewLayoutManager(80, 24),
		spin:       spin,
		now:        time.Now(),
		focused:    FocusReport,
	}
	d.report.SetFocused(true)
	if cfg.Engine != nil {
		d.refreshSnapshot()
	}
	return d
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(clockTick(), loadReport(d.reportPath))
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return d.handleQuit()

		case "s":
			if d.snap.Phase == monitor.PhaseStopped && !d.manual {
				d.footer.SetMessage("", false)
				if err := d.engine.Start(context.Background()); err != nil {
					d.footer.SetMessage(fmt.Sprintf("start failed: %v", err), true)
				}
				d.refreshSnapshot()
			}

		case "x":
			if d.snap.Phase == monitor.PhaseRunning {
				if err := d.engine.Stop(); err != nil {
					d.footer.SetMessage(fmt.Sprintf("stop failed: %v", err), true)
				}
				d.refreshSnapshot()
				cmds = append(cmds, d.spin.Tick)
			}

		case "r":
			if d.snap.Phase == monitor.PhaseStopped && !d.manual {
				d.manual = true
				d.footer.SetMessage("", false)
				cmds = append(cmds, d.runOnceCmd(), d.spin.Tick)
			}

		case "tab":
			d.cycleFocus()

		default:
			cmds = append(cmds, d.forwardToFocused(msg))
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.layout.SetSize(msg.Width, msg.Height)
		d.updatePanelSizes()

	case clockTickMsg:
		d.now = time.Time(msg)
		d.refreshSnapshot()
		cmds = append(cmds, clockTick())

	case spinner.TickMsg:
		if d.spinning() {
			var cmd tea.Cmd
			d.spin, cmd = d.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case EngineEventMsg:
		cmds = append(cmds, d.handleEngineEvent(msg.Event)...)

	case ReportChangedMsg:
		path := msg.Path
		if path == "" {
			path = d.reportPath
		}
		cmds = append(cmds, loadReport(path))

	case reportLoadedMsg:
		if msg.err != nil {
			d.footer.SetMessage(fmt.Sprintf("report: %v", msg.err), true)
		} else if msg.text != "" {
			d.report.SetReport(msg.text)
		}

	case runOnceDoneMsg:
		d.manual = false
		d.refreshSnapshot()
		if msg.err != nil {
			d.footer.SetMessage(fmt.Sprintf("cycle failed: %v", msg.err), true)
		} else if msg.result != nil && msg.result.ReportPath != "" {
			cmds = append(cmds, loadReport(msg.result.ReportPath))
		}
		if d.quitting {
			return d, tea.Quit
		}
	}

	return d, tea.Batch(cmds...)
}

// handleQuit stops the engine if needed and quits once it is safe.
// A second press quits immediately.
func (d *Dashboard) handleQuit() (tea.Model, tea.Cmd) {
	if d.quitting {
		return d, tea.Quit
	}
	d.quitting = true
	d.refreshSnapshot()

	if d.snap.Phase == monitor.PhaseRunning {
		// Drain: the loop finishes any in-flight tick and emits
		// RunStopped, which completes the quit.
		_ = d.engine.Stop()
		d.refreshSnapshot()
		return d, d.spin.Tick
	}
	if d.snap.Phase == monitor.PhaseDraining || d.manual {
		return d, d.spin.Tick
	}
	return d, tea.Quit
}

// handleEngineEvent applies one engine event to the dashboard state.
func (d *Dashboard) handleEngineEvent(ev monitor.Event) []tea.Cmd {
	var cmds []tea.Cmd

	switch ev.Type {
	case monitor.EventTickStarted:
		d.ticking = true
		cmds = append(cmds, d.spin.Tick)

	case monitor.EventTickCompleted:
		d.ticking = false
		d.footer.SetMessage("", false)
		if ev.Result != nil && ev.Result.ReportPath != "" {
			cmds = append(cmds, loadReport(ev.Result.ReportPath))
		}

	case monitor.EventTickFailed:
		d.ticking = false
		if ev.Err != nil {
			d.footer.SetMessage(fmt.Sprintf("cycle %d failed: %v", ev.Cycle, ev.Err), true)
		}

	case monitor.EventRunStopped:
		d.ticking = false
		d.refreshSnapshot()
		if d.quitting {
			return []tea.Cmd{tea.Quit}
		}
	}

	d.refreshSnapshot()
	return cmds
}

// cycleFocus moves keyboard focus between the report and events panels.
func (d *Dashboard) cycleFocus() {
	if d.focused == FocusReport {
		d.focused = FocusEvents
	} else {
		d.focused = FocusReport
	}
	d.report.SetFocused(d.focused == FocusReport)
	d.events.SetFocused(d.focused == FocusEvents)
}

// forwardToFocused routes a message to whichever panel has focus.
func (d *Dashboard) forwardToFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch d.focused {
	case FocusReport:
		d.report, cmd = d.report.Update(msg)
	case FocusEvents:
		d.events, cmd = d.events.Update(msg)
	}
	return cmd
}

// spinning reports whether the spinner should keep animating.
func (d *Dashboard) spinning() bool {
	return d.ticking || d.manual || d.snap.Phase == monitor.PhaseDraining
}

// refreshSnapshot pulls fresh engine state into every panel.
func (d *Dashboard) refreshSnapshot() {
	d.snap = d.engine.Snapshot()
	d.status.SetSnapshot(d.snap)
	if d.snap.Latest != nil {
		d.preview.SetFrame(d.snap.Latest.Sensors)
		d.events.SetEvents(d.snap.Latest.Events)
	}
	d.footer.SetState(d.snap.Phase, d.snap.LastTickAt, d.snap.TicksCompleted, d.quitting)
}

// updatePanelSizes recalculates panel dimensions from the layout.
func (d *Dashboard) updatePanelSizes() {
	dims := d.layout.Calculate()
	d.header.SetWidth(d.width)
	d.status.SetSize(dims.StatusWidth, dims.MiddleHeight)
	d.preview.SetSize(dims.PreviewWidth, dims.MiddleHeight)
	d.report.SetSize(dims.ReportWidth, dims.MiddleHeight)
	d.events.SetSize(d.width, dims.EventsHeight)
	d.footer.SetWidth(d.width)
}

// View implements tea.Model.
func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Starting dashboard..."
	}

	header := d.header.View(HeaderState{
		Phase:    d.snap.Phase,
		Ticking:  d.ticking || d.manual,
		Spinner:  d.spin.View(),
		Cycle:    d.snap.Cycle,
		Interval: d.snap.Interval,
		Next:     d.snap.NextTickAt,
		Now:      d.now,
	})

	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		d.status.View(),
		d.preview.View(),
		d.report.View(),
	)

	return header + "\n" + middle + "\n" + d.events.View() + "\n" + d.footer.View()
}

// Phase returns the monitoring phase from the last snapshot.
func (d *Dashboard) Phase() monitor.Phase {
	return d.snap.Phase
}

// Quitting returns true once quit has been requested.
func (d *Dashboard) Quitting() bool {
	return d.quitting
}

// FocusedPanel returns the focus target index.
func (d *Dashboard) FocusedPanel() int {
	return d.focused
}

// clockTick re-arms the one second countdown clock.
func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// loadReport reads the report file off the event loop. A missing file
// is not an error; the placeholder stays up.
func loadReport(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return reportLoadedMsg{}
			}
			return reportLoadedMsg{err: err}
		}
		return reportLoadedMsg{text: string(data)}
	}
}

// runOnceCmd runs one manual cycle off the event loop.
func (d *Dashboard) runOnceCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := d.engine.RunOnce(context.Background())
		return runOnceDoneMsg{result: result, err: err}
	}
}

// NewDashboardProgram creates a new bubbletea program for the dashboard.
// The returned program receives engine events via Send.
func NewDashboardProgram(cfg Config) (*tea.Program, *Dashboard) {
	app := NewDashboard(cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
