package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/heatwatch/heatwatch/internal/monitor"
)

// HeaderState is the data the header renders each frame.
type HeaderState struct {
	Phase    monitor.Phase
	Ticking  bool
	Spinner  string
	Cycle    int
	Interval time.Duration
	Next     time.Time
	Now      time.Time
}

// Header renders the dashboard title bar and monitoring status line.
type Header struct {
	width int

	titleStyle   lipgloss.Style
	captionStyle lipgloss.Style
	stoppedStyle lipgloss.Style
	activeStyle  lipgloss.Style
	cycleStyle   lipgloss.Style
	infoStyle    lipgloss.Style
}

// NewHeader creates a new Header.
func NewHeader() *Header {
	return &Header{
		width: 80,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),

		captionStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true),

		stoppedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red

		activeStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34")), // Green

		cycleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Yellow

		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// Height returns the header height in lines.
func (h *Header) Height() int {
	return 3 // title + status line + spacing
}

// View renders the header for the given state.
func (h *Header) View(st HeaderState) string {
	title := h.titleStyle.Render("🏭 Industrial Process Monitoring") + "  " +
		h.captionStyle.Render("waste heat recovery · AI anomaly detection")

	badge, info := h.statusLine(st)
	status := badge
	if info != "" {
		status += "  " + h.infoStyle.Render(info)
	}

	return title + "\n" + status + "\n"
}

// statusLine returns the phase badge and the detail text beside it.
func (h *Header) statusLine(st HeaderState) (string, string) {
	switch st.Phase {
	case monitor.PhaseRunning:
		if st.Ticking {
			badge := h.cycleStyle.Render("🟡 CYCLE RUNNING " + st.Spinner)
			return badge, fmt.Sprintf("cycle %d │ interval %s", st.Cycle, formatDuration(st.Interval))
		}
		badge := h.activeStyle.Render("🟢 MONITORING ACTIVE")
		info := fmt.Sprintf("cycle %d │ interval %s", st.Cycle, formatDuration(st.Interval))
		if wait := countdown(st.Next, st.Now); wait != "" {
			info += " │ next in " + wait
		}
		return badge, info

	case monitor.PhaseDraining:
		badge := h.cycleStyle.Render("🟡 STOPPING " + st.Spinner)
		return badge, "finishing current cycle"

	default:
		badge := h.stoppedStyle.Render("🔴 MONITORING STOPPED")
		if st.Ticking {
			badge = h.cycleStyle.Render("🟡 CYCLE RUNNING " + st.Spinner)
			return badge, "manual cycle"
		}
		info := ""
		if st.Cycle > 0 {
			info = fmt.Sprintf("last cycle %d", st.Cycle)
		}
		return badge, info
	}
}

// countdown formats the time remaining until next, or "" when next is
// unset or already past.
func countdown(next, now time.Time) string {
	if next.IsZero() || now.IsZero() {
		return ""
	}
	wait := next.Sub(now).Round(time.Second)
	if wait < 0 {
		wait = 0
	}
	return formatDuration(wait)
}

// formatDuration renders whole minutes as "5m" instead of "5m0s".
func formatDuration(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return d.Round(time.Second).String()
}
