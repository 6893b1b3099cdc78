package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/heatwatch/heatwatch/internal/monitor"
)

// Footer renders the cycle summary line and keyboard hints.
type Footer struct {
	width    int
	phase    monitor.Phase
	lastTick time.Time
	cycles   int
	quitting bool
	message  string
	msgError bool

	hintStyle      lipgloss.Style
	errorStyle     lipgloss.Style
	drainStyle     lipgloss.Style
	separatorStyle lipgloss.Style
}

// NewFooter creates a new Footer instance.
func NewFooter() *Footer {
	return &Footer{
		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		drainStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),

		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
	}
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetState updates the cycle summary the footer renders.
func (f *Footer) SetState(phase monitor.Phase, lastTick time.Time, cycles int, quitting bool) {
	f.phase = phase
	f.lastTick = lastTick
	f.cycles = cycles
	f.quitting = quitting
}

// SetMessage sets a transient status message shown before the hints.
func (f *Footer) SetMessage(message string, isError bool) {
	f.message = message
	f.msgError = isError
}

// View renders the footer.
func (f *Footer) View() string {
	sep := f.separatorStyle.Render(" │ ")

	var left string
	if f.quitting && f.phase != monitor.PhaseStopped {
		left = f.drainStyle.Render("⏳ draining, finishing current cycle")
	} else if f.message != "" {
		if f.msgError {
			left = f.errorStyle.Render("✗ " + f.message)
		} else {
			left = f.hintStyle.Render(f.message)
		}
	} else {
		summary := "Last Cycle: never"
		if !f.lastTick.IsZero() {
			summary = "Last Cycle: " + f.lastTick.Format("15:04:05")
		}
		summary += fmt.Sprintf(" │ Total Cycles: %d", f.cycles)
		left = f.hintStyle.Render(summary)
	}

	right := f.keyboardHints()
	if left != "" && right != "" {
		return left + sep + right
	}
	if left != "" {
		return left
	}
	return right
}

// keyboardHints returns phase-sensitive keyboard hints.
func (f *Footer) keyboardHints() string {
	if f.quitting {
		return f.hintStyle.Render("q force quit")
	}

	var hints string
	switch f.phase {
	case monitor.PhaseRunning:
		hints = "x stop"
	case monitor.PhaseDraining:
		hints = "draining"
	default:
		hints = "s start │ r run once"
	}
	hints += " │ tab focus │ ↑/↓ scroll │ q quit"

	return f.hintStyle.Render(hints)
}
