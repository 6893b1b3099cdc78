package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/heatwatch/heatwatch/internal/plot"
	"github.com/heatwatch/heatwatch/pkg/models"
)

// PreviewPanel displays a braille rendering of the latest sensor channels.
type PreviewPanel struct {
	frame   models.SensorFrame
	hasData bool
	width   int
	height  int

	titleStyle  lipgloss.Style
	borderStyle lipgloss.Style
	plotStyle   lipgloss.Style
	emptyStyle  lipgloss.Style
}

// NewPreviewPanel creates a new PreviewPanel instance.
func NewPreviewPanel() *PreviewPanel {
	return &PreviewPanel{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),

		plotStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("45")), // Cyan

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// SetFrame updates the sensor frame the panel renders.
func (p *PreviewPanel) SetFrame(frame models.SensorFrame) {
	p.frame = frame
	p.hasData = frame.Len() > 0
}

// SetSize updates the panel dimensions.
func (p *PreviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the preview panel.
func (p *PreviewPanel) View() string {
	var b strings.Builder

	b.WriteString(p.titleStyle.Render("📊 Sensor Preview"))
	b.WriteString("\n")

	if !p.hasData {
		b.WriteString(p.emptyStyle.Render("  No sensor data yet. Press s to start monitoring."))
	} else {
		plotWidth := p.width - 12 // borders, axis labels
		plotHeight := p.height - 5
		if plotWidth < 16 {
			plotWidth = 16
		}
		if plotHeight < 4 {
			plotHeight = 4
		}
		series := plot.SeriesFromFrame(p.frame)
		b.WriteString(p.plotStyle.Render(plot.BrailleString("", series, plotWidth, plotHeight)))
	}

	return p.borderStyle.
		Width(p.width - 2).
		Height(p.height - 2).
		Render(b.String())
}
