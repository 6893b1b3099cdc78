package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/heatwatch/heatwatch/internal/analysis"
	"github.com/heatwatch/heatwatch/internal/monitor"
	"github.com/heatwatch/heatwatch/pkg/models"
)

// StatusPanel displays the recent activity log and cycle metrics.
type StatusPanel struct {
	snap   monitor.Snapshot
	width  int
	height int

	titleStyle    lipgloss.Style
	borderStyle   lipgloss.Style
	timeStyle     lipgloss.Style
	infoStyle     lipgloss.Style
	warnStyle     lipgloss.Style
	criticalStyle lipgloss.Style
	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
	emptyStyle    lipgloss.Style
}

// NewStatusPanel creates a new StatusPanel instance.
func NewStatusPanel() *StatusPanel {
	return &StatusPanel{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),

		timeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		warnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Orange

		criticalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// SetSnapshot updates the engine state the panel renders.
func (p *StatusPanel) SetSnapshot(snap monitor.Snapshot) {
	p.snap = snap
}

// SetSize updates the panel dimensions.
func (p *StatusPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the status panel.
func (p *StatusPanel) View() string {
	var b strings.Builder

	b.WriteString(p.titleStyle.Render("System Status"))
	b.WriteString("\n")

	metrics := p.renderMetrics()
	metricLines := strings.Count(metrics, "\n") + 1

	// Activity gets whatever the metrics block leaves over.
	activityLines := p.height - metricLines - 4 // title, borders, spacing
	if activityLines < 1 {
		activityLines = 1
	}
	b.WriteString(p.renderActivity(activityLines))
	b.WriteString("\n")
	b.WriteString(metrics)

	return p.borderStyle.
		Width(p.width - 2).
		Height(p.height - 2).
		Render(b.String())
}

// renderActivity renders the most recent activity lines that fit.
func (p *StatusPanel) renderActivity(maxLines int) string {
	activity := p.snap.Activity
	if len(activity) == 0 {
		return p.emptyStyle.Render("  No activity yet")
	}
	if len(activity) > maxLines {
		activity = activity[len(activity)-maxLines:]
	}

	var b strings.Builder
	for i, entry := range activity {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.renderActivityLine(entry))
	}
	return b.String()
}

// renderActivityLine renders one activity entry as "[15:04:05] message".
func (p *StatusPanel) renderActivityLine(entry monitor.Activity) string {
	style := p.infoStyle
	switch entry.Level {
	case models.SeverityWarning:
		style = p.warnStyle
	case models.SeverityCritical:
		style = p.criticalStyle
	}

	msg := entry.Message
	maxMsgLen := p.width - 15
	if maxMsgLen < 16 {
		maxMsgLen = 16
	}
	if len(msg) > maxMsgLen {
		msg = msg[:maxMsgLen-3] + "..."
	}

	return p.timeStyle.Render("["+entry.Time.Format("15:04:05")+"]") + " " + style.Render(msg)
}

// renderMetrics renders the cycle metrics block below the activity log.
func (p *StatusPanel) renderMetrics() string {
	events, sensors := 0, 0
	if p.snap.Latest != nil {
		events = len(p.snap.Latest.Events)
		sensors = p.snap.Latest.Sensors.Len()
	}

	ticks := fmt.Sprintf("%d", p.snap.TicksCompleted)
	if p.snap.TicksFailed > 0 {
		ticks += p.criticalStyle.Render(fmt.Sprintf(" (%d failed)", p.snap.TicksFailed))
	}

	var b strings.Builder
	b.WriteString(p.renderRow("Events Generated:", fmt.Sprintf("%d", events)))
	b.WriteString("\n")
	b.WriteString(p.renderRow("Sensor Points:", fmt.Sprintf("%d", sensors)))
	b.WriteString("\n")
	b.WriteString(p.renderRow("Ticks:", ticks))
	b.WriteString("\n")
	b.WriteString(p.renderRow("Tokens:", fmt.Sprintf("%s in / %s out",
		formatTokensCompact(p.snap.TokensIn),
		formatTokensCompact(p.snap.TokensOut))))
	b.WriteString("\n")
	b.WriteString(p.renderRow("Est. Cost:", fmt.Sprintf("$%.4f",
		analysis.EstimateCost(p.snap.TokensIn, p.snap.TokensOut))))
	return b.String()
}

// renderRow renders a label/value pair with aligned columns.
func (p *StatusPanel) renderRow(label, value string) string {
	return fmt.Sprintf(" %s %s", p.labelStyle.Render(fmt.Sprintf("%-18s", label)), p.valueStyle.Render(value))
}

// formatTokensCompact formats tokens in a compact way (e.g., 1.2k, 15k, 1.5M).
func formatTokensCompact(tokens int64) string {
	if tokens < 1000 {
		return fmt.Sprintf("%d", tokens)
	}
	if tokens < 1000000 {
		return fmt.Sprintf("%.1fk", float64(tokens)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(tokens)/1000000)
}
