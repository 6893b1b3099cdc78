package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReportPanel displays the current AI analysis report in a scrollable
// viewport.
type ReportPanel struct {
	vp      viewport.Model
	report  string
	focused bool
	width   int
	height  int

	titleStyle  lipgloss.Style
	borderStyle lipgloss.Style
	textStyle   lipgloss.Style
	emptyStyle  lipgloss.Style
	scrollStyle lipgloss.Style
}

// NewReportPanel creates a new ReportPanel instance.
func NewReportPanel() *ReportPanel {
	return &ReportPanel{
		vp: viewport.New(40, 10),

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),

		textStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),

		scrollStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// SetReport replaces the report text. An empty report shows the
// placeholder instead.
func (p *ReportPanel) SetReport(text string) {
	p.report = text
	p.refreshContent()
}

// HasReport returns true when a report is loaded.
func (p *ReportPanel) HasReport() bool {
	return p.report != ""
}

// SetSize updates the panel dimensions.
func (p *ReportPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.vp.Width = width - 4
	p.vp.Height = height - 4
	if p.vp.Width < 10 {
		p.vp.Width = 10
	}
	if p.vp.Height < 2 {
		p.vp.Height = 2
	}
	p.refreshContent()
}

// SetFocused sets whether this panel has keyboard focus.
func (p *ReportPanel) SetFocused(focused bool) {
	p.focused = focused
}

// refreshContent rewraps the report text for the current viewport width.
func (p *ReportPanel) refreshContent() {
	if p.report == "" {
		placeholder := lipgloss.NewStyle().Bold(true).Render("No Analysis Available Yet") + "\n\n" +
			"Start monitoring to generate AI-powered insights about your industrial process data."
		p.vp.SetContent(p.emptyStyle.Width(p.vp.Width).Render(placeholder))
		return
	}
	p.vp.SetContent(p.textStyle.Width(p.vp.Width).Render(p.report))
}

// Update handles input messages. Scrolling keys reach the viewport
// only while the panel is focused.
func (p *ReportPanel) Update(msg tea.Msg) (*ReportPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

// View renders the report panel.
func (p *ReportPanel) View() string {
	var b strings.Builder

	title := "🤖 AI Analysis"
	if p.focused {
		title = "[🤖 AI Analysis]"
	}
	b.WriteString(p.titleStyle.Render(title))

	if p.report != "" && p.vp.TotalLineCount() > p.vp.Height {
		b.WriteString(p.scrollStyle.Render(fmt.Sprintf("  %3.0f%%", p.vp.ScrollPercent()*100)))
	}
	b.WriteString("\n")
	b.WriteString(p.vp.View())

	borderColor := lipgloss.Color("240")
	if p.focused {
		borderColor = lipgloss.Color("63") // Blue when focused
	}

	return p.borderStyle.
		BorderForeground(borderColor).
		Width(p.width - 2).
		Height(p.height - 2).
		Render(b.String())
}
