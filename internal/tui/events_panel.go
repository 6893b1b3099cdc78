package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/heatwatch/heatwatch/pkg/models"
)

// EventsPanel displays the process events from the latest cycle.
type EventsPanel struct {
	tbl     table.Model
	events  []models.Event
	focused bool
	width   int
	height  int

	titleStyle  lipgloss.Style
	borderStyle lipgloss.Style
	emptyStyle  lipgloss.Style
}

// NewEventsPanel creates a new EventsPanel instance.
func NewEventsPanel() *EventsPanel {
	tbl := table.New(
		table.WithColumns(eventColumns(80)),
		table.WithFocused(false),
		table.WithHeight(5),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	tbl.SetStyles(styles)

	return &EventsPanel{
		tbl: tbl,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// eventColumns builds the column set scaled to the given table width.
func eventColumns(width int) []table.Column {
	// Fixed columns take 52 cells; description gets the rest.
	desc := width - 52
	if desc < 12 {
		desc = 12
	}
	return []table.Column{
		{Title: "Time", Width: 8},
		{Title: "Type", Width: 14},
		{Title: "Value", Width: 8},
		{Title: "Units", Width: 5},
		{Title: "Status", Width: 9},
		{Title: "Sensor", Width: 6},
		{Title: "Description", Width: desc},
	}
}

// SetEvents replaces the rows with the given events.
func (p *EventsPanel) SetEvents(events []models.Event) {
	p.events = events
	rows := make([]table.Row, len(events))
	for i, e := range events {
		rows[i] = table.Row{
			e.Time.Format("15:04:05"),
			string(e.Type),
			fmt.Sprintf("%.1f", e.Value),
			e.Units,
			string(e.Status),
			e.SensorID,
			e.Description,
		}
	}
	p.tbl.SetRows(rows)
}

// SetSize updates the panel dimensions.
func (p *EventsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height

	tblWidth := width - 4
	tblHeight := height - 4 // title, borders
	if tblHeight < 1 {
		tblHeight = 1
	}
	p.tbl.SetColumns(eventColumns(tblWidth))
	p.tbl.SetWidth(tblWidth)
	p.tbl.SetHeight(tblHeight)
}

// SetFocused sets whether this panel has keyboard focus.
func (p *EventsPanel) SetFocused(focused bool) {
	p.focused = focused
	if focused {
		p.tbl.Focus()
	} else {
		p.tbl.Blur()
	}
}

// Update handles input messages. Row navigation reaches the table only
// while the panel is focused.
func (p *EventsPanel) Update(msg tea.Msg) (*EventsPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	var cmd tea.Cmd
	p.tbl, cmd = p.tbl.Update(msg)
	return p, cmd
}

// View renders the events panel.
func (p *EventsPanel) View() string {
	title := "Latest Process Events"
	if p.focused {
		title = "[Latest Process Events]"
	}

	var content string
	if len(p.events) == 0 {
		content = p.titleStyle.Render(title) + "\n" +
			p.emptyStyle.Render("  No events yet")
	} else {
		content = p.titleStyle.Render(title) + "\n" + p.tbl.View()
	}

	borderColor := lipgloss.Color("240")
	if p.focused {
		borderColor = lipgloss.Color("63") // Blue when focused
	}

	return p.borderStyle.
		BorderForeground(borderColor).
		Width(p.width - 2).
		Height(p.height - 2).
		Render(content)
}

// EventCount returns the number of events currently shown.
func (p *EventsPanel) EventCount() int {
	return len(p.events)
}
