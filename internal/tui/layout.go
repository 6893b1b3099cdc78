package tui

// Dimensions holds calculated sizes for each dashboard region.
type Dimensions struct {
	// StatusWidth is the width of the system status panel (left).
	StatusWidth int
	// PreviewWidth is the width of the sensor preview panel (center).
	PreviewWidth int
	// ReportWidth is the width of the analysis panel (right).
	ReportWidth int
	// MiddleHeight is the height of the three middle panels.
	MiddleHeight int
	// EventsHeight is the height of the events table region.
	EventsHeight int
}

// LayoutManager calculates dashboard dimensions based on terminal size.
type LayoutManager struct {
	totalWidth  int
	totalHeight int
	// headerHeight is the height reserved for the header block.
	headerHeight int
	// footerHeight is the height reserved for the footer (default 1).
	footerHeight int
}

// NewLayoutManager creates a LayoutManager for the given terminal size.
func NewLayoutManager(width, height int) *LayoutManager {
	return &LayoutManager{
		totalWidth:   width,
		totalHeight:  height,
		headerHeight: 3,
		footerHeight: 1,
	}
}

// SetSize updates the terminal dimensions.
func (l *LayoutManager) SetSize(width, height int) {
	l.totalWidth = width
	l.totalHeight = height
}

// Calculate returns the region dimensions for the current terminal
// size. Width ratios: status 28%, preview 40%, report the remainder.
// The events table gets a fixed band above the footer; the middle
// panels share what is left.
func (l *LayoutManager) Calculate() Dimensions {
	const (
		minStatusWidth  = 24
		minPreviewWidth = 30
		minReportWidth  = 24
		eventsHeight    = 9
		minMiddleHeight = 6
	)

	statusWidth := l.totalWidth * 28 / 100
	previewWidth := l.totalWidth * 40 / 100
	reportWidth := l.totalWidth - statusWidth - previewWidth

	if statusWidth < minStatusWidth {
		statusWidth = minStatusWidth
	}
	if previewWidth < minPreviewWidth {
		previewWidth = minPreviewWidth
	}
	if reportWidth < minReportWidth {
		reportWidth = minReportWidth
	}

	// Scale down proportionally on narrow terminals.
	total := statusWidth + previewWidth + reportWidth
	if total > l.totalWidth && total > 0 {
		scale := float64(l.totalWidth) / float64(total)
		statusWidth = int(float64(statusWidth) * scale)
		previewWidth = int(float64(previewWidth) * scale)
		reportWidth = l.totalWidth - statusWidth - previewWidth
	}

	contentHeight := l.totalHeight - l.headerHeight - l.footerHeight
	middleHeight := contentHeight - eventsHeight
	if middleHeight < minMiddleHeight {
		middleHeight = minMiddleHeight
	}
	eventsBand := contentHeight - middleHeight
	if eventsBand < 3 {
		eventsBand = 3
	}

	return Dimensions{
		StatusWidth:  statusWidth,
		PreviewWidth: previewWidth,
		ReportWidth:  reportWidth,
		MiddleHeight: middleHeight,
		EventsHeight: eventsBand,
	}
}

// TotalWidth returns the current terminal width.
func (l *LayoutManager) TotalWidth() int {
	return l.totalWidth
}

// TotalHeight returns the current terminal height.
func (l *LayoutManager) TotalHeight() int {
	return l.totalHeight
}

// HeaderHeight returns the height reserved for the header.
func (l *LayoutManager) HeaderHeight() int {
	return l.headerHeight
}

// FooterHeight returns the height reserved for the footer.
func (l *LayoutManager) FooterHeight() int {
	return l.footerHeight
}
