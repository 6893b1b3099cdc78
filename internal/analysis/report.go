package analysis

import (
	"strings"
	"time"
)

const reportTimeFormat = "2006-01-02 15:04:05"

// FormatReport wraps the raw analysis text in the standard report framing.
// plotPath names the plot image the analysis was produced from.
func FormatReport(text, plotPath string, generatedAt time.Time) string {
	rule := strings.Repeat("=", 80)

	var b strings.Builder
	b.WriteString(rule + "\n")
	b.WriteString("INDUSTRIAL PROCESS MONITORING - ANOMALY ANALYSIS REPORT\n")
	b.WriteString(rule + "\n")
	b.WriteString("Generated at: " + generatedAt.Format(reportTimeFormat) + "\n")
	b.WriteString("Source plot: " + plotPath + "\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(text)
	b.WriteString("\n\n" + rule + "\n")
	b.WriteString("End of Report\n")
	return b.String()
}

// Summary collapses the analysis text into a single line of at most max runes.
// Whitespace runs are flattened to single spaces; truncation appends "...".
func Summary(text string, max int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if max <= 0 {
		return flat
	}
	runes := []rune(flat)
	if len(runes) <= max {
		return flat
	}
	return string(runes[:max]) + "..."
}
