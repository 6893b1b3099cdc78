package tui

import (
	"strings"
	"testing"
)

func TestReportPanel_Placeholder(t *testing.T) {
	p := NewReportPanel()
	p.SetSize(50, 16)

	view := p.View()

	if !strings.Contains(view, "No Analysis Available Yet") {
		t.Error("view missing placeholder title")
	}
	if !strings.Contains(view, "Start monitoring") {
		t.Error("view missing placeholder hint")
	}
	if p.HasReport() {
		t.Error("HasReport should be false before any report")
	}
}

func TestReportPanel_ShowsReport(t *testing.T) {
	p := NewReportPanel()
	p.SetSize(50, 16)

	p.SetReport("Sensor S001 shows a sustained temperature drift.")

	view := p.View()
	if !p.HasReport() {
		t.Error("HasReport should be true")
	}
	if !strings.Contains(view, "Sensor S001") {
		t.Error("view missing report text")
	}
	if strings.Contains(view, "No Analysis Available Yet") {
		t.Error("placeholder should be replaced by the report")
	}
}

func TestReportPanel_RewrapsOnResize(t *testing.T) {
	p := NewReportPanel()
	p.SetSize(50, 16)
	p.SetReport(strings.Repeat("drift ", 50))

	// Shrinking must not leave lines wider than the viewport.
	p.SetSize(30, 10)

	for _, line := range strings.Split(p.vp.View(), "\n") {
		if len([]rune(line)) > 30 {
			t.Errorf("line %q wider than panel", line)
		}
	}
}
