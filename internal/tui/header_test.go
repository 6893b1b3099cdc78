package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/heatwatch/heatwatch/internal/monitor"
)

func TestHeader_BadgePerPhase(t *testing.T) {
	h := NewHeader()
	now := time.Now()

	tests := []struct {
		name  string
		state HeaderState
		want  string
	}{
		{
			"stopped",
			HeaderState{Phase: monitor.PhaseStopped, Now: now},
			"🔴 MONITORING STOPPED",
		},
		{
			"running idle",
			HeaderState{Phase: monitor.PhaseRunning, Cycle: 3, Interval: time.Minute, Now: now},
			"🟢 MONITORING ACTIVE",
		},
		{
			"running mid tick",
			HeaderState{Phase: monitor.PhaseRunning, Ticking: true, Spinner: "◐", Cycle: 4, Now: now},
			"🟡 CYCLE RUNNING",
		},
		{
			"draining",
			HeaderState{Phase: monitor.PhaseDraining, Spinner: "◐", Now: now},
			"🟡 STOPPING",
		},
		{
			"manual cycle while stopped",
			HeaderState{Phase: monitor.PhaseStopped, Ticking: true, Spinner: "◐", Now: now},
			"🟡 CYCLE RUNNING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := h.View(tt.state)
			if !strings.Contains(view, tt.want) {
				t.Errorf("view = %q, want badge %q", view, tt.want)
			}
		})
	}
}

func TestHeader_Countdown(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := countdown(now.Add(42*time.Second), now); got != "42s" {
		t.Errorf("countdown = %q, want 42s", got)
	}
	if got := countdown(now.Add(-5*time.Second), now); got != "0s" {
		t.Errorf("countdown past due = %q, want 0s", got)
	}
	if got := countdown(time.Time{}, now); got != "" {
		t.Errorf("countdown with zero next = %q, want empty", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{time.Minute, "1m"},
		{5 * time.Minute, "5m"},
		{90 * time.Second, "1m30s"},
		{time.Hour, "1h"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
