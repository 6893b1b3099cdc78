package models

import "testing"

func TestTickResult_HasAnalysis(t *testing.T) {
	tests := []struct {
		name   string
		result *TickResult
		want   bool
	}{
		{"nil result", nil, false},
		{"empty analysis", &TickResult{Cycle: 1}, false},
		{"with analysis", &TickResult{Cycle: 1, Analysis: "sensor S001 anomalous"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HasAnalysis(); got != tt.want {
				t.Errorf("HasAnalysis() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTickResult_CountByStatus(t *testing.T) {
	r := &TickResult{
		Events: []Event{
			{Status: StatusActive},
			{Status: StatusAlert},
			{Status: StatusWarning},
			{Status: StatusAlert},
			{Status: StatusLogged},
		},
	}

	tests := []struct {
		name   string
		status EventStatus
		want   int
	}{
		{"alerts", StatusAlert, 2},
		{"warnings", StatusWarning, 1},
		{"active", StatusActive, 1},
		{"completed", StatusCompleted, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CountByStatus(tt.status); got != tt.want {
				t.Errorf("CountByStatus(%q) = %d, want %d", tt.status, got, tt.want)
			}
		})
	}

	var nilResult *TickResult
	if got := nilResult.CountByStatus(StatusAlert); got != 0 {
		t.Errorf("nil CountByStatus = %d, want 0", got)
	}
}
