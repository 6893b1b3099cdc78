package main

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		expected string
	}{
		{"seconds", 45 * time.Second, "45s"},
		{"zero", 0, "0s"},
		{"minutes", 90 * time.Second, "1m"},
		{"whole hours", 3 * time.Hour, "3h"},
		{"hours and minutes", 3*time.Hour + 25*time.Minute, "3h25m"},
		{"days", 26 * time.Hour, "1d"},
		{"multiple days", 73 * time.Hour, "3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatDuration(tt.d)
			if result != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, result, tt.expected)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		result := formatNumber(tt.n)
		if result != tt.expected {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, result, tt.expected)
		}
	}
}
