package models

import (
	"testing"
	"time"
)

func testFrame() SensorFrame {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return SensorFrame{
		Channels: []string{"HeatExchanger01.S001", "PumpStation01.S002"},
		Samples: []SensorSample{
			{Time: base, Values: []float64{425.1, 3.21}},
			{Time: base.Add(5 * time.Minute), Values: []float64{423.8, 3.19}},
			{Time: base.Add(10 * time.Minute), Values: []float64{427.5, 3.25}},
		},
	}
}

func TestSensorFrame_ChannelIndex(t *testing.T) {
	f := testFrame()

	tests := []struct {
		name    string
		channel string
		want    int
	}{
		{"first channel", "HeatExchanger01.S001", 0},
		{"second channel", "PumpStation01.S002", 1},
		{"missing channel", "ControlUnit01.S003", -1},
		{"empty name", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ChannelIndex(tt.channel); got != tt.want {
				t.Errorf("ChannelIndex(%q) = %d, want %d", tt.channel, got, tt.want)
			}
		})
	}
}

func TestSensorFrame_Series(t *testing.T) {
	f := testFrame()

	temp := f.Series(0)
	if len(temp) != 3 {
		t.Fatalf("expected 3 temperature readings, got %d", len(temp))
	}
	if temp[0] != 425.1 || temp[2] != 427.5 {
		t.Errorf("unexpected temperature series: %v", temp)
	}

	pressure := f.Series(1)
	if pressure[1] != 3.19 {
		t.Errorf("unexpected pressure series: %v", pressure)
	}

	if got := f.Series(2); got != nil {
		t.Errorf("Series(2) on 2-channel frame = %v, want nil", got)
	}
	if got := f.Series(-1); got != nil {
		t.Errorf("Series(-1) = %v, want nil", got)
	}
}

func TestSensorFrame_SeriesSkipsShortSamples(t *testing.T) {
	f := testFrame()
	// A sample missing the second column must not contribute a value.
	f.Samples = append(f.Samples, SensorSample{Time: time.Now(), Values: []float64{420.0}})

	if got := len(f.Series(0)); got != 4 {
		t.Errorf("first channel series length = %d, want 4", got)
	}
	if got := len(f.Series(1)); got != 3 {
		t.Errorf("second channel series length = %d, want 3", got)
	}
}

func TestSensorFrame_Times(t *testing.T) {
	f := testFrame()
	times := f.Times()
	if len(times) != f.Len() {
		t.Fatalf("Times length %d != Len %d", len(times), f.Len())
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			t.Errorf("timestamps not strictly increasing at index %d", i)
		}
	}
}
