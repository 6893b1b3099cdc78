package telemetry

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/heatwatch/heatwatch/pkg/models"
)

func TestMarshalEventsCSV(t *testing.T) {
	events := []models.Event{
		{
			Time:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Type:        models.EventTemperature,
			Value:       427.31,
			Units:       "°C",
			Description: "Waste heat capture at furnace outlet",
			Status:      models.StatusActive,
			Reason:      "Furnace in operation",
			SensorID:    "S001",
			Number:      100,
			Source:      "HeatExchanger01",
		},
		{
			Time:        time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
			Type:        models.EventCO2Reduction,
			Value:       56.5,
			Units:       "kg",
			Description: "Greenhouse gas reduction logged",
			Status:      models.StatusLogged,
			Reason:      "Automated monitoring",
			SensorID:    "S005",
			Number:      101,
			Source:      "MonitorSystem01",
		},
	}

	data, err := MarshalEventsCSV(events)
	if err != nil {
		t.Fatalf("MarshalEventsCSV: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse generated csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}

	wantHeader := []string{
		"Time", "Event Type", "Value", "Units", "Event Description",
		"Status", "Reason", "Sensor Id", "Number", "Source",
	}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header column %d = %q, want %q", i, rows[0][i], col)
		}
	}

	first := rows[1]
	if first[0] != "2025-06-01 12:00:00" {
		t.Errorf("time column = %q", first[0])
	}
	if first[1] != "Temperature" {
		t.Errorf("type column = %q", first[1])
	}
	if first[2] != "427.31" {
		t.Errorf("value column = %q", first[2])
	}
	if first[8] != "100" {
		t.Errorf("number column = %q", first[8])
	}

	second := rows[2]
	if second[1] != "CO₂ Reduction" {
		t.Errorf("second row type = %q", second[1])
	}
	if second[5] != "Logged" {
		t.Errorf("second row status = %q", second[5])
	}
}

func TestMarshalSensorsCSV(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	frame := models.SensorFrame{
		Channels: []string{"HeatExchanger01.S001", "PumpStation01.S002"},
		Samples: []models.SensorSample{
			{Time: base, Values: []float64{425.12, 3.215}},
			{Time: base.Add(5 * time.Minute), Values: []float64{423.8, 3.19}},
		},
	}

	data, err := MarshalSensorsCSV(frame)
	if err != nil {
		t.Fatalf("MarshalSensorsCSV: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse generated csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Time" || rows[0][1] != "HeatExchanger01.S001" || rows[0][2] != "PumpStation01.S002" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "425.12" || rows[1][2] != "3.215" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][0] != "2025-06-01 12:05:00" {
		t.Errorf("unexpected second row time: %q", rows[2][0])
	}
}

func TestMarshalSensorsCSVPadsShortSamples(t *testing.T) {
	frame := models.SensorFrame{
		Channels: []string{"A.S001", "B.S002"},
		Samples: []models.SensorSample{
			{Time: time.Now(), Values: []float64{1.0}},
		},
	}

	data, err := MarshalSensorsCSV(frame)
	if err != nil {
		t.Fatalf("MarshalSensorsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[1], ",1,") {
		t.Errorf("expected empty trailing cell for missing value, got %q", lines[1])
	}
}
