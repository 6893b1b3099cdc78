package telemetry

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/heatwatch/heatwatch/pkg/models"
)

// TimeFormat is the timestamp layout used in both CSV files.
const TimeFormat = "2006-01-02 15:04:05"

// eventsHeader matches the events CSV column layout consumers expect.
var eventsHeader = []string{
	"Time", "Event Type", "Value", "Units", "Event Description",
	"Status", "Reason", "Sensor Id", "Number", "Source",
}

// MarshalEventsCSV renders events as the events.csv file.
func MarshalEventsCSV(events []models.Event) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(eventsHeader); err != nil {
		return nil, fmt.Errorf("write events header: %w", err)
	}

	for i, e := range events {
		row := []string{
			e.Time.Format(TimeFormat),
			string(e.Type),
			formatValue(e.Value),
			e.Units,
			e.Description,
			string(e.Status),
			e.Reason,
			e.SensorID,
			strconv.Itoa(e.Number),
			e.Source,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write event row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush events csv: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalSensorsCSV renders a sensor frame as the sensors.csv file:
// a Time column followed by one column per channel.
func MarshalSensorsCSV(frame models.SensorFrame) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"Time"}, frame.Channels...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write sensors header: %w", err)
	}

	for i, s := range frame.Samples {
		row := make([]string, 0, len(frame.Channels)+1)
		row = append(row, s.Time.Format(TimeFormat))
		for j := range frame.Channels {
			if j < len(s.Values) {
				row = append(row, formatValue(s.Values[j]))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write sensor row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush sensors csv: %w", err)
	}
	return buf.Bytes(), nil
}

// formatValue renders a reading without trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
