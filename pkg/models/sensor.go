package models

import "time"

// SensorSample is one timestamped row of readings, ordered to match
// the frame's channel list.
type SensorSample struct {
	// Time is when the sample was taken.
	Time time.Time `json:"time"`
	// Values holds one reading per channel, in channel order.
	Values []float64 `json:"values"`
}

// SensorFrame is an ordered series of samples across named channels.
// Channel names follow the "Source.SensorID" convention
// (e.g. "HeatExchanger01.S001").
type SensorFrame struct {
	// Channels names each column of the frame.
	Channels []string `json:"channels"`
	// Samples holds the rows, in time order.
	Samples []SensorSample `json:"samples"`
}

// Len returns the number of samples in the frame.
func (f SensorFrame) Len() int {
	return len(f.Samples)
}

// ChannelIndex returns the position of the named channel, or -1 if the
// frame has no such channel.
func (f SensorFrame) ChannelIndex(name string) int {
	for i, c := range f.Channels {
		if c == name {
			return i
		}
	}
	return -1
}

// Series extracts one channel's readings as a slice. Returns nil for an
// out-of-range index. Samples missing a value for the channel are
// skipped.
func (f SensorFrame) Series(idx int) []float64 {
	if idx < 0 || idx >= len(f.Channels) {
		return nil
	}
	out := make([]float64, 0, len(f.Samples))
	for _, s := range f.Samples {
		if idx < len(s.Values) {
			out = append(out, s.Values[idx])
		}
	}
	return out
}

// Times returns the sample timestamps in order.
func (f SensorFrame) Times() []time.Time {
	out := make([]time.Time, len(f.Samples))
	for i, s := range f.Samples {
		out[i] = s.Time
	}
	return out
}

// Batch is one generator output: the events and sensor readings
// produced for a single cycle.
type Batch struct {
	// GeneratedAt is the time the batch was produced.
	GeneratedAt time.Time `json:"generated_at"`
	// Events are the process events for the cycle.
	Events []Event `json:"events"`
	// Sensors are the sensor readings for the cycle.
	Sensors SensorFrame `json:"sensors"`
}
