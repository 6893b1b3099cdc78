package models

import "time"

// TickResult is the complete product of one monitoring cycle. Once
// published it is immutable: the monitor hands out pointers to a result
// and never modifies one after publication, so readers may hold a
// snapshot without copying.
type TickResult struct {
	// Cycle is the monotonic cycle number this result was published as.
	Cycle int `json:"cycle"`
	// Timestamp is when the cycle ran.
	Timestamp time.Time `json:"timestamp"`
	// Events are the process events generated this cycle.
	Events []Event `json:"events"`
	// Sensors are the sensor readings generated this cycle.
	Sensors SensorFrame `json:"sensors"`
	// PlotPath is the rendered plot image path.
	PlotPath string `json:"plot_path"`
	// ReportPath is the written analysis report path, empty when the
	// cycle produced no report.
	ReportPath string `json:"report_path,omitempty"`
	// Analysis is the model's anomaly analysis text, empty when
	// analysis failed or was disabled.
	Analysis string `json:"analysis,omitempty"`
	// Warnings records non-fatal problems hit during the cycle
	// (archive copy failures, analysis errors).
	Warnings []string `json:"warnings,omitempty"`
	// TokensIn is the input token count for the analysis call.
	TokensIn int64 `json:"tokens_in"`
	// TokensOut is the output token count for the analysis call.
	TokensOut int64 `json:"tokens_out"`
	// Duration is how long the cycle took end to end.
	Duration time.Duration `json:"duration"`
}

// HasAnalysis returns true if the cycle produced analysis text.
func (r *TickResult) HasAnalysis() bool {
	return r != nil && r.Analysis != ""
}

// CountByStatus returns how many of the result's events carry the
// given status.
func (r *TickResult) CountByStatus(s EventStatus) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, e := range r.Events {
		if e.Status == s {
			n++
		}
	}
	return n
}
