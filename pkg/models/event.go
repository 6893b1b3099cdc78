// Package models defines the shared data types for heatwatch: process
// events, sensor frames, and the tick results published by the monitor.
package models

import "time"

// EventType identifies the kind of process event recorded by the
// Waste Heat Recovery System. Values are the display strings that
// appear verbatim in the events CSV.
type EventType string

const (
	// EventTemperature is a waste heat capture reading at the furnace outlet.
	EventTemperature EventType = "Temperature"
	// EventPressure is a pressure buildup reading in the recovery system.
	EventPressure EventType = "Pressure"
	// EventEfficiency is a heat recovery efficiency reading.
	EventEfficiency EventType = "Efficiency"
	// EventEnergyReclaim is energy transferred to the process stream.
	EventEnergyReclaim EventType = "Energy Reclaim"
	// EventCO2Reduction is a logged greenhouse gas reduction.
	EventCO2Reduction EventType = "CO₂ Reduction"
)

// Valid returns true if the event type is a known value.
func (t EventType) Valid() bool {
	switch t {
	case EventTemperature, EventPressure, EventEfficiency,
		EventEnergyReclaim, EventCO2Reduction:
		return true
	default:
		return false
	}
}

// EventStatus is the operational status attached to an event.
// Values appear verbatim in the events CSV.
type EventStatus string

const (
	// StatusActive indicates normal, ongoing operation.
	StatusActive EventStatus = "Active"
	// StatusWarning indicates a condition worth watching.
	StatusWarning EventStatus = "Warning"
	// StatusAlert indicates an abnormal condition.
	StatusAlert EventStatus = "Alert"
	// StatusCompleted indicates a finished scheduled operation.
	StatusCompleted EventStatus = "Completed"
	// StatusLogged indicates a routine automated record.
	StatusLogged EventStatus = "Logged"
)

// Valid returns true if the status is a known value.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusActive, StatusWarning, StatusAlert, StatusCompleted, StatusLogged:
		return true
	default:
		return false
	}
}

// Severity classifies statuses for display purposes.
type Severity int

const (
	// SeverityInfo is routine operation.
	SeverityInfo Severity = iota
	// SeverityWarning needs attention.
	SeverityWarning
	// SeverityCritical needs immediate attention.
	SeverityCritical
)

// Severity maps an event status to its display severity. Alerts are
// critical, warnings are warnings, everything else is informational.
func (s EventStatus) Severity() Severity {
	switch s {
	case StatusAlert:
		return SeverityCritical
	case StatusWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Event is one process event row.
type Event struct {
	// Time is when the event occurred.
	Time time.Time `json:"time"`
	// Type is the kind of event.
	Type EventType `json:"type"`
	// Value is the measured reading.
	Value float64 `json:"value"`
	// Units is the unit of the value (°C, bar, %, kWh, kg).
	Units string `json:"units"`
	// Description is the human-readable event description.
	Description string `json:"description"`
	// Status is the operational status at event time.
	Status EventStatus `json:"status"`
	// Reason is the recorded cause for the event.
	Reason string `json:"reason"`
	// SensorID is the reporting sensor (e.g. "S001").
	SensorID string `json:"sensor_id"`
	// Number is the sequential event number within a batch.
	Number int `json:"number"`
	// Source is the originating equipment (e.g. "HeatExchanger01").
	Source string `json:"source"`
}
