// Package telemetry generates the synthetic Waste Heat Recovery System
// data that drives every monitoring cycle: process events and sensor
// readings, drawn from per-class normal distributions.
package telemetry

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/heatwatch/heatwatch/pkg/models"
)

// EventClass describes one kind of process event the generator can
// produce: its fixed CSV fields and the normal distribution its
// values are drawn from.
type EventClass struct {
	Type        models.EventType   `yaml:"type"`
	Units       string             `yaml:"units"`
	Description string             `yaml:"description"`
	Status      models.EventStatus `yaml:"status"`
	Reason      string             `yaml:"reason"`
	Mean        float64            `yaml:"mean"`
	StdDev      float64            `yaml:"stddev"`
}

// Source is a piece of equipment events are attributed to.
type Source struct {
	Source   string `yaml:"source"`
	SensorID string `yaml:"sensor_id"`
}

// SensorChannel describes one column of the sensors CSV: which
// equipment it belongs to and the distribution of its readings.
type SensorChannel struct {
	Source    string  `yaml:"source"`
	SensorID  string  `yaml:"sensor_id"`
	Mean      float64 `yaml:"mean"`
	StdDev    float64 `yaml:"stddev"`
	Precision int     `yaml:"precision"`
}

// Name returns the channel's column name, "Source.SensorID".
func (c SensorChannel) Name() string {
	return c.Source + "." + c.SensorID
}

// Catalog is the full set of event classes, sources, and sensor
// channels the generator draws from.
type Catalog struct {
	EventClasses []EventClass    `yaml:"event_classes"`
	Sources      []Source        `yaml:"sources"`
	Channels     []SensorChannel `yaml:"channels"`
}

// DefaultCatalog returns the built-in Waste Heat Recovery System
// catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		EventClasses: []EventClass{
			{
				Type:        models.EventTemperature,
				Units:       "°C",
				Description: "Waste heat capture at furnace outlet",
				Status:      models.StatusActive,
				Reason:      "Furnace in operation",
				Mean:        425,
				StdDev:      10,
			},
			{
				Type:        models.EventPressure,
				Units:       "bar",
				Description: "Pressure buildup in recovery system",
				Status:      models.StatusWarning,
				Reason:      "Increased throughput demand",
				Mean:        3.2,
				StdDev:      0.2,
			},
			{
				Type:        models.EventEfficiency,
				Units:       "%",
				Description: "Heat recovery efficiency drop",
				Status:      models.StatusAlert,
				Reason:      "Heat exchanger fouling",
				Mean:        80,
				StdDev:      5,
			},
			{
				Type:        models.EventEnergyReclaim,
				Units:       "kWh",
				Description: "Energy transferred to process stream",
				Status:      models.StatusCompleted,
				Reason:      "Scheduled daily cycle",
				Mean:        250,
				StdDev:      20,
			},
			{
				Type:        models.EventCO2Reduction,
				Units:       "kg",
				Description: "Greenhouse gas reduction logged",
				Status:      models.StatusLogged,
				Reason:      "Automated monitoring",
				Mean:        56,
				StdDev:      10,
			},
		},
		Sources: []Source{
			{Source: "HeatExchanger01", SensorID: "S001"},
			{Source: "PumpStation01", SensorID: "S002"},
			{Source: "ControlUnit01", SensorID: "S003"},
			{Source: "RecoveryUnit02", SensorID: "S004"},
			{Source: "MonitorSystem01", SensorID: "S005"},
		},
		Channels: []SensorChannel{
			{Source: "HeatExchanger01", SensorID: "S001", Mean: 425, StdDev: 6, Precision: 2},
			{Source: "PumpStation01", SensorID: "S002", Mean: 3.2, StdDev: 0.15, Precision: 3},
		},
	}
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}

	return c, nil
}

// Validate checks that the catalog can drive the generator.
func (c Catalog) Validate() error {
	if len(c.EventClasses) == 0 {
		return fmt.Errorf("no event classes defined")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources defined")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("no sensor channels defined")
	}
	for i, ec := range c.EventClasses {
		if ec.Type == "" {
			return fmt.Errorf("event class %d: missing type", i)
		}
		if ec.StdDev < 0 {
			return fmt.Errorf("event class %q: negative stddev", ec.Type)
		}
	}
	for i, ch := range c.Channels {
		if ch.Source == "" || ch.SensorID == "" {
			return fmt.Errorf("channel %d: missing source or sensor_id", i)
		}
	}
	return nil
}

// ChannelNames returns the CSV column names for all channels.
func (c Catalog) ChannelNames() []string {
	names := make([]string, len(c.Channels))
	for i, ch := range c.Channels {
		names[i] = ch.Name()
	}
	return names
}

// WriteExample writes the catalog to a YAML file, used by `heatwatch
// init` to scaffold an editable catalog.
func (c Catalog) WriteExample(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
