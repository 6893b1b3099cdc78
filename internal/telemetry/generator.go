package telemetry

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/heatwatch/heatwatch/pkg/models"
)

// Generator produces one Batch of synthetic telemetry per cycle.
// Not safe for concurrent use; the monitor runs at most one cycle at
// a time.
type Generator struct {
	rnd     *rand.Rand
	catalog Catalog
	points  int
	spacing time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed fixes the random source for reproducible batches.
// A zero seed keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		if seed != 0 {
			g.rnd = rand.New(rand.NewSource(seed))
		}
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c Catalog) Option {
	return func(g *Generator) {
		g.catalog = c
	}
}

// NewGenerator returns a Generator producing `points` rows spaced
// `spacing` apart, seeded with the current time unless WithSeed
// overrides it.
func NewGenerator(points int, spacing time.Duration, opts ...Option) (*Generator, error) {
	if points <= 0 {
		return nil, fmt.Errorf("points must be positive, got %d", points)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("spacing must be positive, got %v", spacing)
	}

	g := &Generator{
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		catalog: DefaultCatalog(),
		points:  points,
		spacing: spacing,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	return g, nil
}

// Generate produces the events and sensor readings for one cycle.
// Row i is stamped now + i*spacing: timestamps run forward from the
// cycle start, covering the projection window the plot displays.
func (g *Generator) Generate(now time.Time) (models.Batch, error) {
	events := make([]models.Event, 0, g.points)
	for i := 0; i < g.points; i++ {
		class := g.catalog.EventClasses[g.rnd.Intn(len(g.catalog.EventClasses))]
		src := g.catalog.Sources[g.rnd.Intn(len(g.catalog.Sources))]

		events = append(events, models.Event{
			Time:        now.Add(time.Duration(i) * g.spacing),
			Type:        class.Type,
			Value:       round(g.rnd.NormFloat64()*class.StdDev+class.Mean, 2),
			Units:       class.Units,
			Description: class.Description,
			Status:      class.Status,
			Reason:      class.Reason,
			SensorID:    src.SensorID,
			Number:      100 + i,
			Source:      src.Source,
		})
	}

	frame := models.SensorFrame{
		Channels: g.catalog.ChannelNames(),
		Samples:  make([]models.SensorSample, 0, g.points),
	}
	for i := 0; i < g.points; i++ {
		values := make([]float64, len(g.catalog.Channels))
		for j, ch := range g.catalog.Channels {
			values[j] = round(g.rnd.NormFloat64()*ch.StdDev+ch.Mean, ch.Precision)
		}
		frame.Samples = append(frame.Samples, models.SensorSample{
			Time:   now.Add(time.Duration(i) * g.spacing),
			Values: values,
		})
	}

	return models.Batch{
		GeneratedAt: now,
		Events:      events,
		Sensors:     frame,
	}, nil
}

// round rounds v to n decimal places.
func round(v float64, n int) float64 {
	p := math.Pow10(n)
	return math.Round(v*p) / p
}
