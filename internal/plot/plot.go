// Package plot renders the monitoring artifacts: the culprit-signals
// PNG grid written each cycle, and a braille terminal preview of the
// sensor channels for the dashboard and CLI.
package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/heatwatch/heatwatch/pkg/models"
)

// FigureTitle is the heading across the top of the rendered grid.
const FigureTitle = "Culprit Signals Analysis - Industrial Process Monitoring"

// Panel colors, one per grid position reading left to right, top to
// bottom.
var panelColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b",
}

// Renderer draws the 3x2 culprit-signals grid: the two sensor
// channels on the top row, then one panel per plotted event type.
type Renderer struct {
	width  vg.Length
	height vg.Length
	dpi    int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithSize overrides the figure dimensions.
func WithSize(width, height vg.Length) RendererOption {
	return func(r *Renderer) {
		r.width = width
		r.height = height
	}
}

// WithDPI overrides the raster resolution.
func WithDPI(dpi int) RendererOption {
	return func(r *Renderer) {
		r.dpi = dpi
	}
}

// NewRenderer returns a Renderer producing a 16x12 inch figure at
// 300 DPI unless options override it.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		width:  16 * vg.Inch,
		height: 12 * vg.Inch,
		dpi:    300,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderCulpritSignals draws the grid for one batch and writes it as a
// PNG at path. Panels with no data keep their titles on an empty
// canvas.
func (r *Renderer) RenderCulpritSignals(batch models.Batch, path string) error {
	const rows, cols = 3, 2

	panels, err := r.buildPanels(batch)
	if err != nil {
		return fmt.Errorf("build panels: %w", err)
	}

	img := vgimg.NewWith(
		vgimg.UseWH(r.width, r.height),
		vgimg.UseDPI(r.dpi),
	)
	dc := draw.New(img)

	// Reserve a band across the top for the figure title; the grid
	// tiles fill the rest.
	titleBand := vg.Points(40)
	bandCanvas := draw.Crop(dc, 0, dc.Max.Y-dc.Min.Y-titleBand, 0, 0)
	gridCanvas := draw.Crop(dc, 0, 0, 0, -titleBand)

	titlePlot := plot.New()
	titlePlot.Title.Text = FigureTitle
	titlePlot.Title.TextStyle.Font.Size = vg.Points(18)
	titlePlot.HideAxes()
	titlePlot.Draw(bandCanvas)

	tiles := draw.Tiles{
		Rows: rows,
		Cols: cols,
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}
	canvases := plot.Align(panels, tiles, gridCanvas)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if panels[i][j] != nil {
				panels[i][j].Draw(canvases[i][j])
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("encode plot png: %w", err)
	}
	return nil
}

func (r *Renderer) buildPanels(batch models.Batch) ([][]*plot.Plot, error) {
	frame := batch.Sensors

	ch0Title, ch1Title := "Temperature", "Pressure"
	if len(frame.Channels) > 0 {
		ch0Title = "Temperature - " + frame.Channels[0]
	}
	if len(frame.Channels) > 1 {
		ch1Title = "Pressure - " + frame.Channels[1]
	}

	p00, err := sensorPanel(ch0Title, "Temperature (°C)", frame, 0, panelColors[0])
	if err != nil {
		return nil, err
	}
	p01, err := sensorPanel(ch1Title, "Pressure (bar)", frame, 1, panelColors[1])
	if err != nil {
		return nil, err
	}
	p10, err := eventPanel("Temperature Events", "Temperature (°C)", batch.Events, models.EventTemperature, panelColors[2])
	if err != nil {
		return nil, err
	}
	p11, err := eventPanel("Heat Recovery Efficiency", "Efficiency (%)", batch.Events, models.EventEfficiency, panelColors[3])
	if err != nil {
		return nil, err
	}
	p20, err := eventPanel("Energy Reclaim", "Energy (kWh)", batch.Events, models.EventEnergyReclaim, panelColors[4])
	if err != nil {
		return nil, err
	}
	p21, err := eventPanel("CO₂ Reduction", "CO₂ Reduction (kg)", batch.Events, models.EventCO2Reduction, panelColors[5])
	if err != nil {
		return nil, err
	}

	return [][]*plot.Plot{
		{p00, p01},
		{p10, p11},
		{p20, p21},
	}, nil
}

// sensorPanel plots one channel of the sensor frame as a line.
func sensorPanel(title, ylabel string, frame models.SensorFrame, channel int, hex string) (*plot.Plot, error) {
	p := newPanel(title, ylabel)

	values := frame.Series(channel)
	if len(values) == 0 {
		return p, nil
	}
	times := frame.Times()

	xys := make(plotter.XYs, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(times[i].Unix()), Y: v}
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("line for %s: %w", title, err)
	}
	line.Color = parseHexColor(hex)
	line.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

// eventPanel plots all events of one type as a marked line.
func eventPanel(title, ylabel string, events []models.Event, typ models.EventType, hex string) (*plot.Plot, error) {
	p := newPanel(title, ylabel)

	var xys plotter.XYs
	for _, e := range events {
		if e.Type == typ {
			xys = append(xys, plotter.XY{X: float64(e.Time.Unix()), Y: e.Value})
		}
	}
	if len(xys) == 0 {
		return p, nil
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("line points for %s: %w", title, err)
	}
	c := parseHexColor(hex)
	line.Color = c
	line.Width = vg.Points(1.5)
	points.Color = c
	points.Radius = vg.Points(2)
	p.Add(line, points)
	return p, nil
}

func newPanel(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = ylabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04"}
	p.Add(plotter.NewGrid())
	return p
}

// parseHexColor converts "#rrggbb" to a color. Falls back to black on
// malformed input.
func parseHexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
