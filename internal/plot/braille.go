package plot

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/heatwatch/heatwatch/pkg/models"
)

// Series is one named line on a terminal plot.
type Series struct {
	Name   string
	Values []float64
}

// SeriesFromFrame converts a sensor frame's channels into plot series.
func SeriesFromFrame(frame models.SensorFrame) []Series {
	out := make([]Series, 0, len(frame.Channels))
	for i, name := range frame.Channels {
		out = append(out, Series{Name: name, Values: frame.Series(i)})
	}
	return out
}

type valueRange struct {
	min float64
	max float64
}

type dashPattern struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultBrailleHeight = 8
	minBrailleWidth      = 10
	axisLabelTop         = "100%"
	axisLabelMid         = "50%"
	axisLabelBottom      = "0%"
	axisSeparator        = " │ "
	scaleNote            = "Scaled per channel; ranges below."
	colorReset           = "\x1b[0m"
	fallbackTermWidth    = 80
)

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var palette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// RenderBraille writes a braille line plot of the series to w. Each
// series is scaled to its own min/max so channels with different units
// share the canvas. Zero width picks a width from the terminal.
func RenderBraille(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	series = dropEmpty(series)
	if len(series) == 0 {
		return nil
	}

	if height <= 0 {
		height = defaultBrailleHeight
	}
	if width <= 0 {
		width = BrailleWidthFor(terminalWidth())
	}
	if width < minBrailleWidth {
		width = minBrailleWidth
	}

	scaled := make([]Series, 0, len(series))
	for _, s := range series {
		scaled = append(scaled, Series{Name: s.Name, Values: resample(s.Values, width)})
	}

	ranges := make([]valueRange, 0, len(scaled))
	for _, s := range scaled {
		lo, hi := minMax(s.Values)
		if math.Abs(hi-lo) < 1e-9 {
			lo--
			hi++
		}
		ranges = append(ranges, valueRange{min: lo, max: hi})
	}

	grids := make([][][]uint8, len(scaled))
	for i := range grids {
		grids[i] = newGrid(height, width)
	}
	for si, s := range scaled {
		pattern := dashPatterns[si%len(dashPatterns)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			row := valueToRow(v, ranges[si].min, ranges[si].max, height*4)
			px, py := x*2, row
			if prevX >= 0 {
				traceLine(prevX, prevY, px, py, func(dx, dy int) {
					if pattern.shouldPlot(dx) {
						setDot(grids[si], dx, dy)
					}
				})
			} else if pattern.shouldPlot(px) {
				setDot(grids[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, scaleNote); err != nil {
		return err
	}
	for i, s := range scaled {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, ranges[i].min, ranges[i].max); err != nil {
			return err
		}
	}

	leftAxisWidth := len(axisLabelTop)
	labels := axisLabels(height)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", leftAxisWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, colorIdx := mergeCell(grids, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && colorIdx >= 0 {
				row.WriteString(palette[colorIdx%len(palette)].code)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(scaled, useColor)); err != nil {
		return err
	}
	return nil
}

// BrailleString renders the plot to a string without color, sized for
// an embedding panel.
func BrailleString(title string, series []Series, width, height int) string {
	var buf strings.Builder
	if err := RenderBraille(&buf, title, series, width, height, false); err != nil {
		return ""
	}
	return buf.String()
}

// BrailleWidthFor computes a plot width fitting the total width after
// the axis gutter.
func BrailleWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minBrailleWidth
	}
	gutter := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	w := totalWidth - gutter
	if w < minBrailleWidth {
		w = minBrailleWidth
	}
	return w
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

// IsTerminal reports whether w is an interactive terminal, for color
// decisions in the CLI preview.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func dropEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func axisLabels(height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func newGrid(height, width int) [][]uint8 {
	g := make([][]uint8, height)
	for y := range g {
		g[y] = make([]uint8, width)
	}
	return g
}

func mergeCell(grids [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, g := range grids {
		if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
			continue
		}
		if g[y][x] == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= g[y][x]
	}
	return mask, colorIdx
}

func (p dashPattern) shouldPlot(x int) bool {
	if p.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%p.period < p.on
}

// resample stretches or shrinks values to exactly width points, using
// bucket means when shrinking and linear interpolation when
// stretching.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 {
		out[0] = values[0]
		return out
	}
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == math.Inf(1) {
		lo = 0
	}
	if hi == math.Inf(-1) {
		hi = 0
	}
	return lo, hi
}

func valueToRow(v, lo, hi float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := rune(0x2800 + 0x01)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = palette[i%len(palette)].code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// traceLine walks the Bresenham line from (x0,y0) to (x1,y1).
func traceLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				break
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				break
			}
			err += dx
			y0 += sy
		}
	}
}

func setDot(grid [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(grid) || cx >= len(grid[cy]) {
		return
	}
	grid[cy][cx] |= dotMask(x%2, y%4)
}

// dotMask maps a dot position within a braille cell to its bit in the
// U+2800 block encoding.
func dotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}
