// Package svg renders the admin analytics charts as inline, accessible SVG.
package svg

// Series is one named row of values plotted against the chart labels.
type Series struct {
	Label  string
	Values []float64
	Color  string
}

// Slice is one segment of a donut chart.
type Slice struct {
	Label string
	Value float64
	Color string
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// BarOpts customises the bar chart renderer. With a single series,
// CategoryColors colours each bar by its label position.
type BarOpts struct {
	Title          string
	Description    string
	CategoryColors []string
	AxisColor      string
	GridColor      string
	Padding        float64
	TickCount      int
}

// DonutOpts customises the donut chart renderer.
type DonutOpts struct {
	Title       string
	Description string
	Thickness   float64
	LegendColor string
}

// Defaults for the analytics charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 28.0
	DefaultTicks   = 5
	DefaultDonut   = 220
)

var palette = []string{"#2563eb", "#10b981", "#f59e0b", "#7c3aed"}

func seriesColor(s Series, i int) string {
	return fallback(s.Color, palette[i%len(palette)])
}
