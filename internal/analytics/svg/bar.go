package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Bars renders a grouped bar chart, one bar per series in every label group.
func Bars(width, height int, series []Series, labels []string, opts BarOpts) (template.HTML, error) {
	if err := validateSeries(series, labels); err != nil {
		return "", err
	}
	f, err := newFrame(width, height, opts.Padding, opts.TickCount, opts.AxisColor, opts.GridColor, series)
	if err != nil {
		return "", err
	}

	zeroY := f.y(0)
	groupWidth := f.chartWidth / float64(len(labels))
	barWidth := groupWidth * 0.7 / float64(len(series))
	inset := groupWidth * 0.15

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "bar", "Bar chart", "Grouped bar comparison")
	f.gridAndAxes(&b)

	for i, label := range labels {
		baseX := f.padding + float64(i)*groupWidth + inset
		for si, s := range series {
			color := seriesColor(s, si)
			if len(series) == 1 && i < len(opts.CategoryColors) {
				color = fallback(opts.CategoryColors[i], color)
			}
			y, h := barPosition(s.Values[i], f.scale, zeroY, f.padding, f.bottom())
			fmt.Fprintf(&b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" rx=\"2\" fill=\"%s\" aria-label=\"%s %s: %s\"></rect>",
				baseX+float64(si)*barWidth, y, barWidth, h, color,
				template.HTMLEscapeString(s.Label), template.HTMLEscapeString(label), formatTick(s.Values[i]))
		}
		f.label(&b, f.padding+float64(i)*groupWidth+groupWidth/2, label)
	}
	f.legend(&b, series)

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func barPosition(value, scale, zeroY, top, bottom float64) (float64, float64) {
	if value >= 0 {
		height := value * scale
		y := zeroY - height
		if y < top {
			height -= top - y
			y = top
		}
		return y, math.Max(height, 0)
	}
	height := math.Abs(value * scale)
	if zeroY+height > bottom {
		height = bottom - zeroY
	}
	return zeroY, math.Max(height, 0)
}
