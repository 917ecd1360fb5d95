package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Donut renders a donut chart with a legend below the ring. Slices with a
// non-positive value are listed in the legend but not drawn.
func Donut(size int, slices []Slice, opts DonutOpts) (template.HTML, error) {
	if len(slices) == 0 {
		return "", fmt.Errorf("svg: slices required")
	}
	if size <= 0 {
		size = DefaultDonut
	}
	total := 0.0
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = float64(size) / 8
	}
	legendColor := fallback(opts.LegendColor, "#475569")

	cx := float64(size) / 2
	cy := float64(size) / 2
	radius := float64(size)/2 - thickness/2 - 4
	circumference := 2 * math.Pi * radius
	legendHeight := 16 * len(slices)
	height := size + legendHeight + 8

	titleID := makeID(opts.Title, "donut-title")
	descID := makeID(opts.Title, "donut-desc")

	var b strings.Builder
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", size, height, titleID, descID)
	fmt.Fprintf(&b, "<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Donut chart")))
	fmt.Fprintf(&b, "<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Share of total")))
	fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"#e2e8f0\" stroke-width=\"%.2f\"></circle>", cx, cy, radius, thickness)

	if total > 0 {
		offset := 0.0
		for i, s := range slices {
			if s.Value <= 0 {
				continue
			}
			length := s.Value / total * circumference
			fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\" stroke-dasharray=\"%.2f %.2f\" stroke-dashoffset=\"%.2f\" transform=\"rotate(-90 %.2f %.2f)\" aria-label=\"%s: %s\"></circle>",
				cx, cy, radius, sliceColor(s, i), thickness, length, circumference-length, -offset, cx, cy,
				template.HTMLEscapeString(s.Label), formatTick(s.Value))
			offset += length
		}
	}
	fmt.Fprintf(&b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"18\" font-weight=\"600\" text-anchor=\"middle\">%s</text>", cx, cy+6, legendColor, formatTick(total))

	for i, s := range slices {
		y := float64(size) + 4 + float64(i)*16
		fmt.Fprintf(&b, "<rect x=\"8\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", y, sliceColor(s, i))
		fmt.Fprintf(&b, "<text x=\"24\" y=\"%.2f\" fill=\"%s\" font-size=\"11\">%s (%s)</text>", y+9, legendColor, template.HTMLEscapeString(s.Label), formatTick(s.Value))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func sliceColor(s Slice, i int) string {
	return fallback(s.Color, palette[i%len(palette)])
}
