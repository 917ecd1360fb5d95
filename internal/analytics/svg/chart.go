package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

type frame struct {
	width, height int
	padding       float64
	chartWidth    float64
	chartHeight   float64
	minVal        float64
	maxVal        float64
	scale         float64
	ticks         int
	axisColor     string
	gridColor     string
}

func newFrame(width, height int, padding float64, ticks int, axisColor, gridColor string, series []Series) (frame, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if padding <= 0 {
		padding = DefaultPadding
	}
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	f := frame{
		width:       width,
		height:      height,
		padding:     padding,
		chartWidth:  float64(width) - 2*padding,
		chartHeight: float64(height) - 2*padding,
		ticks:       ticks,
		axisColor:   fallback(axisColor, "#475569"),
		gridColor:   fallback(gridColor, "#cbd5e1"),
	}
	if f.chartWidth <= 0 || f.chartHeight <= 0 {
		return frame{}, fmt.Errorf("svg: viewport too small")
	}
	f.minVal, f.maxVal = seriesBounds(series)
	if f.minVal > 0 {
		f.minVal = 0
	}
	if f.maxVal < 0 {
		f.maxVal = 0
	}
	if almostEqual(f.maxVal, f.minVal) {
		f.maxVal = f.minVal + 1
	}
	f.scale = f.chartHeight / (f.maxVal - f.minVal)
	return f, nil
}

func (f frame) bottom() float64 {
	return f.padding + f.chartHeight
}

func (f frame) y(value float64) float64 {
	return f.bottom() - (value-f.minVal)*f.scale
}

func (f frame) open(b *strings.Builder, title, desc, kind, defaultTitle, defaultDesc string) {
	titleID := makeID(title, kind+"-title")
	descID := makeID(title, kind+"-desc")
	fmt.Fprintf(b, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", f.width, f.height, titleID, descID)
	fmt.Fprintf(b, "<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(title, defaultTitle)))
	fmt.Fprintf(b, "<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(desc, defaultDesc)))
}

func (f frame) gridAndAxes(b *strings.Builder) {
	for i := 0; i <= f.ticks; i++ {
		ratio := float64(i) / float64(f.ticks)
		y := f.bottom() - ratio*f.chartHeight
		value := f.minVal + (f.maxVal-f.minVal)*ratio
		fmt.Fprintf(b, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", f.padding, y, f.padding+f.chartWidth, y, f.gridColor)
		fmt.Fprintf(b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", f.padding-6, y+4, f.axisColor, template.HTMLEscapeString(formatTick(value)))
	}
	zero := f.y(0)
	fmt.Fprintf(b, "<g stroke=\"%s\" aria-label=\"Axes\">", f.axisColor)
	fmt.Fprintf(b, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", f.padding, f.padding, f.padding, f.bottom())
	fmt.Fprintf(b, "<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", f.padding, zero, f.padding+f.chartWidth, zero)
	b.WriteString("</g>")
}

func (f frame) label(b *strings.Builder, x float64, text string) {
	fmt.Fprintf(b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x, f.bottom()+14, f.axisColor, template.HTMLEscapeString(text))
}

func (f frame) legend(b *strings.Builder, series []Series) {
	if len(series) < 2 {
		return
	}
	legendY := math.Max(f.padding-12, 12)
	legendX := f.padding
	for i, s := range series {
		fmt.Fprintf(b, "<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, seriesColor(s, i))
		fmt.Fprintf(b, "<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", legendX+14, legendY, f.axisColor, template.HTMLEscapeString(s.Label))
		legendX += 100
	}
}

func validateSeries(series []Series, labels []string) error {
	if len(series) == 0 {
		return fmt.Errorf("svg: at least one series required")
	}
	if len(labels) == 0 {
		return fmt.Errorf("svg: labels required")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return fmt.Errorf("svg: series %q length must match labels", s.Label)
		}
	}
	return nil
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func seriesBounds(series []Series) (float64, float64) {
	first := true
	var minVal, maxVal float64
	for _, s := range series {
		for _, v := range s.Values {
			if first {
				minVal, maxVal = v, v
				first = false
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	return minVal, maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
}
