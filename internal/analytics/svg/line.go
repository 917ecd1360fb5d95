package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Line renders a line chart with one path per series. The area under the
// first series is filled when FillColor is set.
func Line(width, height int, series []Series, labels []string, opts LineOpts) (template.HTML, error) {
	if err := validateSeries(series, labels); err != nil {
		return "", err
	}
	f, err := newFrame(width, height, opts.Padding, opts.TickCount, opts.AxisColor, opts.GridColor, series)
	if err != nil {
		return "", err
	}

	step := 0.0
	if len(labels) > 1 {
		step = f.chartWidth / float64(len(labels)-1)
	}
	xAt := func(i int) float64 {
		if len(labels) == 1 {
			return f.padding + f.chartWidth/2
		}
		return f.padding + float64(i)*step
	}

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "line", "Line chart", "Trend data")
	f.gridAndAxes(&b)

	for si, s := range series {
		color := seriesColor(s, si)
		var path strings.Builder
		for i, value := range s.Values {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			} else {
				path.WriteByte(' ')
			}
			fmt.Fprintf(&path, "%s%.2f %.2f", cmd, xAt(i), f.y(value))
		}
		if si == 0 && opts.FillColor != "" {
			area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", path.String(), xAt(len(s.Values)-1), f.bottom(), xAt(0), f.bottom())
			fmt.Fprintf(&b, "<path d=\"%s\" fill=\"%s\" stroke=\"none\" aria-hidden=\"true\"></path>", area, opts.FillColor)
		}
		fmt.Fprintf(&b, "<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\" aria-label=\"%s\"></path>", path.String(), color, template.HTMLEscapeString(s.Label))
		if opts.ShowDots {
			for i, value := range s.Values {
				fmt.Fprintf(&b, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"></circle>", xAt(i), f.y(value), color)
			}
		}
	}

	for i, label := range labels {
		f.label(&b, xAt(i), label)
	}
	f.legend(&b, series)

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
