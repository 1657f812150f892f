// Package force renders a per-observation force plot.
//
// Contributions are drawn as bands along a horizontal axis meeting at the
// prediction: positive attributions push in from the left, negative ones
// from the right. The band widths are proportional to each feature's
// attribution, so the plot shows at a glance which forces balanced out to
// produce the prediction.
package force

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/render"
)

const (
	defaultWidth = 760.0

	height     = 150.0
	bandTop    = 55.0
	bandHeight = 28.0
	labelY     = 110.0
	minLabelPx = 36.0
)

type Option func(*renderer)

type renderer struct {
	width float64
}

// WithWidth sets the overall plot width in pixels.
func WithWidth(px float64) Option { return func(r *renderer) { r.width = px } }

type band struct {
	label    string
	value    float64
	from, to float64 // data-space extent
}

// Render draws the force plot for one observation as SVG.
func Render(exp *explain.Explanation, row int, opts ...Option) ([]byte, error) {
	r := renderer{width: defaultWidth}
	for _, opt := range opts {
		opt(&r)
	}

	values, err := exp.Row(row)
	if err != nil {
		return nil, err
	}

	prediction := exp.Baseline()
	for _, v := range values {
		prediction += v
	}

	positive, negative := splitBands(exp, row, values, prediction)

	xMin, xMax := prediction, prediction
	for _, b := range positive {
		xMin = math.Min(xMin, b.from)
	}
	for _, b := range negative {
		xMax = math.Max(xMax, b.to)
	}
	xMin = math.Min(xMin, exp.Baseline())
	xMax = math.Max(xMax, exp.Baseline())
	if xMax == xMin {
		xMin, xMax = xMin-1, xMax+1
	}
	pad := (xMax - xMin) * 0.05
	xMin, xMax = xMin-pad, xMax+pad

	px := func(v float64) float64 {
		return render.Scale(v, xMin, xMax, 20, r.width-20)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, height, r.width, height)

	for _, tick := range render.Ticks(xMin, xMax, 8) {
		x := px(tick)
		fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#eeeeee"/>`+"\n",
			x, 30.0, x, bandTop+bandHeight+10)
		fmt.Fprintf(&buf, `<text x="%.1f" y="22" font-size="11" fill="#666" text-anchor="middle">%s</text>`+"\n",
			x, render.FormatValue(tick))
	}

	for _, b := range positive {
		renderBand(&buf, b, px, render.ColorPositive)
	}
	for _, b := range negative {
		renderBand(&buf, b, px, render.ColorNegative)
	}

	// Baseline and prediction markers.
	bx, fx := px(exp.Baseline()), px(prediction)
	fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999" stroke-dasharray="4 3"/>`+"\n",
		bx, 30.0, bx, bandTop+bandHeight+10)
	fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333"/>`+"\n",
		fx, 34.0, fx, bandTop+bandHeight+6)
	fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#333" text-anchor="middle" font-weight="bold">f(x) = %s</text>`+"\n",
		fx, 44.0, render.FormatValue(prediction))

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// splitBands lays out positive bands left of the prediction and negative
// bands right of it, largest magnitude adjacent to the prediction.
func splitBands(exp *explain.Explanation, row int, values []float64, prediction float64) (positive, negative []band) {
	cols := exp.Columns()
	for j, name := range cols {
		v := values[j]
		if v == 0 {
			continue
		}
		display := ""
		if c, ok := exp.Features().Column(name); ok {
			display = c.Cell(row)
		}
		b := band{label: render.Label(name, display), value: v}
		if v > 0 {
			positive = append(positive, b)
		} else {
			negative = append(negative, b)
		}
	}
	sort.SliceStable(positive, func(a, b int) bool {
		return positive[a].value > positive[b].value
	})
	sort.SliceStable(negative, func(a, b int) bool {
		return math.Abs(negative[a].value) > math.Abs(negative[b].value)
	})

	cursor := prediction
	for i := range positive {
		positive[i].to = cursor
		positive[i].from = cursor - positive[i].value
		cursor = positive[i].from
	}
	cursor = prediction
	for i := range negative {
		negative[i].from = cursor
		negative[i].to = cursor - negative[i].value
		cursor = negative[i].to
	}
	return positive, negative
}

func renderBand(buf *bytes.Buffer, b band, px func(float64) float64, color string) {
	x0, x1 := px(b.from), px(b.to)
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#ffffff" stroke-width="1"><title>%s: %s</title></rect>`+"\n",
		x0, bandTop, x1-x0, bandHeight, color, render.EscapeXML(b.label), render.FormatValue(b.value))

	// Label only bands wide enough to carry readable text.
	if x1-x0 >= minLabelPx {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="10" fill="#444" text-anchor="middle">%s</text>`+"\n",
			(x0+x1)/2, labelY, render.EscapeXML(b.label))
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#cccccc"/>`+"\n",
			(x0+x1)/2, bandTop+bandHeight, (x0+x1)/2, labelY-12)
	}
}
