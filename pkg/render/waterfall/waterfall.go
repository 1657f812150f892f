// Package waterfall renders a per-observation waterfall plot.
//
// The plot decomposes a single prediction into its feature contributions:
// starting from the baseline, each bar shifts the running total by one
// feature's attribution until the final prediction is reached. Features
// are shown by descending impact; the long tail is folded into a single
// "other features" bar.
package waterfall

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/render"
)

const (
	defaultWidth       = 720.0
	defaultMaxFeatures = 10

	rowHeight    = 26.0
	marginLeft   = 190.0
	marginRight  = 70.0
	marginTop    = 50.0
	marginBottom = 40.0
)

type Option func(*renderer)

type renderer struct {
	width       float64
	maxFeatures int
}

// WithWidth sets the overall plot width in pixels.
func WithWidth(px float64) Option { return func(r *renderer) { r.width = px } }

// WithMaxFeatures caps the number of individually drawn features.
// Remaining features are folded into one summary bar.
func WithMaxFeatures(n int) Option { return func(r *renderer) { r.maxFeatures = n } }

type bar struct {
	label string
	value float64
	from  float64 // running total before this bar
}

// Render draws the waterfall for one observation as SVG.
func Render(exp *explain.Explanation, row int, opts ...Option) ([]byte, error) {
	r := renderer{width: defaultWidth, maxFeatures: defaultMaxFeatures}
	for _, opt := range opts {
		opt(&r)
	}
	if r.maxFeatures < 1 {
		r.maxFeatures = 1
	}

	values, err := exp.Row(row)
	if err != nil {
		return nil, err
	}

	bars := collectBars(exp, row, values, r.maxFeatures)
	prediction := exp.Baseline()
	for _, b := range bars {
		prediction += b.value
	}

	// Stack bottom-up so the most important feature lands on top.
	running := exp.Baseline()
	for i := len(bars) - 1; i >= 0; i-- {
		bars[i].from = running
		running += bars[i].value
	}

	xMin, xMax := exp.Baseline(), exp.Baseline()
	for _, b := range bars {
		xMin = math.Min(xMin, math.Min(b.from, b.from+b.value))
		xMax = math.Max(xMax, math.Max(b.from, b.from+b.value))
	}
	if xMax == xMin {
		xMin, xMax = xMin-1, xMax+1
	}
	pad := (xMax - xMin) * 0.05
	xMin, xMax = xMin-pad, xMax+pad

	height := marginTop + float64(len(bars))*rowHeight + marginBottom
	px := func(v float64) float64 {
		return render.Scale(v, xMin, xMax, marginLeft, r.width-marginRight)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, height, r.width, height)

	renderAxis(&buf, xMin, xMax, px, height)
	renderGuides(&buf, exp.Baseline(), prediction, px, height)

	for i, b := range bars {
		y := marginTop + float64(i)*rowHeight
		renderBar(&buf, b, y, px)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// collectBars orders features by descending impact and folds the tail.
func collectBars(exp *explain.Explanation, row int, values []float64, maxFeatures int) []bar {
	cols := exp.Columns()
	bars := make([]bar, len(cols))
	for j, name := range cols {
		display := ""
		if c, ok := exp.Features().Column(name); ok {
			display = c.Cell(row)
		}
		bars[j] = bar{label: render.Label(name, display), value: values[j]}
	}
	sort.SliceStable(bars, func(a, b int) bool {
		return math.Abs(bars[a].value) > math.Abs(bars[b].value)
	})

	if len(bars) <= maxFeatures {
		return bars
	}
	kept := bars[:maxFeatures-1]
	rest := 0.0
	for _, b := range bars[maxFeatures-1:] {
		rest += b.value
	}
	folded := bar{
		label: fmt.Sprintf("%d other features", len(bars)-maxFeatures+1),
		value: rest,
	}
	return append(append([]bar{}, kept...), folded)
}

func renderAxis(buf *bytes.Buffer, xMin, xMax float64, px func(float64) float64, height float64) {
	for _, tick := range render.Ticks(xMin, xMax, 6) {
		x := px(tick)
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#eeeeee"/>`+"\n",
			x, marginTop-10, x, height-marginBottom+5)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="11" fill="#666" text-anchor="middle">%s</text>`+"\n",
			x, height-marginBottom+20, render.FormatValue(tick))
	}
}

func renderGuides(buf *bytes.Buffer, baseline, prediction float64, px func(float64) float64, height float64) {
	bx, fx := px(baseline), px(prediction)
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999" stroke-dasharray="4 3"/>`+"\n",
		bx, marginTop-15, bx, height-marginBottom)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#333" text-anchor="middle">E[f(x)] = %s</text>`+"\n",
		bx, marginTop-25, render.FormatValue(baseline))
	fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-dasharray="4 3"/>`+"\n",
		fx, marginTop-15, fx, height-marginBottom)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#333" text-anchor="middle" font-weight="bold">f(x) = %s</text>`+"\n",
		fx, marginTop-12, render.FormatValue(prediction))
}

func renderBar(buf *bytes.Buffer, b bar, y float64, px func(float64) float64) {
	x0, x1 := px(b.from), px(b.from+b.value)
	color := render.ColorPositive
	if b.value < 0 {
		color = render.ColorNegative
		x0, x1 = x1, x0
	}
	w := x1 - x0
	if w < 1 {
		w = 1
	}
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		x0, y+4, w, rowHeight-8, color)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#333" text-anchor="end">%s</text>`+"\n",
		marginLeft-8, y+rowHeight/2+4, render.EscapeXML(b.label))

	vx := x1 + 5
	anchor := "start"
	if b.value < 0 {
		vx = x0 - 5
		anchor = "end"
	}
	sign := "+"
	if b.value < 0 {
		sign = ""
	}
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="11" fill="%s" text-anchor="%s">%s%s</text>`+"\n",
		vx, y+rowHeight/2+4, color, anchor, sign, render.FormatValue(b.value))
}
