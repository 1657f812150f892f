// Package importance renders global feature-importance summaries.
//
// Two plot styles are provided. [Bar] draws the mean absolute attribution
// per feature as a horizontal bar chart. [Beeswarm] draws every
// observation's attribution as a colored dot per feature row, where the
// dot color encodes the feature's value from low (blue) to high (red).
// Both order features by descending importance.
package importance

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"

	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/render"
	"github.com/jmaspons/shapviz/pkg/table"
)

const (
	defaultWidth       = 720.0
	defaultMaxFeatures = 15

	rowHeight    = 26.0
	marginLeft   = 160.0
	marginRight  = 40.0
	marginTop    = 30.0
	marginBottom = 40.0

	// jitterSeed makes beeswarm layouts reproducible across runs.
	jitterSeed = 1
)

type Option func(*renderer)

type renderer struct {
	width       float64
	maxFeatures int
}

// WithWidth sets the overall plot width in pixels.
func WithWidth(px float64) Option { return func(r *renderer) { r.width = px } }

// WithMaxFeatures caps the number of feature rows shown.
func WithMaxFeatures(n int) Option { return func(r *renderer) { r.maxFeatures = n } }

func newRenderer(opts ...Option) renderer {
	r := renderer{width: defaultWidth, maxFeatures: defaultMaxFeatures}
	for _, opt := range opts {
		opt(&r)
	}
	if r.maxFeatures < 1 {
		r.maxFeatures = 1
	}
	return r
}

// ordered returns features by descending mean absolute attribution,
// capped at maxFeatures.
func ordered(exp *explain.Explanation, maxFeatures int) []string {
	names := exp.Order()
	if len(names) > maxFeatures {
		names = names[:maxFeatures]
	}
	return names
}

// Bar renders the mean absolute attribution per feature as SVG.
func Bar(exp *explain.Explanation, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)

	cols := exp.Columns()
	meanAbs := exp.MeanAbs()
	byName := make(map[string]float64, len(cols))
	for j, name := range cols {
		byName[name] = meanAbs[j]
	}
	names := ordered(exp, r.maxFeatures)

	maxVal := 0.0
	for _, name := range names {
		maxVal = math.Max(maxVal, byName[name])
	}
	if maxVal == 0 {
		maxVal = 1
	}

	height := marginTop + float64(len(names))*rowHeight + marginBottom
	px := func(v float64) float64 {
		return render.Scale(v, 0, maxVal*1.05, marginLeft, r.width-marginRight)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, height, r.width, height)

	for _, tick := range render.Ticks(0, maxVal*1.05, 6) {
		x := px(tick)
		fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#eeeeee"/>`+"\n",
			x, marginTop-5, x, height-marginBottom+5)
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="11" fill="#666" text-anchor="middle">%s</text>`+"\n",
			x, height-marginBottom+20, render.FormatValue(tick))
	}

	for i, name := range names {
		y := marginTop + float64(i)*rowHeight
		w := px(byName[name]) - marginLeft
		fmt.Fprintf(&buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			marginLeft, y+4, w, rowHeight-8, render.ColorPositive)
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#333" text-anchor="end">%s</text>`+"\n",
			marginLeft-8, y+rowHeight/2+4, render.EscapeXML(name))
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="11" fill="#666" text-anchor="start">%s</text>`+"\n",
			px(byName[name])+5, y+rowHeight/2+4, render.FormatValue(byName[name]))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// Beeswarm renders the per-observation attribution summary as SVG.
func Beeswarm(exp *explain.Explanation, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	names := ordered(exp, r.maxFeatures)

	xMin, xMax := 0.0, 0.0
	perFeature := make(map[string][]float64, len(names))
	for _, name := range names {
		vals, err := exp.ColumnValues(name)
		if err != nil {
			return nil, err
		}
		perFeature[name] = vals
		for _, v := range vals {
			xMin = math.Min(xMin, v)
			xMax = math.Max(xMax, v)
		}
	}
	if xMax == xMin {
		xMin, xMax = xMin-1, xMax+1
	}
	pad := (xMax - xMin) * 0.05
	xMin, xMax = xMin-pad, xMax+pad

	height := marginTop + float64(len(names))*rowHeight + marginBottom
	px := func(v float64) float64 {
		return render.Scale(v, xMin, xMax, marginLeft, r.width-marginRight)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, height, r.width, height)

	for _, tick := range render.Ticks(xMin, xMax, 6) {
		x := px(tick)
		fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#eeeeee"/>`+"\n",
			x, marginTop-5, x, height-marginBottom+5)
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="11" fill="#666" text-anchor="middle">%s</text>`+"\n",
			x, height-marginBottom+20, render.FormatValue(tick))
	}

	zero := px(0)
	fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999"/>`+"\n",
		zero, marginTop-5, zero, height-marginBottom+5)

	rng := rand.New(rand.NewSource(jitterSeed))
	for i, name := range names {
		yCenter := marginTop + float64(i)*rowHeight + rowHeight/2
		fmt.Fprintf(&buf, `<text x="%.1f" y="%.1f" font-size="12" fill="#333" text-anchor="end">%s</text>`+"\n",
			marginLeft-8, yCenter+4, render.EscapeXML(name))

		colors := dotColors(exp, name)
		for row, v := range perFeature[name] {
			jitter := (rng.Float64() - 0.5) * (rowHeight - 10)
			fmt.Fprintf(&buf, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s" fill-opacity="0.8"/>`+"\n",
				px(v), yCenter+jitter, colors[row])
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// dotColors maps each observation's feature value onto the low-high
// palette. String columns and missing values render in the neutral color.
func dotColors(exp *explain.Explanation, name string) []string {
	n := exp.Rows()
	colors := make([]string, n)
	for i := range colors {
		colors[i] = render.ColorNeutral
	}

	c, ok := exp.Features().Column(name)
	if !ok || c.Kind() != table.KindNumber {
		return colors
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		if v, ok := c.Number(i); ok {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if !(hi > lo) {
		return colors
	}
	for i := 0; i < n; i++ {
		if v, ok := c.Number(i); ok {
			colors[i] = render.Gradient((v - lo) / (hi - lo))
		}
	}
	return colors
}
