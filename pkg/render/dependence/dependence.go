// Package dependence renders interactive dependence scatter plots as HTML.
//
// A dependence plot shows one feature's display value against its
// attribution across all observations, revealing how the model's use of
// the feature changes over its range. An optional color feature splits or
// shades the points by a second feature, chosen explicitly by the caller.
//
// Output is a self-contained HTML document built with go-echarts, meant
// to be opened in a browser.
package dependence

import (
	"bytes"
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/render"
	"github.com/jmaspons/shapviz/pkg/table"
)

type Option func(*renderer)

type renderer struct {
	color string
	title string
}

// WithColorFeature shades or splits the points by a second feature.
// The feature must exist in the explanation's feature table.
func WithColorFeature(name string) Option { return func(r *renderer) { r.color = name } }

// WithTitle overrides the default chart title.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// Render draws the dependence plot for one feature as HTML.
func Render(exp *explain.Explanation, feature string, options ...Option) ([]byte, error) {
	r := renderer{}
	for _, opt := range options {
		opt(&r)
	}

	attr, err := exp.ColumnValues(feature)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColumn, err, "unknown feature %q", feature)
	}
	xs, err := featureAxis(exp, feature)
	if err != nil {
		return nil, err
	}

	title := r.title
	if title == "" {
		title = fmt.Sprintf("Dependence: %s", feature)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: feature, Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "attribution", Type: "value", Scale: opts.Bool(true)}),
	)

	if r.color == "" {
		scatter.AddSeries(feature, scatterData(xs, attr, nil))
	} else if err := addColoredSeries(scatter, exp, xs, attr, r.color); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to render dependence chart")
	}
	return buf.Bytes(), nil
}

// Render2D draws two features against each other, with the point color
// carrying their combined attribution.
func Render2D(exp *explain.Explanation, x, y string, options ...Option) ([]byte, error) {
	r := renderer{}
	for _, opt := range options {
		opt(&r)
	}

	attrX, err := exp.ColumnValues(x)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColumn, err, "unknown feature %q", x)
	}
	attrY, err := exp.ColumnValues(y)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColumn, err, "unknown feature %q", y)
	}
	xs, err := featureAxis(exp, x)
	if err != nil {
		return nil, err
	}
	ys, err := featureAxis(exp, y)
	if err != nil {
		return nil, err
	}

	combined := make([]float64, len(attrX))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range combined {
		combined[i] = attrX[i] + attrY[i]
		lo = math.Min(lo, combined[i])
		hi = math.Max(hi, combined[i])
	}
	if !(hi > lo) {
		lo, hi = lo-1, hi+1
	}

	title := r.title
	if title == "" {
		title = fmt.Sprintf("Dependence: %s vs %s", x, y)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: x, Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: y, Type: "value", Scale: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:     float32(lo),
			Max:     float32(hi),
			InRange: &opts.VisualMapInRange{Color: []string{render.ColorNegative, render.ColorNeutral, render.ColorPositive}},
		}),
	)
	scatter.AddSeries(fmt.Sprintf("%s + %s", x, y), scatterData(xs, ys, combined))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to render dependence chart")
	}
	return buf.Bytes(), nil
}

// featureAxis returns the numeric axis position for each observation of a
// feature. String columns map to their level index in first-appearance
// order; missing numeric values map to NaN and are skipped by echarts.
func featureAxis(exp *explain.Explanation, name string) ([]float64, error) {
	c, ok := exp.Features().Column(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidColumn, "feature %q not in feature table", name)
	}
	n := exp.Rows()
	xs := make([]float64, n)
	if c.Kind() == table.KindNumber {
		for i := 0; i < n; i++ {
			if v, ok := c.Number(i); ok {
				xs[i] = v
			} else {
				xs[i] = math.NaN()
			}
		}
		return xs, nil
	}
	index := make(map[string]int)
	for i, level := range c.Levels() {
		index[level] = i
	}
	for i := 0; i < n; i++ {
		xs[i] = float64(index[c.Cell(i)])
	}
	return xs, nil
}

// scatterData builds the point list. With extra set, each point carries a
// third dimension for the visual map.
func scatterData(xs, ys, extra []float64) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || (extra != nil && math.IsNaN(extra[i])) {
			continue
		}
		var value interface{}
		if extra != nil {
			value = []interface{}{xs[i], ys[i], extra[i]}
		} else {
			value = []interface{}{xs[i], ys[i]}
		}
		data = append(data, opts.ScatterData{Value: value, SymbolSize: 8})
	}
	return data
}

// addColoredSeries splits or shades the points by the color feature.
// String color features produce one series per level; numeric ones carry
// the color value as a third dimension shaded through a visual map.
func addColoredSeries(scatter *charts.Scatter, exp *explain.Explanation, xs, attr []float64, color string) error {
	c, ok := exp.Features().Column(color)
	if !ok {
		return errors.New(errors.ErrCodeInvalidColumn, "color feature %q not in feature table", color)
	}
	n := exp.Rows()

	if c.Kind() == table.KindString {
		for _, level := range c.Levels() {
			var lx, ly []float64
			for i := 0; i < n; i++ {
				if c.Cell(i) == level {
					lx = append(lx, xs[i])
					ly = append(ly, attr[i])
				}
			}
			scatter.AddSeries(level, scatterData(lx, ly, nil))
		}
		return nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	shades := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := c.Number(i)
		if !ok {
			shades[i] = math.NaN()
			continue
		}
		shades[i] = v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !(hi > lo) {
		lo, hi = lo-1, hi+1
	}
	scatter.SetGlobalOptions(charts.WithVisualMapOpts(opts.VisualMap{
		Min:     float32(lo),
		Max:     float32(hi),
		Text:    []string{color + " high", color + " low"},
		InRange: &opts.VisualMapInRange{Color: []string{render.ColorNegative, render.ColorNeutral, render.ColorPositive}},
	}))
	scatter.AddSeries(color, scatterData(xs, attr, shades))
	return nil
}
