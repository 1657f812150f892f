// Package render provides visualization rendering for explanations.
//
// # Overview
//
// This package contains the shared plot vocabulary (plot kinds, output
// formats, the Artifact result type) and the drawing helpers used by the
// plot subpackages. The plots themselves live in one subpackage per
// family:
//
//   - [waterfall]: per-observation waterfall decomposition
//   - [force]: per-observation force plot
//   - [importance]: mean-impact bar chart and beeswarm summary
//   - [dependence]: interactive dependence scatter (HTML)
//   - [network]: interaction network diagrams (DOT, SVG, PNG)
//
// Each subpackage is a pure function from an explanation to bytes; no
// plot mutates its input.
//
// [waterfall]: github.com/jmaspons/shapviz/pkg/render/waterfall
// [force]: github.com/jmaspons/shapviz/pkg/render/force
// [importance]: github.com/jmaspons/shapviz/pkg/render/importance
// [dependence]: github.com/jmaspons/shapviz/pkg/render/dependence
// [network]: github.com/jmaspons/shapviz/pkg/render/network
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jmaspons/shapviz/pkg/errors"
)

// Format identifies an output encoding for a rendered plot.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
	FormatDOT  Format = "dot"
)

// Kind identifies a plot family.
type Kind string

const (
	KindWaterfall  Kind = "waterfall"
	KindForce      Kind = "force"
	KindImportance Kind = "importance"
	KindBeeswarm   Kind = "beeswarm"
	KindDependence Kind = "dependence"
	KindNetwork    Kind = "network"
)

// Artifact is one rendered output.
type Artifact struct {
	Kind   Kind
	Format Format
	Data   []byte
}

// Kinds returns all plot kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindWaterfall, KindForce, KindImportance, KindBeeswarm, KindDependence, KindNetwork}
}

// Formats returns the output formats a plot kind supports.
func Formats(kind Kind) []Format {
	switch kind {
	case KindDependence:
		return []Format{FormatHTML}
	case KindNetwork:
		return []Format{FormatSVG, FormatPNG, FormatDOT}
	default:
		return []Format{FormatSVG}
	}
}

// ParseKind validates a plot-kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidPlot, "unknown plot kind %q", s)
}

// ParseFormat validates a format string against a plot kind.
func ParseFormat(kind Kind, s string) (Format, error) {
	if s == "" {
		return Formats(kind)[0], nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, supported := range Formats(kind) {
		if f == supported {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "plot %q does not support format %q", kind, s)
}

// Contribution colors shared across plot families. Positive contributions
// push the prediction above the baseline, negative ones below.
const (
	ColorPositive = "#ff0d57"
	ColorNegative = "#1e88e5"
	ColorNeutral  = "#999999"
)

// Gradient interpolates the contribution palette from low (blue) to high
// (red). The input is clamped to [0, 1].
func Gradient(t float64) string {
	if math.IsNaN(t) {
		return ColorNeutral
	}
	t = math.Max(0, math.Min(1, t))
	lerp := func(a, b int) int { return a + int(math.Round(t*float64(b-a))) }
	// #1e88e5 -> #ff0d57
	return fmt.Sprintf("#%02x%02x%02x", lerp(0x1e, 0xff), lerp(0x88, 0x0d), lerp(0xe5, 0x57))
}

// FormatValue renders a float compactly for plot labels.
func FormatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e7 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	if math.Abs(v) >= 0.001 && math.Abs(v) < 1e7 {
		s := strconv.FormatFloat(v, 'f', 3, 64)
		s = strings.TrimRight(s, "0")
		return strings.TrimSuffix(s, ".")
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}

// EscapeXML escapes the characters that cannot appear raw in SVG text.
func EscapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}

// Ticks returns up to n round-numbered axis ticks covering [min, max].
func Ticks(min, max float64, n int) []float64 {
	if n < 2 || !(max > min) {
		return []float64{min}
	}
	rawStep := (max - min) / float64(n-1)
	mag := math.Pow(10, math.Floor(math.Log10(rawStep)))
	var step float64
	switch norm := rawStep / mag; {
	case norm < 1.5:
		step = mag
	case norm < 3:
		step = 2 * mag
	case norm < 7:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	start := math.Ceil(min/step) * step
	var ticks []float64
	for v := start; v <= max+step/1e6; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

// Scale maps a value from a data range onto a pixel range.
func Scale(v, dataMin, dataMax, pxMin, pxMax float64) float64 {
	if dataMax == dataMin {
		return (pxMin + pxMax) / 2
	}
	return pxMin + (v-dataMin)/(dataMax-dataMin)*(pxMax-pxMin)
}

// Label joins a feature name with its display value, as used in row
// labels across the per-observation plots.
func Label(name, value string) string {
	if value == "" {
		return name
	}
	return fmt.Sprintf("%s = %s", name, value)
}
