// Package network renders the interaction structure of an explanation as
// a weighted undirected graph.
//
// Nodes are features sized by mean absolute attribution; edges connect
// feature pairs whose mean absolute interaction exceeds a threshold, with
// edge thickness proportional to the interaction strength. The graph is
// emitted as Graphviz DOT and can be rasterized to SVG or PNG.
//
// Requires an explanation carrying interaction values.
package network

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/goccy/go-graphviz"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/render"
)

// Options configures interaction network rendering.
type Options struct {
	// MinStrength drops edges whose mean |interaction| falls below this
	// fraction of the strongest off-diagonal interaction. Zero keeps
	// every nonzero edge.
	MinStrength float64
}

// ErrNoInteractions is returned when the explanation has no interaction
// values to draw.
var ErrNoInteractions = errors.New(errors.ErrCodeInvalidInput, "explanation has no interaction values")

// ToDOT converts an explanation's interaction structure to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(exp *explain.Explanation, opts Options) (string, error) {
	if !exp.HasInteractions() {
		return "", ErrNoInteractions
	}
	strength := exp.InteractionStrength()
	cols := exp.Columns()
	meanAbs := exp.MeanAbs()

	maxEdge := 0.0
	for a := range cols {
		for b := a + 1; b < len(cols); b++ {
			maxEdge = math.Max(maxEdge, strength.At(a, b))
		}
	}

	maxNode := 0.0
	for _, v := range meanAbs {
		maxNode = math.Max(maxNode, v)
	}
	if maxNode == 0 {
		maxNode = 1
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#f2f2f2\", fontsize=14];\n")
	buf.WriteString("\n")

	for j, name := range cols {
		// Node area tracks mean |attribution|.
		size := 0.5 + math.Sqrt(meanAbs[j]/maxNode)
		fmt.Fprintf(&buf, "  %q [width=%.2f, tooltip=%q];\n",
			name, size, fmt.Sprintf("%s: %s", name, render.FormatValue(meanAbs[j])))
	}

	buf.WriteString("\n")
	for a := range cols {
		for b := a + 1; b < len(cols); b++ {
			w := strength.At(a, b)
			if w == 0 || (maxEdge > 0 && w < opts.MinStrength*maxEdge) {
				continue
			}
			penwidth := 0.5
			if maxEdge > 0 {
				penwidth = 0.5 + 5*w/maxEdge
			}
			fmt.Fprintf(&buf, "  %q -- %q [penwidth=%.2f, tooltip=%q];\n",
				cols[a], cols[b], penwidth, render.FormatValue(w))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG renders the interaction network to SVG using Graphviz.
func RenderSVG(ctx context.Context, exp *explain.Explanation, opts Options) ([]byte, error) {
	return renderFormat(ctx, exp, opts, graphviz.SVG)
}

// RenderPNG renders the interaction network to PNG using Graphviz.
func RenderPNG(ctx context.Context, exp *explain.Explanation, opts Options) ([]byte, error) {
	return renderFormat(ctx, exp, opts, graphviz.PNG)
}

func renderFormat(ctx context.Context, exp *explain.Explanation, opts Options, format graphviz.Format) ([]byte, error) {
	dot, err := ToDOT(exp, opts)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to initialize graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to parse DOT output")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to render network")
	}
	return buf.Bytes(), nil
}
