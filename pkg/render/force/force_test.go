package force

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/table"
)

func fixture(t *testing.T) *explain.Explanation {
	t.Helper()
	features, err := table.New(
		table.StringColumn("color", []string{"red"}),
		table.NumberColumn("size", []float64{1.5}),
		table.NumberColumn("age", []float64{10}),
	)
	if err != nil {
		t.Fatalf("table.New failed: %v", err)
	}
	values := mat.NewDense(1, 3, []float64{2, -0.5, 0})
	exp, err := explain.New(values, []string{"color", "size", "age"}, features,
		explain.WithBaseline(3))
	if err != nil {
		t.Fatalf("explain.New failed: %v", err)
	}
	return exp
}

func TestRenderShowsPrediction(t *testing.T) {
	svg, err := Render(fixture(t), 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := string(svg)

	if !strings.HasPrefix(out, "<svg") {
		t.Error("output is not an SVG document")
	}
	// 3 + 2 - 0.5 = 4.5
	if !strings.Contains(out, "f(x) = 4.5") {
		t.Error("prediction marker missing")
	}
	if !strings.Contains(out, "color = red") {
		t.Error("positive band tooltip missing")
	}
	if !strings.Contains(out, "size = 1.5") {
		t.Error("negative band tooltip missing")
	}
}

func TestRenderSkipsZeroContributions(t *testing.T) {
	svg, err := Render(fixture(t), 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(string(svg), "age = 10") {
		t.Error("zero-attribution feature should not produce a band")
	}
}

func TestRenderRowOutOfRange(t *testing.T) {
	if _, err := Render(fixture(t), 3); err == nil {
		t.Error("Render with out-of-range row should fail")
	}
}
