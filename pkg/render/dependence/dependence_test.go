package dependence

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/errors"
	"github.com/jmaspons/shapviz/pkg/explain"
	"github.com/jmaspons/shapviz/pkg/table"
)

func fixture(t *testing.T) *explain.Explanation {
	t.Helper()
	features, err := table.New(
		table.NumberColumn("size", []float64{1, 2, 3, 4}),
		table.StringColumn("color", []string{"red", "blue", "red", "blue"}),
	)
	if err != nil {
		t.Fatalf("table.New failed: %v", err)
	}
	values := mat.NewDense(4, 2, []float64{
		0.1, 2,
		-0.2, -1,
		0.3, 1.5,
		-0.4, 0.5,
	})
	exp, err := explain.New(values, []string{"size", "color"}, features)
	if err != nil {
		t.Fatalf("explain.New failed: %v", err)
	}
	return exp
}

func TestRenderProducesHTML(t *testing.T) {
	html, err := Render(fixture(t), "size")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "<html") {
		t.Error("output should be an HTML document")
	}
	if !strings.Contains(out, "Dependence: size") {
		t.Error("chart title missing")
	}
}

func TestRenderWithStringColorFeature(t *testing.T) {
	html, err := Render(fixture(t), "size", WithColorFeature("color"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := string(html)
	// One series per categorical level.
	for _, level := range []string{"red", "blue"} {
		if !strings.Contains(out, level) {
			t.Errorf("series for level %q missing", level)
		}
	}
}

func TestRenderWithNumericColorFeature(t *testing.T) {
	html, err := Render(fixture(t), "color", WithColorFeature("size"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(string(html), "visualMap") {
		t.Error("numeric color feature should add a visual map")
	}
}

func TestRenderUnknownFeature(t *testing.T) {
	if _, err := Render(fixture(t), "ghost"); !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("Render unknown feature: got %v, want ErrCodeInvalidColumn", err)
	}
	if _, err := Render(fixture(t), "size", WithColorFeature("ghost")); !errors.Is(err, errors.ErrCodeInvalidColumn) {
		t.Errorf("Render unknown color feature: got %v, want ErrCodeInvalidColumn", err)
	}
}

func TestRender2D(t *testing.T) {
	html, err := Render2D(fixture(t), "size", "color")
	if err != nil {
		t.Fatalf("Render2D failed: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, "Dependence: size vs color") {
		t.Error("chart title missing")
	}
	if !strings.Contains(out, "visualMap") {
		t.Error("combined attribution should shade through a visual map")
	}
}
