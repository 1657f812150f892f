package explain

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/table"
)

func TestCollapse(t *testing.T) {
	// One-hot columns color_a and color_b fold into color; carat survives.
	values := mat.NewDense(2, 3, []float64{
		0.5, 0.25, 2,
		-1, 0.5, 3,
	})
	columns := []string{"color_a", "color_b", "carat"}
	features := mustTable(t,
		table.StringColumn("color", []string{"D", "E"}),
		table.NumberColumn("carat", []float64{0.7, 1.2}),
	)

	exp, err := New(values, columns, features, WithCollapse(map[string][]string{
		"color": {"color_a", "color_b"},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := exp.Columns()
	want := []string{"color", "carat"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	if exp.HasColumn("color_a") || exp.HasColumn("color_b") {
		t.Error("expanded columns survived the collapse")
	}

	// color = color_a + color_b, elementwise.
	for i, want := range []float64{0.75, -0.5} {
		if v, _ := exp.Value(i, "color"); v != want {
			t.Errorf("Value(%d, color) = %v, want %v", i, v, want)
		}
	}
	for i, want := range []float64{2, 3} {
		if v, _ := exp.Value(i, "carat"); v != want {
			t.Errorf("Value(%d, carat) = %v, want %v", i, v, want)
		}
	}
}

func TestCollapseErrors(t *testing.T) {
	values := mat.NewDense(1, 3, []float64{1, 2, 3})
	columns := []string{"a", "b", "c"}
	features := func(t *testing.T) *table.Table {
		return mustTable(t,
			table.NumberColumn("a", []float64{1}),
			table.NumberColumn("b", []float64{2}),
			table.NumberColumn("c", []float64{3}),
			table.StringColumn("g", []string{"x"}),
		)
	}

	tests := []struct {
		name    string
		groups  map[string][]string
		wantErr error
	}{
		{
			name:    "UnknownColumn",
			groups:  map[string][]string{"g": {"a", "missing"}},
			wantErr: ErrUnknownCollapseColumn,
		},
		{
			name:    "OverlapAcrossGroups",
			groups:  map[string][]string{"g": {"a"}, "h": {"a", "b"}},
			wantErr: ErrCollapseOverlap,
		},
		{
			name:    "OverlapWithinGroup",
			groups:  map[string][]string{"g": {"a", "a"}},
			wantErr: ErrCollapseOverlap,
		},
		{
			name:    "EmptyParent",
			groups:  map[string][]string{"": {"a"}},
			wantErr: ErrEmptyCollapseGroup,
		},
		{
			name:    "EmptyChildren",
			groups:  map[string][]string{"g": {}},
			wantErr: ErrEmptyCollapseGroup,
		},
		{
			name:    "ParentCollidesWithColumn",
			groups:  map[string][]string{"c": {"a", "b"}},
			wantErr: ErrDuplicateColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(values, columns, features(t), WithCollapse(tt.groups))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCollapseInteractions(t *testing.T) {
	// Interactions given on the pre-collapse axes fold alongside the values:
	// rows and columns of grouped features sum into the parent block.
	values := mat.NewDense(1, 3, []float64{1, 2, 3})
	columns := []string{"color_a", "color_b", "carat"}
	features := mustTable(t,
		table.StringColumn("color", []string{"D"}),
		table.NumberColumn("carat", []float64{0.7}),
	)

	inter, err := NewInteractions([][][]float64{{
		{1, 0.5, 0.1},
		{0.5, 2, 0.2},
		{0.1, 0.2, 3},
	}}, columns)
	if err != nil {
		t.Fatalf("NewInteractions: %v", err)
	}

	exp, err := New(values, columns, features,
		WithInteractions(inter),
		WithCollapse(map[string][]string{"color": {"color_a", "color_b"}}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	x := exp.Interactions()
	if x == nil {
		t.Fatal("Interactions() = nil")
	}
	if got := x.Columns(); len(got) != 2 || got[0] != "color" || got[1] != "carat" {
		t.Fatalf("interaction columns = %v, want [color carat]", got)
	}

	// color diagonal block: 1 + 0.5 + 0.5 + 2 = 4.
	if v, _ := x.Value(0, "color", "color"); v != 4 {
		t.Errorf("(color, color) = %v, want 4", v)
	}
	// color x carat: 0.1 + 0.2 = 0.3 on both sides.
	if v, _ := x.Value(0, "color", "carat"); v != 0.30000000000000004 && v != 0.3 {
		t.Errorf("(color, carat) = %v, want 0.3", v)
	}
	if v, _ := x.Value(0, "carat", "carat"); v != 3 {
		t.Errorf("(carat, carat) = %v, want 3", v)
	}
}
