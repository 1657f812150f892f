package explain

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/table"
)

func mustTable(t *testing.T, cols ...table.Column) *table.Table {
	t.Helper()
	tab, err := table.New(cols...)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tab
}

// twoByTwo builds the canonical two-observation fixture: values
// [[1,-1],[-1,1]] with columns x and y, features [["a",100],["b",10]].
func twoByTwo(t *testing.T) (*mat.Dense, []string, *table.Table) {
	t.Helper()
	values := mat.NewDense(2, 2, []float64{1, -1, -1, 1})
	features := mustTable(t,
		table.StringColumn("x", []string{"a", "b"}),
		table.NumberColumn("y", []float64{100, 10}),
	)
	return values, []string{"x", "y"}, features
}

func TestNew(t *testing.T) {
	values, columns, features := twoByTwo(t)

	exp, err := New(values, columns, features, WithBaseline(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := exp.Rows(); got != 2 {
		t.Errorf("Rows() = %d, want 2", got)
	}
	if got := exp.Columns(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("Columns() = %v, want [x y]", got)
	}
	if got := exp.Baseline(); got != 4 {
		t.Errorf("Baseline() = %v, want 4", got)
	}
	if exp.HasInteractions() {
		t.Error("HasInteractions() = true, want false")
	}
	if v, err := exp.Value(1, "y"); err != nil || v != 1 {
		t.Errorf("Value(1, y) = %v, %v, want 1, nil", v, err)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name     string
		values   *mat.Dense
		columns  []string
		features func(t *testing.T) *table.Table
		opts     []Option
		wantErr  error
	}{
		{
			name:    "NilValues",
			values:  nil,
			columns: []string{"x"},
			features: func(t *testing.T) *table.Table {
				return mustTable(t, table.NumberColumn("x", []float64{1}))
			},
			wantErr: ErrNilValues,
		},
		{
			name:    "ColumnCountMismatch",
			values:  mat.NewDense(1, 2, []float64{1, 2}),
			columns: []string{"x"},
			features: func(t *testing.T) *table.Table {
				return mustTable(t, table.NumberColumn("x", []float64{1}))
			},
			wantErr: ErrColumnCountMismatch,
		},
		{
			name:    "EmptyColumnName",
			values:  mat.NewDense(1, 2, []float64{1, 2}),
			columns: []string{"x", ""},
			features: func(t *testing.T) *table.Table {
				return mustTable(t, table.NumberColumn("x", []float64{1}))
			},
			wantErr: ErrEmptyColumnName,
		},
		{
			name:    "DuplicateColumnName",
			values:  mat.NewDense(1, 2, []float64{1, 2}),
			columns: []string{"x", "x"},
			features: func(t *testing.T) *table.Table {
				return mustTable(t, table.NumberColumn("x", []float64{1}))
			},
			wantErr: ErrDuplicateColumn,
		},
		{
			name:    "NaNValue",
			values:  mat.NewDense(1, 2, []float64{1, math.NaN()}),
			columns: []string{"x", "y"},
			features: func(t *testing.T) *table.Table {
				return mustTable(t,
					table.NumberColumn("x", []float64{1}),
					table.NumberColumn("y", []float64{2}),
				)
			},
			wantErr: ErrNonFiniteValue,
		},
		{
			name:    "InfValue",
			values:  mat.NewDense(1, 1, []float64{math.Inf(1)}),
			columns: []string{"x"},
			features: func(t *testing.T) *table.Table {
				return mustTable(t, table.NumberColumn("x", []float64{1}))
			},
			wantErr: ErrNonFiniteValue,
		},
		{
			name:     "NilFeatures",
			values:   mat.NewDense(1, 1, []float64{1}),
			columns:  []string{"x"},
			features: func(t *testing.T) *table.Table { return nil },
			wantErr:  ErrNilFeatures,
		},
		{
			name:    "MissingFeatureColumn",
			values:  mat.NewDense(1, 2, []float64{1, 2}),
			columns: []string{"x", "y"},
			features: func(t *testing.T) *table.Table {
				return mustTable(t, table.NumberColumn("x", []float64{1}))
			},
			wantErr: ErrMissingFeatureColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var values mat.Matrix
			if tt.values != nil {
				values = tt.values
			}
			_, err := New(values, tt.columns, tt.features(t), tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRowCountMismatch(t *testing.T) {
	// Any mismatch amount must be rejected, not just off-by-one.
	for _, extra := range []int{1, 2, 5} {
		n := 2 + extra
		xs := make([]float64, n)
		features := mustTable(t,
			table.NumberColumn("x", xs),
			table.NumberColumn("y", xs),
		)
		values := mat.NewDense(2, 2, []float64{1, -1, -1, 1})

		_, err := New(values, []string{"x", "y"}, features)
		if !errors.Is(err, ErrRowCountMismatch) {
			t.Errorf("mismatch %d: error = %v, want ErrRowCountMismatch", extra, err)
		}
	}
}

func TestNewBaselineDefault(t *testing.T) {
	values, columns, features := twoByTwo(t)
	exp, err := New(values, columns, features)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := exp.Baseline(); got != 0 {
		t.Errorf("Baseline() = %v, want 0", got)
	}
}

func TestNewExtraFeatureColumnsRetained(t *testing.T) {
	// Extra feature-table columns are non-fatal: ignored for validation,
	// retained for display.
	values := mat.NewDense(2, 2, []float64{1, -1, -1, 1})
	features := mustTable(t,
		table.StringColumn("note", []string{"n1", "n2"}),
		table.NumberColumn("y", []float64{100, 10}),
		table.StringColumn("x", []string{"a", "b"}),
	)

	exp, err := New(values, []string{"x", "y"}, features)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	names := exp.Features().Names()
	want := []string{"x", "y", "note"}
	if len(names) != len(want) {
		t.Fatalf("feature columns = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("feature column %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestNewAlignsByName(t *testing.T) {
	// The feature table arrives in a different column order; alignment must
	// key on names, not positions.
	values := mat.NewDense(1, 2, []float64{1, 2})
	features := mustTable(t,
		table.NumberColumn("y", []float64{20}),
		table.NumberColumn("x", []float64{10}),
	)

	exp, err := New(values, []string{"x", "y"}, features)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	col, ok := exp.Features().Column("x")
	if !ok {
		t.Fatal("feature column x missing")
	}
	if v, _ := col.Number(0); v != 10 {
		t.Errorf("aligned x value = %v, want 10", v)
	}
	if names := exp.Features().Names(); names[0] != "x" {
		t.Errorf("first aligned column = %q, want x", names[0])
	}
}

func TestExplanationImmutable(t *testing.T) {
	values, columns, features := twoByTwo(t)
	exp, err := New(values, columns, features)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Mutating the input after construction must not leak through.
	values.Set(0, 0, 99)
	if v, _ := exp.Value(0, "x"); v != 1 {
		t.Errorf("Value(0, x) = %v after input mutation, want 1", v)
	}

	// Mutating an accessor's copy must not leak in.
	cp := exp.Values()
	cp.Set(0, 0, -99)
	if v, _ := exp.Value(0, "x"); v != 1 {
		t.Errorf("Value(0, x) = %v after copy mutation, want 1", v)
	}
}

func TestRowSum(t *testing.T) {
	values, columns, features := twoByTwo(t)
	exp, err := New(values, columns, features, WithBaseline(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Row 0 is {1, -1}: contributions cancel, leaving the baseline.
	sum, err := exp.RowSum(0)
	if err != nil {
		t.Fatalf("RowSum: %v", err)
	}
	if sum != 4 {
		t.Errorf("RowSum(0) = %v, want 4", sum)
	}

	if _, err := exp.RowSum(5); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("RowSum(5) error = %v, want ErrRowOutOfRange", err)
	}
}

func TestAccessorErrors(t *testing.T) {
	values, columns, features := twoByTwo(t)
	exp, err := New(values, columns, features)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := exp.Value(0, "nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Value(0, nope) error = %v, want ErrUnknownColumn", err)
	}
	if _, err := exp.Row(-1); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("Row(-1) error = %v, want ErrRowOutOfRange", err)
	}
	if _, err := exp.ColumnValues("nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("ColumnValues(nope) error = %v, want ErrUnknownColumn", err)
	}
}
