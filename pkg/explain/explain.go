package explain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/jmaspons/shapviz/pkg/table"
)

var (
	// ErrNilValues is returned by [New] when the attribution grid is nil or
	// has no columns. An explanation without attributions is meaningless.
	ErrNilValues = errors.New("attribution grid must not be empty")

	// ErrNilFeatures is returned by [New] when no feature table is given.
	// Feature values are required for display even though they are never
	// used for recomputation.
	ErrNilFeatures = errors.New("feature table is required")

	// ErrColumnCountMismatch is returned by [New] when the number of column
	// names differs from the attribution grid's column count.
	ErrColumnCountMismatch = errors.New("column name count must match grid width")

	// ErrEmptyColumnName is returned by [New] when a column name is empty.
	ErrEmptyColumnName = errors.New("column name must not be empty")

	// ErrDuplicateColumn is returned by [New] when two attribution columns
	// share a name after collapsing.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrRowCountMismatch is returned by [New] when the feature table or the
	// interaction grid disagrees with the attribution grid on row count.
	ErrRowCountMismatch = errors.New("row count mismatch")

	// ErrMissingFeatureColumn is returned by [New] when the feature table
	// lacks a column present in the attribution grid.
	ErrMissingFeatureColumn = errors.New("feature table is missing a column")

	// ErrNonFiniteValue is returned by [New] when the attribution grid
	// contains NaN or an infinity. Attributions must be real numbers.
	ErrNonFiniteValue = errors.New("attribution grid contains a non-finite value")

	// ErrUnknownColumn is returned by accessors and [Explanation.Select]
	// when a requested column does not exist.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrRowOutOfRange is returned by row accessors and [Explanation.Subset]
	// when a row index is negative or past the last observation.
	ErrRowOutOfRange = errors.New("row index out of range")
)

// Option configures optional inputs to [New].
type Option func(*builder)

type builder struct {
	baseline     float64
	interactions *Interactions
	collapse     map[string][]string
}

// WithBaseline sets the model's average output on the attribution scale.
// The baseline defaults to 0 when this option is absent and is stored
// verbatim when supplied.
func WithBaseline(b float64) Option {
	return func(o *builder) { o.baseline = b }
}

// WithInteractions attaches a pairwise interaction grid. The grid must have
// the same row count as the attribution grid, and its trailing axes must
// carry the same column names in the same order (after collapsing).
func WithInteractions(x *Interactions) Option {
	return func(o *builder) { o.interactions = x }
}

// WithCollapse folds one-hot-encoded attribution columns back into their
// parent categorical feature. Each map entry names a parent feature and the
// expanded columns to sum into it. The fold is applied before validation,
// and the feature table must carry the parent column for display.
func WithCollapse(groups map[string][]string) Option {
	return func(o *builder) { o.collapse = groups }
}

// Explanation is an immutable SHAP explanation: a per-observation,
// per-feature attribution grid, the feature values shown alongside it, a
// baseline, and optionally pairwise interaction attributions.
//
// The zero value is not usable - use [New] to build a validated instance.
// Explanations are safe for concurrent reads.
type Explanation struct {
	values   *mat.Dense
	columns  []string
	colIdx   map[string]int
	features *table.Table
	baseline float64
	inter    *Interactions
}

// New validates and assembles an explanation from an attribution grid, its
// column names, and a display feature table.
//
// The feature table is aligned to the grid's column order by name; extra
// feature-table columns are retained for display and ignored for
// validation. See the package documentation for collapse and interaction
// semantics.
//
// New returns an error wrapping one of the package sentinel errors when:
//   - the grid is empty or its width disagrees with the column names,
//   - a column name is empty or duplicated,
//   - the grid contains NaN or infinities,
//   - the feature table has a different row count or lacks a grid column,
//   - the interaction grid is inconsistent with the (collapsed) features.
func New(values mat.Matrix, columns []string, features *table.Table, opts ...Option) (*Explanation, error) {
	var o builder
	for _, opt := range opts {
		opt(&o)
	}

	if values == nil {
		return nil, ErrNilValues
	}
	n, p := values.Dims()
	if p == 0 {
		return nil, ErrNilValues
	}
	if len(columns) != p {
		return nil, fmt.Errorf("%d names for %d columns: %w", len(columns), p, ErrColumnCountMismatch)
	}

	dense := mat.DenseCopyOf(values)
	cols := slices.Clone(columns)
	inter := o.interactions

	if len(o.collapse) > 0 {
		var err error
		dense, cols, err = collapseValues(dense, cols, o.collapse)
		if err != nil {
			return nil, err
		}
		if inter != nil && slices.Equal(inter.columns, columns) {
			inter, err = inter.collapse(o.collapse, cols)
			if err != nil {
				return nil, err
			}
		}
		p = len(cols)
	}

	colIdx := make(map[string]int, p)
	for i, name := range cols {
		if name == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if _, ok := colIdx[name]; ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrDuplicateColumn)
		}
		colIdx[name] = i
	}

	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			if v := dense.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d, column %q: %w", i, cols[j], ErrNonFiniteValue)
			}
		}
	}

	if features == nil {
		return nil, ErrNilFeatures
	}
	if features.Rows() != n {
		return nil, fmt.Errorf("feature table has %d rows, attribution grid has %d: %w",
			features.Rows(), n, ErrRowCountMismatch)
	}
	for _, name := range cols {
		if !features.Has(name) {
			return nil, fmt.Errorf("column %q: %w", name, ErrMissingFeatureColumn)
		}
	}
	aligned, err := features.Align(cols...)
	if err != nil {
		return nil, err
	}

	if inter != nil {
		if err := inter.conforms(n, cols); err != nil {
			return nil, err
		}
	}

	return &Explanation{
		values:   dense,
		columns:  cols,
		colIdx:   colIdx,
		features: aligned,
		baseline: o.baseline,
		inter:    inter,
	}, nil
}

// Rows returns the number of observations.
func (e *Explanation) Rows() int {
	n, _ := e.values.Dims()
	return n
}

// Columns returns the feature names in grid order.
func (e *Explanation) Columns() []string {
	return slices.Clone(e.columns)
}

// HasColumn reports whether the explanation contains the named feature.
func (e *Explanation) HasColumn(name string) bool {
	_, ok := e.colIdx[name]
	return ok
}

// Values returns a copy of the attribution grid.
func (e *Explanation) Values() *mat.Dense {
	return mat.DenseCopyOf(e.values)
}

// Value returns the attribution for observation i and the named feature.
func (e *Explanation) Value(i int, column string) (float64, error) {
	if i < 0 || i >= e.Rows() {
		return 0, fmt.Errorf("row %d of %d: %w", i, e.Rows(), ErrRowOutOfRange)
	}
	j, ok := e.colIdx[column]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", column, ErrUnknownColumn)
	}
	return e.values.At(i, j), nil
}

// Row returns a copy of observation i's attributions in column order.
func (e *Explanation) Row(i int) ([]float64, error) {
	if i < 0 || i >= e.Rows() {
		return nil, fmt.Errorf("row %d of %d: %w", i, e.Rows(), ErrRowOutOfRange)
	}
	row := make([]float64, len(e.columns))
	mat.Row(row, i, e.values)
	return row, nil
}

// ColumnValues returns a copy of the named feature's attribution column.
func (e *Explanation) ColumnValues(name string) ([]float64, error) {
	j, ok := e.colIdx[name]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", name, ErrUnknownColumn)
	}
	col := make([]float64, e.Rows())
	mat.Col(col, j, e.values)
	return col, nil
}

// Features returns the display feature table, aligned to the attribution
// grid's column order. The table is immutable and may contain extra columns
// beyond the grid's features.
func (e *Explanation) Features() *table.Table { return e.features }

// Baseline returns the model's average output on the attribution scale.
func (e *Explanation) Baseline() float64 { return e.baseline }

// Interactions returns the pairwise interaction grid, or nil when none was
// supplied.
func (e *Explanation) Interactions() *Interactions { return e.inter }

// HasInteractions reports whether pairwise interaction attributions are
// present.
func (e *Explanation) HasInteractions() bool { return e.inter != nil }

// RowSum returns the reconstructed prediction for observation i on the
// attribution scale: baseline plus the sum of the row's attributions.
func (e *Explanation) RowSum(i int) (float64, error) {
	row, err := e.Row(i)
	if err != nil {
		return 0, err
	}
	sum := e.baseline
	for _, v := range row {
		sum += v
	}
	return sum, nil
}
