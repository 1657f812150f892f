package explain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// symmetryTol is the absolute tolerance for the pairwise symmetry check.
// Interaction grids from tree explainers are symmetric up to floating-point
// rounding of the summed path contributions.
const symmetryTol = 1e-8

var (
	// ErrInteractionShape is returned when an interaction grid is ragged,
	// not square in its trailing axes, or sized differently from the
	// attribution grid's feature count.
	ErrInteractionShape = errors.New("interaction grid has inconsistent dimensions")

	// ErrInteractionColumns is returned when the interaction grid's axis
	// names differ from the attribution grid's columns.
	ErrInteractionColumns = errors.New("interaction grid columns must match attribution columns")

	// ErrInteractionAsymmetry is returned when an observation's interaction
	// matrix is not symmetric within tolerance.
	ErrInteractionAsymmetry = errors.New("interaction grid is not symmetric")
)

// Interactions holds pairwise interaction attributions: for each
// observation, a square matrix whose (a, b) entry is the portion of the
// prediction explained jointly by features a and b. The diagonal carries
// the features' main effects.
//
// Construct with [NewInteractions]; the type is immutable afterwards.
type Interactions struct {
	data    []float64 // observation-major, then row-major p x p
	n, p    int
	columns []string
}

// NewInteractions validates a 3D interaction grid of shape
// (observations, features, features) with the given axis names.
//
// Every observation's matrix must be square with one row per column name,
// contain only finite values, and be symmetric within a small absolute
// tolerance. Column name uniqueness is checked later, against the
// attribution grid, by [New].
func NewInteractions(grid [][][]float64, columns []string) (*Interactions, error) {
	p := len(columns)
	if p == 0 {
		return nil, fmt.Errorf("no axis names: %w", ErrInteractionShape)
	}
	n := len(grid)
	x := &Interactions{
		data:    make([]float64, 0, n*p*p),
		n:       n,
		p:       p,
		columns: slices.Clone(columns),
	}
	for i, m := range grid {
		if len(m) != p {
			return nil, fmt.Errorf("observation %d has %d rows, want %d: %w", i, len(m), p, ErrInteractionShape)
		}
		for a, row := range m {
			if len(row) != p {
				return nil, fmt.Errorf("observation %d, row %q has %d entries, want %d: %w",
					i, columns[a], len(row), p, ErrInteractionShape)
			}
			for b, v := range row {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("observation %d, (%q, %q): %w", i, columns[a], columns[b], ErrNonFiniteValue)
				}
				if b < a && math.Abs(v-m[b][a]) > symmetryTol {
					return nil, fmt.Errorf("observation %d, (%q, %q) = %g but (%q, %q) = %g: %w",
						i, columns[a], columns[b], v, columns[b], columns[a], m[b][a], ErrInteractionAsymmetry)
				}
			}
			x.data = append(x.data, row...)
		}
	}
	return x, nil
}

// Rows returns the number of observations.
func (x *Interactions) Rows() int { return x.n }

// Size returns the feature count of the trailing axes.
func (x *Interactions) Size() int { return x.p }

// Columns returns the axis names in order.
func (x *Interactions) Columns() []string { return slices.Clone(x.columns) }

// Matrix returns a copy of observation i's interaction matrix.
func (x *Interactions) Matrix(i int) (*mat.Dense, error) {
	if i < 0 || i >= x.n {
		return nil, fmt.Errorf("row %d of %d: %w", i, x.n, ErrRowOutOfRange)
	}
	block := x.data[i*x.p*x.p : (i+1)*x.p*x.p]
	return mat.NewDense(x.p, x.p, slices.Clone(block)), nil
}

// Value returns the interaction attribution between features a and b for
// observation i.
func (x *Interactions) Value(i int, a, b string) (float64, error) {
	if i < 0 || i >= x.n {
		return 0, fmt.Errorf("row %d of %d: %w", i, x.n, ErrRowOutOfRange)
	}
	ai := slices.Index(x.columns, a)
	if ai < 0 {
		return 0, fmt.Errorf("column %q: %w", a, ErrUnknownColumn)
	}
	bi := slices.Index(x.columns, b)
	if bi < 0 {
		return 0, fmt.Errorf("column %q: %w", b, ErrUnknownColumn)
	}
	return x.at(i, ai, bi), nil
}

func (x *Interactions) at(i, a, b int) float64 {
	return x.data[i*x.p*x.p+a*x.p+b]
}

// conforms checks the grid against the attribution grid's row count and
// (post-collapse) column names.
func (x *Interactions) conforms(rows int, columns []string) error {
	if x.n != rows {
		return fmt.Errorf("interaction grid has %d rows, attribution grid has %d: %w",
			x.n, rows, ErrRowCountMismatch)
	}
	if x.p != len(columns) {
		return fmt.Errorf("interaction grid is %dx%d per row, want %dx%d: %w",
			x.p, x.p, len(columns), len(columns), ErrInteractionShape)
	}
	if !slices.Equal(x.columns, columns) {
		return fmt.Errorf("interaction columns %v, attribution columns %v: %w",
			x.columns, columns, ErrInteractionColumns)
	}
	return nil
}

// collapse folds expanded one-hot axes into their parent feature by summing
// the corresponding rows and columns of every observation's matrix. The
// target argument gives the post-collapse column order to emit.
func (x *Interactions) collapse(groups map[string][]string, target []string) (*Interactions, error) {
	parent, err := collapsePlan(x.columns, groups)
	if err != nil {
		return nil, err
	}

	// Map every original axis to its output position.
	outIdx := make(map[string]int, len(target))
	for i, name := range target {
		outIdx[name] = i
	}
	q := len(target)
	pos := make([]int, x.p)
	for j, name := range x.columns {
		out := name
		if p, ok := parent[name]; ok {
			out = p
		}
		i, ok := outIdx[out]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", out, ErrUnknownColumn)
		}
		pos[j] = i
	}

	folded := &Interactions{
		data:    make([]float64, x.n*q*q),
		n:       x.n,
		p:       q,
		columns: slices.Clone(target),
	}
	for i := 0; i < x.n; i++ {
		base := i * q * q
		for a := 0; a < x.p; a++ {
			for b := 0; b < x.p; b++ {
				folded.data[base+pos[a]*q+pos[b]] += x.at(i, a, b)
			}
		}
	}
	return folded, nil
}
