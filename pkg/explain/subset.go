package explain

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Subset returns a new explanation containing only the given observations,
// in the given order. Duplicated indices are allowed (bootstrap-style
// resampling of an explanation is occasionally useful for plots).
func (e *Explanation) Subset(rows []int) (*Explanation, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows selected: %w", ErrNilValues)
	}
	n, p := e.values.Dims()
	for _, i := range rows {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("row %d of %d: %w", i, n, ErrRowOutOfRange)
		}
	}

	values := mat.NewDense(len(rows), p, nil)
	for j, i := range rows {
		values.SetRow(j, e.values.RawRowView(i))
	}

	var inter *Interactions
	if e.inter != nil {
		inter = &Interactions{
			data:    make([]float64, 0, len(rows)*p*p),
			n:       len(rows),
			p:       p,
			columns: slices.Clone(e.inter.columns),
		}
		for _, i := range rows {
			inter.data = append(inter.data, e.inter.data[i*p*p:(i+1)*p*p]...)
		}
	}

	out := &Explanation{
		values:   values,
		columns:  slices.Clone(e.columns),
		colIdx:   e.colIdx,
		features: e.features.Take(rows),
		baseline: e.baseline,
		inter:    inter,
	}
	return out, nil
}

// Select returns a new explanation restricted to the named features, in the
// given order. The feature table keeps its extra display columns, and the
// interaction grid (when present) is reduced to the selected axes.
//
// Note that dropping features breaks the additivity identity: RowSum of the
// result no longer reconstructs the original prediction.
func (e *Explanation) Select(columns []string) (*Explanation, error) {
	if len(columns) == 0 {
		return nil, ErrNilValues
	}
	idx := make([]int, len(columns))
	seen := make(map[string]bool, len(columns))
	for k, name := range columns {
		j, ok := e.colIdx[name]
		if !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrUnknownColumn)
		}
		if seen[name] {
			return nil, fmt.Errorf("column %q: %w", name, ErrDuplicateColumn)
		}
		seen[name] = true
		idx[k] = j
	}

	n := e.Rows()
	q := len(columns)
	values := mat.NewDense(n, q, nil)
	for i := 0; i < n; i++ {
		for k, j := range idx {
			values.Set(i, k, e.values.At(i, j))
		}
	}

	colIdx := make(map[string]int, q)
	for k, name := range columns {
		colIdx[name] = k
	}

	var inter *Interactions
	if e.inter != nil {
		inter = &Interactions{
			data:    make([]float64, n*q*q),
			n:       n,
			p:       q,
			columns: slices.Clone(columns),
		}
		for i := 0; i < n; i++ {
			for a, ja := range idx {
				for b, jb := range idx {
					inter.data[i*q*q+a*q+b] = e.inter.at(i, ja, jb)
				}
			}
		}
	}

	features, err := e.features.Align(columns...)
	if err != nil {
		return nil, err
	}

	return &Explanation{
		values:   values,
		columns:  slices.Clone(columns),
		colIdx:   colIdx,
		features: features,
		baseline: e.baseline,
		inter:    inter,
	}, nil
}
